package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/middleware"
)

const passImageSize = 256

type RegistrationRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
}

type VerifyPassRequest struct {
	PassData string `json:"pass_data" binding:"required"`
}

func (h *Handler) RegisterForEvent(c *gin.Context) {
	const op = "handlers.RegisterForEvent"

	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	registration, err := h.registrations.Register(c.Request.Context(), middleware.CallerFrom(c), uuid.MustParse(req.EventID))
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, registration)
}

func (h *Handler) CancelRegistration(c *gin.Context) {
	const op = "handlers.CancelRegistration"

	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	registration, err := h.registrations.Cancel(c.Request.Context(), middleware.CallerFrom(c), uuid.MustParse(req.EventID))
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, registration)
}

func (h *Handler) MyRegistrations(c *gin.Context) {
	const op = "handlers.MyRegistrations"

	registrations, err := h.registrations.ListForUser(c.Request.Context(), middleware.CallerFrom(c).UserID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, registrations)
}

func (h *Handler) RegistrationStatus(c *gin.Context) {
	const op = "handlers.RegistrationStatus"

	eventID, ok := helpers.ParseUUIDParam(c, "eventId")
	if !ok {
		return
	}

	status, err := h.registrations.StatusFor(c.Request.Context(), middleware.CallerFrom(c).UserID, eventID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, gin.H{
		"event_id": eventID,
		"status":   status,
	})
}

// RegistrationPass renders the caller's check-in pass as a QR code PNG.
func (h *Handler) RegistrationPass(c *gin.Context) {
	const op = "handlers.RegistrationPass"

	eventID, ok := helpers.ParseUUIDParam(c, "eventId")
	if !ok {
		return
	}

	data, err := h.registrations.Pass(c.Request.Context(), middleware.CallerFrom(c), eventID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	image, err := qrcode.Encode(data, qrcode.Medium, passImageSize)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	c.Data(http.StatusOK, "image/png", image)
}

func (h *Handler) VerifyPass(c *gin.Context) {
	const op = "handlers.VerifyPass"

	var req VerifyPassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	registration, err := h.registrations.VerifyPass(c.Request.Context(), req.PassData)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, registration)
}

func (h *Handler) EventAttendees(c *gin.Context) {
	const op = "handlers.EventAttendees"

	eventID, ok := helpers.ParseUUIDParam(c, "eventId")
	if !ok {
		return
	}

	attendees, err := h.registrations.Attendees(c.Request.Context(), eventID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, attendees)
}
