package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/middleware"
	"github.com/farellandr/civic-events/internal/models"
	"github.com/farellandr/civic-events/internal/storage"
)

type EventRequest struct {
	Title       string                 `json:"title" binding:"required,max=200"`
	Description *string                `json:"description" binding:"omitempty,max=5000"`
	Location    *string                `json:"location" binding:"omitempty,max=300"`
	StartsAt    *time.Time             `json:"starts_at"`
	EndsAt      *time.Time             `json:"ends_at"`
	Published   *bool                  `json:"published"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func (r EventRequest) validTimes() bool {
	return r.StartsAt == nil || r.EndsAt == nil || !r.EndsAt.Before(*r.StartsAt)
}

func (r EventRequest) apply(event *models.Event) {
	event.Title = r.Title
	event.Description = r.Description
	event.Location = r.Location
	event.StartsAt = r.StartsAt
	event.EndsAt = r.EndsAt
	event.Metadata = r.Metadata
	if r.Published != nil {
		event.Published = *r.Published
	}
}

func (h *Handler) ListEvents(c *gin.Context) {
	const op = "handlers.ListEvents"

	page, limit, ok := helpers.ParsePagination(c)
	if !ok {
		return
	}

	events, total, err := h.storage.Events(c.Request.Context(), storage.EventFilter{
		Query:         c.Query("q"),
		IncludeDrafts: middleware.CallerFrom(c).IsAdmin(),
		Page:          storage.Page{Number: page, Limit: limit},
	})
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithPage(c, events, total, page, limit)
}

func (h *Handler) GetEvent(c *gin.Context) {
	const op = "handlers.GetEvent"

	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.storage.Event(c.Request.Context(), eventID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}
	if !event.VisibleTo(middleware.CallerFrom(c)) {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, event)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	const op = "handlers.CreateEvent"

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}
	if !req.validTimes() {
		helpers.RespondWithError(c, http.StatusBadRequest, "End time must not be before start time.")
		return
	}

	event := models.Event{Published: true}
	req.apply(&event)

	if err := h.storage.CreateEvent(c.Request.Context(), &event); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, event)
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	const op = "handlers.UpdateEvent"

	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}
	if !req.validTimes() {
		helpers.RespondWithError(c, http.StatusBadRequest, "End time must not be before start time.")
		return
	}

	event, err := h.storage.Event(c.Request.Context(), eventID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	req.apply(&event)

	if err := h.storage.SaveEvent(c.Request.Context(), &event); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	const op = "handlers.DeleteEvent"

	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.storage.DeleteEvent(c.Request.Context(), eventID); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}
