package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/middleware"
	"github.com/farellandr/civic-events/internal/models"
)

type NotificationRequest struct {
	UserID  string `json:"user_id" binding:"required,uuid"`
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=2000"`
}

func (h *Handler) ListNotifications(c *gin.Context) {
	const op = "handlers.ListNotifications"

	notifications, err := h.storage.NotificationsByUser(c.Request.Context(), middleware.CallerFrom(c).UserID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	const op = "handlers.MarkNotificationRead"

	notificationID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.storage.Notification(c.Request.Context(), notificationID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}
	if notification.UserID != middleware.CallerFrom(c).UserID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to update this notification.")
		return
	}

	if err := h.storage.MarkNotificationRead(c.Request.Context(), notificationID); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}
	notification.Read = true

	helpers.RespondWithData(c, http.StatusOK, notification)
}

func (h *Handler) CreateNotification(c *gin.Context) {
	const op = "handlers.CreateNotification"

	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	notification := models.Notification{
		UserID:  uuid.MustParse(req.UserID),
		Title:   req.Title,
		Message: req.Message,
	}
	if err := h.storage.CreateNotification(c.Request.Context(), &notification); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, notification)
}
