package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/lib/logger/sl"
	"github.com/farellandr/civic-events/internal/services/feedback"
	"github.com/farellandr/civic-events/internal/services/registration"
	"github.com/farellandr/civic-events/internal/storage"
)

type Handler struct {
	log           *slog.Logger
	storage       *storage.Storage
	registrations *registration.Service
	feedback      *feedback.Service
}

func New(
	log *slog.Logger,
	st *storage.Storage,
	registrations *registration.Service,
	feedback *feedback.Service,
) *Handler {
	return &Handler{
		log:           log,
		storage:       st,
		registrations: registrations,
		feedback:      feedback,
	}
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.log.Error("health check failed", sl.Err(err))
		helpers.RespondWithError(c, http.StatusServiceUnavailable, "Database unavailable.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondWithServiceError maps domain and storage errors to HTTP responses.
// Unknown errors are logged and reported as 500.
func (h *Handler) respondWithServiceError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, registration.ErrEventNotFound),
		errors.Is(err, feedback.ErrEventNotFound),
		errors.Is(err, storage.ErrEventNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
	case errors.Is(err, storage.ErrNotificationNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Notification not found.")
	case errors.Is(err, storage.ErrAnnouncementNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Announcement not found.")
	case errors.Is(err, storage.ErrPromoNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Promo not found.")
	case errors.Is(err, storage.ErrUserNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
	case errors.Is(err, registration.ErrAlreadyRegistered):
		helpers.RespondWithError(c, http.StatusConflict, "You are already registered for this event.")
	case errors.Is(err, registration.ErrNotRegistered):
		helpers.RespondWithError(c, http.StatusConflict, "You are not registered for this event.")
	case errors.Is(err, registration.ErrInvalidPass):
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid check-in pass.")
	case errors.Is(err, feedback.ErrInvalidRating):
		c.AbortWithStatusJSON(http.StatusBadRequest, helpers.ErrorResponse{
			Error:   helpers.HTTPStatusText(http.StatusBadRequest),
			Message: "Invalid input. Please check your fields.",
			Errors: []helpers.FieldError{{
				Field:   "rating",
				Message: "Rating must be a whole number between 1 and 5.",
			}},
		})
	case errors.Is(err, context.Canceled):
		c.Abort()
	default:
		h.log.Error("request failed", slog.String("op", op), sl.Err(err))
		helpers.RespondWithError(c, http.StatusInternalServerError, "Internal server error.")
	}
}
