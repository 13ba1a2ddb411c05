package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/middleware"
	"github.com/farellandr/civic-events/internal/models"
)

type ProfileResponse struct {
	models.User
	ActiveRegistrations int64 `json:"active_registrations"`
	FeedbackCount       int64 `json:"feedback_count"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	const op = "handlers.GetProfile"

	userID := middleware.CallerFrom(c).UserID

	user, err := h.storage.User(c.Request.Context(), userID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	registrations, feedback, err := h.storage.UserActivity(c.Request.Context(), userID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, ProfileResponse{
		User:                user,
		ActiveRegistrations: registrations,
		FeedbackCount:       feedback,
	})
}
