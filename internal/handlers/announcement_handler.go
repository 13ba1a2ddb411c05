package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/middleware"
	"github.com/farellandr/civic-events/internal/models"
)

type AnnouncementRequest struct {
	Title     string  `json:"title" binding:"required,max=200"`
	AudioURL  *string `json:"audio_url" binding:"omitempty,url"`
	Published *bool   `json:"published"`
}

func (r AnnouncementRequest) apply(announcement *models.Announcement) {
	announcement.Title = r.Title
	announcement.AudioURL = r.AudioURL
	if r.Published != nil {
		announcement.Published = *r.Published
	}
}

func (h *Handler) ListAnnouncements(c *gin.Context) {
	const op = "handlers.ListAnnouncements"

	announcements, err := h.storage.Announcements(c.Request.Context(), middleware.CallerFrom(c).IsAdmin())
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, announcements)
}

func (h *Handler) GetAnnouncement(c *gin.Context) {
	const op = "handlers.GetAnnouncement"

	id, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	announcement, err := h.storage.Announcement(c.Request.Context(), id)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}
	if !announcement.Published && !middleware.CallerFrom(c).IsAdmin() {
		helpers.RespondWithError(c, http.StatusNotFound, "Announcement not found.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, announcement)
}

func (h *Handler) CreateAnnouncement(c *gin.Context) {
	const op = "handlers.CreateAnnouncement"

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	announcement := models.Announcement{Published: true}
	req.apply(&announcement)

	if err := h.storage.CreateAnnouncement(c.Request.Context(), &announcement); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, announcement)
}

func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	const op = "handlers.UpdateAnnouncement"

	id, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	announcement, err := h.storage.Announcement(c.Request.Context(), id)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	req.apply(&announcement)

	if err := h.storage.SaveAnnouncement(c.Request.Context(), &announcement); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, announcement)
}

func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	const op = "handlers.DeleteAnnouncement"

	id, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.storage.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, gin.H{
		"message": "Announcement deleted successfully.",
	})
}
