package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/middleware"
	"github.com/farellandr/civic-events/internal/models"
)

type PromoRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	VideoURL    *string `json:"video_url" binding:"omitempty,url"`
	CaptionText *string `json:"caption_text" binding:"omitempty,max=5000"`
	Published   *bool   `json:"published"`
}

func (r PromoRequest) apply(promo *models.Promo) {
	promo.Title = r.Title
	promo.Description = r.Description
	promo.VideoURL = r.VideoURL
	promo.CaptionText = r.CaptionText
	if r.Published != nil {
		promo.Published = *r.Published
	}
}

func (h *Handler) ListPromos(c *gin.Context) {
	const op = "handlers.ListPromos"

	promos, err := h.storage.Promos(c.Request.Context(), middleware.CallerFrom(c).IsAdmin())
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, promos)
}

func (h *Handler) GetPromo(c *gin.Context) {
	const op = "handlers.GetPromo"

	id, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	promo, err := h.storage.Promo(c.Request.Context(), id)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}
	if !promo.Published && !middleware.CallerFrom(c).IsAdmin() {
		helpers.RespondWithError(c, http.StatusNotFound, "Promo not found.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, promo)
}

func (h *Handler) CreatePromo(c *gin.Context) {
	const op = "handlers.CreatePromo"

	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	promo := models.Promo{Published: true}
	req.apply(&promo)

	if err := h.storage.CreatePromo(c.Request.Context(), &promo); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, promo)
}

func (h *Handler) UpdatePromo(c *gin.Context) {
	const op = "handlers.UpdatePromo"

	id, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	promo, err := h.storage.Promo(c.Request.Context(), id)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	req.apply(&promo)

	if err := h.storage.SavePromo(c.Request.Context(), &promo); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, promo)
}

func (h *Handler) DeletePromo(c *gin.Context) {
	const op = "handlers.DeletePromo"

	id, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.storage.DeletePromo(c.Request.Context(), id); err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, gin.H{
		"message": "Promo deleted successfully.",
	})
}
