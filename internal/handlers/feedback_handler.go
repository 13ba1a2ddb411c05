package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/middleware"
)

// FeedbackRequest keeps rating untyped so that strings and fractions reach
// the rating parser instead of failing JSON decoding.
type FeedbackRequest struct {
	EventID string      `json:"event_id" binding:"required,uuid"`
	Rating  interface{} `json:"rating"`
	Comment *string     `json:"comment" binding:"omitempty,max=2000"`
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	const op = "handlers.SubmitFeedback"

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	feedback, err := h.feedback.Submit(
		c.Request.Context(),
		middleware.CallerFrom(c),
		uuid.MustParse(req.EventID),
		req.Rating,
		req.Comment,
	)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, feedback)
}

// EventFeedback returns the event's feedback together with its aggregate.
func (h *Handler) EventFeedback(c *gin.Context) {
	const op = "handlers.EventFeedback"

	eventID, ok := helpers.ParseUUIDParam(c, "eventId")
	if !ok {
		return
	}

	list, aggregate, err := h.feedback.Overview(c.Request.Context(), middleware.CallerFrom(c), eventID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, gin.H{
		"feedback": list,
		"average":  aggregate.Average,
		"count":    aggregate.Count,
	})
}

func (h *Handler) FeedbackSummary(c *gin.Context) {
	const op = "handlers.FeedbackSummary"

	eventID, ok := helpers.ParseUUIDParam(c, "eventId")
	if !ok {
		return
	}

	aggregate, err := h.feedback.AggregateFor(c.Request.Context(), middleware.CallerFrom(c), eventID)
	if err != nil {
		h.respondWithServiceError(c, op, err)
		return
	}

	helpers.RespondWithData(c, http.StatusOK, aggregate)
}
