// Package feedback stores one rating per user and event and summarizes them.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farellandr/civic-events/internal/lib/logger/sl"
	"github.com/farellandr/civic-events/internal/metrics"
	"github.com/farellandr/civic-events/internal/models"
	"github.com/farellandr/civic-events/internal/storage"
)

type Service struct {
	log      *slog.Logger
	storage  *storage.Storage
	outcomes *prometheus.CounterVec
}

// New returns a feedback service. outcomes may be nil.
func New(log *slog.Logger, st *storage.Storage, outcomes *prometheus.CounterVec) *Service {
	return &Service{
		log:      log,
		storage:  st,
		outcomes: outcomes,
	}
}

// Submit records the caller's rating for the event. A second submission by
// the same user overwrites the first one.
func (s *Service) Submit(
	ctx context.Context,
	caller models.Caller,
	eventID uuid.UUID,
	rating any,
	comment *string,
) (models.Feedback, error) {
	const op = "feedback.Submit"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", caller.UserID.String()),
		slog.String("event_id", eventID.String()),
	)

	value, err := ParseRating(rating)
	if err != nil {
		s.record(err)
		return models.Feedback{}, fmt.Errorf("%s: %w", op, err)
	}
	comment = normalizeComment(comment)

	var feedback models.Feedback
	err = s.storage.Transaction(ctx, func(tx *storage.Storage) error {
		if err := visibleEvent(ctx, tx, caller, eventID); err != nil {
			return err
		}

		row := models.Feedback{
			UserID:  caller.UserID,
			EventID: eventID,
			Rating:  value,
			Comment: comment,
		}
		if err := tx.UpsertFeedback(ctx, &row); err != nil {
			return err
		}

		stored, err := tx.Feedback(ctx, caller.UserID, eventID)
		if err != nil {
			return err
		}
		feedback = stored
		return nil
	})
	s.record(err)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			log.Info("feedback rejected", sl.Err(err))
		} else {
			log.Error("failed to save feedback", sl.Err(err))
		}
		return models.Feedback{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("feedback saved", slog.Int("rating", value))

	return feedback, nil
}

// AggregateFor returns the rating count of the event and the mean rounded to
// one decimal place. Events without feedback report zeros.
func (s *Service) AggregateFor(ctx context.Context, caller models.Caller, eventID uuid.UUID) (models.Aggregate, error) {
	const op = "feedback.AggregateFor"

	if err := visibleEvent(ctx, s.storage, caller, eventID); err != nil {
		return models.Aggregate{}, fmt.Errorf("%s: %w", op, err)
	}

	count, sum, err := s.storage.FeedbackTotals(ctx, eventID)
	if err != nil {
		s.log.Error("failed to aggregate feedback", slog.String("op", op), sl.Err(err))
		return models.Aggregate{}, fmt.Errorf("%s: %w", op, err)
	}

	return aggregate(count, sum), nil
}

// ListFor returns the event's feedback newest first.
func (s *Service) ListFor(ctx context.Context, caller models.Caller, eventID uuid.UUID) ([]models.Feedback, error) {
	const op = "feedback.ListFor"

	if err := visibleEvent(ctx, s.storage, caller, eventID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	feedback, err := s.storage.FeedbackForEvent(ctx, eventID)
	if err != nil {
		s.log.Error("failed to list feedback", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return feedback, nil
}

// Overview returns the event's feedback together with the aggregate of
// exactly those rows.
func (s *Service) Overview(ctx context.Context, caller models.Caller, eventID uuid.UUID) ([]models.Feedback, models.Aggregate, error) {
	feedback, err := s.ListFor(ctx, caller, eventID)
	if err != nil {
		return nil, models.Aggregate{}, err
	}

	return feedback, Summarize(feedback), nil
}

// Summarize aggregates already loaded feedback rows.
func Summarize(feedback []models.Feedback) models.Aggregate {
	var sum int64
	for _, fb := range feedback {
		sum += int64(fb.Rating)
	}
	return aggregate(int64(len(feedback)), sum)
}

func visibleEvent(ctx context.Context, st *storage.Storage, caller models.Caller, eventID uuid.UUID) error {
	event, err := st.Event(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if !event.VisibleTo(caller) {
		return ErrEventNotFound
	}
	return nil
}

func (s *Service) record(err error) {
	if s.outcomes == nil {
		return
	}

	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrEventNotFound):
		outcome = metrics.OutcomeRejected
	default:
		outcome = metrics.OutcomeError
	}
	s.outcomes.WithLabelValues(outcome).Inc()
}

func aggregate(count, sum int64) models.Aggregate {
	if count == 0 {
		return models.Aggregate{}
	}

	return models.Aggregate{
		Average: math.Round(float64(sum)/float64(count)*10) / 10,
		Count:   count,
	}
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
