package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/farellandr/civic-events/internal/models"
)

func (s *Storage) Feedback(ctx context.Context, userID, eventID uuid.UUID) (models.Feedback, error) {
	const op = "storage.Feedback"

	var feedback models.Feedback
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&feedback).Error
	if err != nil {
		return models.Feedback{}, fmt.Errorf("%s: %w", op, notFound(err, ErrFeedbackNotFound))
	}

	return feedback, nil
}

// UpsertFeedback inserts the (user, event) row or, when it already exists,
// overwrites its rating and comment in the same statement. On overwrite the
// stored id and created_at are kept; read the row back with Feedback.
func (s *Storage) UpsertFeedback(ctx context.Context, feedback *models.Feedback) error {
	const op = "storage.UpsertFeedback"

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(feedback).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// FeedbackForEvent returns the feedback of an event newest first, each row
// carrying the submitter's display name.
func (s *Storage) FeedbackForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error) {
	const op = "storage.FeedbackForEvent"

	feedback := []models.Feedback{}
	err := s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Select("event_feedback.*, COALESCE(users.full_name, '') AS full_name").
		Joins("LEFT JOIN users ON users.id = event_feedback.user_id").
		Where("event_feedback.event_id = ?", eventID).
		Order("event_feedback.created_at DESC").
		Order("event_feedback.id ASC").
		Find(&feedback).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return feedback, nil
}

// FeedbackTotals returns the number of ratings of an event and their sum.
func (s *Storage) FeedbackTotals(ctx context.Context, eventID uuid.UUID) (count int64, sum int64, err error) {
	const op = "storage.FeedbackTotals"

	var row struct {
		Count int64
		Total int64
	}
	err = s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS total").
		Where("event_id = ?", eventID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	return row.Count, row.Total, nil
}
