package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/civic-events/internal/models"
)

type EventFilter struct {
	Query         string
	IncludeDrafts bool
	Page          Page
}

func (s *Storage) Event(ctx context.Context, id uuid.UUID) (models.Event, error) {
	const op = "storage.Event"

	var event models.Event
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, notFound(err, ErrEventNotFound))
	}

	return event, nil
}

// Events returns one page of events, newest first, and the total matching count.
func (s *Storage) Events(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	const op = "storage.Events"

	query := s.db.WithContext(ctx).Model(&models.Event{})
	if !filter.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(COALESCE(location, '')) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	events := []models.Event{}
	err := query.Order("created_at DESC").
		Offset(filter.Page.offset()).
		Limit(filter.Page.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return events, total, nil
}

func (s *Storage) CreateEvent(ctx context.Context, event *models.Event) error {
	const op = "storage.CreateEvent"

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) SaveEvent(ctx context.Context, event *models.Event) error {
	const op = "storage.SaveEvent"

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteEvent removes the event together with its registrations and feedback.
func (s *Storage) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	const op = "storage.DeleteEvent"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Event{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
