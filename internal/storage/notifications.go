package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/models"
)

func (s *Storage) Notification(ctx context.Context, id uuid.UUID) (models.Notification, error) {
	const op = "storage.Notification"

	var notification models.Notification
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return models.Notification{}, fmt.Errorf("%s: %w", op, notFound(err, ErrNotificationNotFound))
	}

	return notification, nil
}

// NotificationsByUser returns the notifications addressed to the user, newest first.
func (s *Storage) NotificationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	const op = "storage.NotificationsByUser"

	notifications := []models.Notification{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return notifications, nil
}

func (s *Storage) CreateNotification(ctx context.Context, notification *models.Notification) error {
	const op = "storage.CreateNotification"

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	const op = "storage.MarkNotificationRead"

	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("%s: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotificationNotFound)
	}

	return nil
}
