package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/models"
)

func (s *Storage) User(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "storage.User"

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, notFound(err, ErrUserNotFound))
	}

	return user, nil
}

// UserActivity counts the user's active registrations and submitted feedback.
func (s *Storage) UserActivity(ctx context.Context, userID uuid.UUID) (registrations int64, feedback int64, err error) {
	const op = "storage.UserActivity"

	err = s.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("user_id = ? AND status = ?", userID, models.RegistrationRegistered).
		Count(&registrations).Error
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("user_id = ?", userID).
		Count(&feedback).Error
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	return registrations, feedback, nil
}
