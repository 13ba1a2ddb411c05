package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farellandr/civic-events/internal/models"
)

func (s *Storage) Registration(ctx context.Context, userID, eventID uuid.UUID) (models.Registration, error) {
	const op = "storage.Registration"

	var registration models.Registration
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&registration).Error
	if err != nil {
		return models.Registration{}, fmt.Errorf("%s: %w", op, notFound(err, ErrRegistrationNotFound))
	}

	return registration, nil
}

// LockRegistration reads the (user, event) row with a row lock held until the
// surrounding transaction ends. Drivers without row locks ignore the clause.
func (s *Storage) LockRegistration(ctx context.Context, userID, eventID uuid.UUID) (models.Registration, error) {
	const op = "storage.LockRegistration"

	var registration models.Registration
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&registration).Error
	if err != nil {
		return models.Registration{}, fmt.Errorf("%s: %w", op, notFound(err, ErrRegistrationNotFound))
	}

	return registration, nil
}

func (s *Storage) RegistrationByID(ctx context.Context, id uuid.UUID) (models.Registration, error) {
	const op = "storage.RegistrationByID"

	var registration models.Registration
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&registration).Error; err != nil {
		return models.Registration{}, fmt.Errorf("%s: %w", op, notFound(err, ErrRegistrationNotFound))
	}

	return registration, nil
}

func (s *Storage) CreateRegistration(ctx context.Context, registration *models.Registration) error {
	const op = "storage.CreateRegistration"

	if err := s.db.WithContext(ctx).Create(registration).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s: %w", op, ErrRegistrationExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// TransitionRegistration moves a registration from one status to another.
// It fails with ErrStatusChanged when the row is no longer in status from.
func (s *Storage) TransitionRegistration(
	ctx context.Context,
	id uuid.UUID,
	from, to models.RegistrationStatus,
) (models.Registration, error) {
	const op = "storage.TransitionRegistration"

	result := s.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return models.Registration{}, fmt.Errorf("%s: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Registration{}, fmt.Errorf("%s: %w", op, ErrStatusChanged)
	}

	return s.RegistrationByID(ctx, id)
}

// RegistrationsByUser returns every registration of the user in creation order.
func (s *Storage) RegistrationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	const op = "storage.RegistrationsByUser"

	registrations := []models.Registration{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return registrations, nil
}

// Attendees returns the active registrations of an event with registrant profiles.
func (s *Storage) Attendees(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error) {
	const op = "storage.Attendees"

	attendees := []models.Attendee{}
	err := s.db.WithContext(ctx).
		Table("event_registrations").
		Select("event_registrations.*, COALESCE(users.full_name, '') AS full_name, COALESCE(users.email, '') AS email").
		Joins("LEFT JOIN users ON users.id = event_registrations.user_id").
		Where("event_registrations.event_id = ? AND event_registrations.status = ?", eventID, models.RegistrationRegistered).
		Order("event_registrations.created_at ASC").
		Scan(&attendees).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return attendees, nil
}
