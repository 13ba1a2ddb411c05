// Package registration enforces the lifecycle of a user's sign-up for an
// event: none → registered → cancelled → registered.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farellandr/civic-events/internal/lib/logger/sl"
	"github.com/farellandr/civic-events/internal/metrics"
	"github.com/farellandr/civic-events/internal/models"
	"github.com/farellandr/civic-events/internal/storage"
)

type Service struct {
	log        *slog.Logger
	storage    *storage.Storage
	passSecret []byte
	outcomes   *prometheus.CounterVec
}

// New returns a registration service. outcomes may be nil; when set it is
// labelled by action and outcome.
func New(
	log *slog.Logger,
	st *storage.Storage,
	passSecret string,
	outcomes *prometheus.CounterVec,
) *Service {
	return &Service{
		log:        log,
		storage:    st,
		passSecret: []byte(passSecret),
		outcomes:   outcomes,
	}
}

// Register signs the caller up for the event. A cancelled registration is
// reactivated in place.
func (s *Service) Register(ctx context.Context, caller models.Caller, eventID uuid.UUID) (models.Registration, error) {
	const op = "registration.Register"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", caller.UserID.String()),
		slog.String("event_id", eventID.String()),
	)
	log.Debug("registering for event")

	var registration models.Registration
	err := s.storage.Transaction(ctx, func(tx *storage.Storage) error {
		if err := visibleEvent(ctx, tx, caller, eventID); err != nil {
			return err
		}

		existing, err := tx.LockRegistration(ctx, caller.UserID, eventID)
		switch {
		case errors.Is(err, storage.ErrRegistrationNotFound):
			registration = models.Registration{
				UserID:  caller.UserID,
				EventID: eventID,
				Status:  models.RegistrationRegistered,
			}
			if err := tx.CreateRegistration(ctx, &registration); err != nil {
				if errors.Is(err, storage.ErrRegistrationExists) {
					return ErrAlreadyRegistered
				}
				return err
			}
			return nil
		case err != nil:
			return err
		case existing.Status == models.RegistrationRegistered:
			return ErrAlreadyRegistered
		}

		registration, err = tx.TransitionRegistration(ctx, existing.ID, models.RegistrationCancelled, models.RegistrationRegistered)
		if errors.Is(err, storage.ErrStatusChanged) {
			return ErrAlreadyRegistered
		}
		return err
	})
	s.record("register", err)
	if err != nil {
		if isDomainError(err) {
			log.Info("registration rejected", sl.Err(err))
		} else {
			log.Error("failed to register", sl.Err(err))
		}
		return models.Registration{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("registered for event", slog.String("registration_id", registration.ID.String()))

	return registration, nil
}

// Cancel withdraws the caller's active registration for the event.
func (s *Service) Cancel(ctx context.Context, caller models.Caller, eventID uuid.UUID) (models.Registration, error) {
	const op = "registration.Cancel"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", caller.UserID.String()),
		slog.String("event_id", eventID.String()),
	)
	log.Debug("cancelling registration")

	var registration models.Registration
	err := s.storage.Transaction(ctx, func(tx *storage.Storage) error {
		existing, err := tx.LockRegistration(ctx, caller.UserID, eventID)
		if err != nil {
			if errors.Is(err, storage.ErrRegistrationNotFound) {
				return ErrNotRegistered
			}
			return err
		}
		if existing.Status != models.RegistrationRegistered {
			return ErrNotRegistered
		}

		registration, err = tx.TransitionRegistration(ctx, existing.ID, models.RegistrationRegistered, models.RegistrationCancelled)
		if errors.Is(err, storage.ErrStatusChanged) {
			return ErrNotRegistered
		}
		return err
	})
	s.record("cancel", err)
	if err != nil {
		if isDomainError(err) {
			log.Info("cancellation rejected", sl.Err(err))
		} else {
			log.Error("failed to cancel registration", sl.Err(err))
		}
		return models.Registration{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("registration cancelled", slog.String("registration_id", registration.ID.String()))

	return registration, nil
}

// StatusFor reports the registration state of the pair. Pairs without a row
// are RegistrationNone.
func (s *Service) StatusFor(ctx context.Context, userID, eventID uuid.UUID) (models.RegistrationStatus, error) {
	const op = "registration.StatusFor"

	registration, err := s.storage.Registration(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrRegistrationNotFound) {
			return models.RegistrationNone, nil
		}
		s.log.Error("failed to get registration", slog.String("op", op), sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return registration.Status, nil
}

// ListForUser returns every registration of the user, cancelled ones
// included, oldest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	const op = "registration.ListForUser"

	registrations, err := s.storage.RegistrationsByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list registrations", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return registrations, nil
}

// Attendees lists the active registrations of an event.
func (s *Service) Attendees(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error) {
	const op = "registration.Attendees"

	if _, err := s.storage.Event(ctx, eventID); err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	attendees, err := s.storage.Attendees(ctx, eventID)
	if err != nil {
		s.log.Error("failed to list attendees", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return attendees, nil
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

func (s *Service) record(action string, err error) {
	if s.outcomes == nil {
		return
	}

	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case isDomainError(err):
		outcome = metrics.OutcomeRejected
	default:
		outcome = metrics.OutcomeError
	}
	s.outcomes.WithLabelValues(action, outcome).Inc()
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrInvalidPass)
}
