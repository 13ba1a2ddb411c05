package registration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/lib/logger/sl"
	"github.com/farellandr/civic-events/internal/models"
	"github.com/farellandr/civic-events/internal/storage"
)

const (
	passRegistrationPrefix = "registration:"
	passEventPrefix        = "event:"
	passUserPrefix         = "user:"
	passSignaturePrefix    = "signature:"
)

// Pass returns the signed check-in payload for the caller's active
// registration. The payload is what gets encoded into the QR image.
func (s *Service) Pass(ctx context.Context, caller models.Caller, eventID uuid.UUID) (string, error) {
	const op = "registration.Pass"

	if err := visibleEvent(ctx, s.storage, caller, eventID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	registration, err := s.storage.Registration(ctx, caller.UserID, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrRegistrationNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrNotRegistered)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if registration.Status != models.RegistrationRegistered {
		return "", fmt.Errorf("%s: %w", op, ErrNotRegistered)
	}

	return s.passData(registration), nil
}

// VerifyPass checks a scanned payload and returns the registration it was
// issued for. Passes of cancelled registrations are rejected.
func (s *Service) VerifyPass(ctx context.Context, data string) (models.Registration, error) {
	const op = "registration.VerifyPass"
	log := s.log.With(slog.String("op", op))

	id, signature, err := parsePassData(data)
	if err != nil {
		log.Info("malformed pass", sl.Err(err))
		s.record("verify_pass", ErrInvalidPass)
		return models.Registration{}, fmt.Errorf("%s: %w", op, ErrInvalidPass)
	}

	registration, err := s.storage.RegistrationByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRegistrationNotFound) {
			s.record("verify_pass", ErrInvalidPass)
			return models.Registration{}, fmt.Errorf("%s: %w", op, ErrInvalidPass)
		}
		log.Error("failed to get registration", sl.Err(err))
		s.record("verify_pass", err)
		return models.Registration{}, fmt.Errorf("%s: %w", op, err)
	}

	if !hmac.Equal([]byte(s.sign(registration)), []byte(signature)) {
		log.Warn("pass signature mismatch", slog.String("registration_id", id.String()))
		s.record("verify_pass", ErrInvalidPass)
		return models.Registration{}, fmt.Errorf("%s: %w", op, ErrInvalidPass)
	}

	if registration.Status != models.RegistrationRegistered {
		s.record("verify_pass", ErrNotRegistered)
		return models.Registration{}, fmt.Errorf("%s: %w", op, ErrNotRegistered)
	}

	s.record("verify_pass", nil)

	return registration, nil
}

func (s *Service) passData(registration models.Registration) string {
	return passRegistrationPrefix + registration.ID.String() + ";" +
		passEventPrefix + registration.EventID.String() + ";" +
		passUserPrefix + registration.UserID.String() + ";" +
		passSignaturePrefix + s.sign(registration)
}

func (s *Service) sign(registration models.Registration) string {
	data := fmt.Sprintf("%s:%s:%s", registration.ID, registration.EventID, registration.UserID)
	h := hmac.New(sha256.New, s.passSecret)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func parsePassData(data string) (uuid.UUID, string, error) {
	parts := strings.Split(strings.TrimSpace(data), ";")
	if len(parts) != 4 ||
		!strings.HasPrefix(parts[0], passRegistrationPrefix) ||
		!strings.HasPrefix(parts[3], passSignaturePrefix) {
		return uuid.Nil, "", errors.New("invalid pass format")
	}

	id, err := uuid.Parse(strings.TrimPrefix(parts[0], passRegistrationPrefix))
	if err != nil {
		return uuid.Nil, "", err
	}

	return id, strings.TrimPrefix(parts[3], passSignaturePrefix), nil
}
