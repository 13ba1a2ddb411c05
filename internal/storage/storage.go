package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationExists   = errors.New("registration already exists")
	ErrStatusChanged        = errors.New("registration status changed concurrently")
	ErrFeedbackNotFound     = errors.New("feedback not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrPromoNotFound        = errors.New("promo not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Storage is the gorm-backed persistence accessor. A Storage created by
// Transaction is bound to that transaction.
type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// Transaction runs fn inside a single database transaction. The transaction
// is rolled back when fn returns an error.
func (s *Storage) Transaction(ctx context.Context, fn func(tx *Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Storage{db: tx})
	})
}

func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Page is a 1-based offset pagination request.
type Page struct {
	Number int
	Limit  int
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Limit
}

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
