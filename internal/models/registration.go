package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	// RegistrationNone is reported for pairs that never had a row. It is never stored.
	RegistrationNone RegistrationStatus = "none"
)

type Registration struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_user_event" json:"user_id"`
	EventID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_user_event;index" json:"event_id"`
	Status    RegistrationStatus `gorm:"type:varchar(16);not null;default:'registered'" json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (registration *Registration) BeforeCreate(tx *gorm.DB) (err error) {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return
}

func (Registration) TableName() string {
	return "event_registrations"
}

// Attendee is a registration joined with the registrant's profile.
type Attendee struct {
	Registration
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
