package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string            `gorm:"not null" json:"title"`
	Description *string           `json:"description"`
	Location    *string           `json:"location"`
	StartsAt    *time.Time        `json:"starts_at"`
	EndsAt      *time.Time        `json:"ends_at"`
	Published   bool              `gorm:"not null" json:"published"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// VisibleTo reports whether caller may see the event. Drafts are admin-only.
func (event *Event) VisibleTo(caller Caller) bool {
	return event.Published || caller.IsAdmin()
}
