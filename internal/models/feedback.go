package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_event" json:"user_id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_event;index" json:"event_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   *string   `json:"comment"`
	FullName  string    `gorm:"->;-:migration" json:"full_name"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (feedback *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if feedback.ID == uuid.Nil {
		feedback.ID = uuid.New()
	}
	return
}

func (Feedback) TableName() string {
	return "event_feedback"
}

// Aggregate is the rating summary of one event.
type Aggregate struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
