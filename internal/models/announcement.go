package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	AudioURL  *string   `json:"audio_url"`
	Published bool      `gorm:"not null" json:"published"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (announcement *Announcement) BeforeCreate(tx *gorm.DB) (err error) {
	if announcement.ID == uuid.Nil {
		announcement.ID = uuid.New()
	}
	return
}
