package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Promo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `json:"description"`
	VideoURL    *string   `json:"video_url"`
	CaptionText *string   `json:"caption_text"`
	Published   bool      `gorm:"not null" json:"published"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (promo *Promo) BeforeCreate(tx *gorm.DB) (err error) {
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	return
}
