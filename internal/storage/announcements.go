package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/models"
)

func (s *Storage) Announcement(ctx context.Context, id uuid.UUID) (models.Announcement, error) {
	const op = "storage.Announcement"

	var announcement models.Announcement
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&announcement).Error; err != nil {
		return models.Announcement{}, fmt.Errorf("%s: %w", op, notFound(err, ErrAnnouncementNotFound))
	}

	return announcement, nil
}

func (s *Storage) Announcements(ctx context.Context, includeDrafts bool) ([]models.Announcement, error) {
	const op = "storage.Announcements"

	query := s.db.WithContext(ctx).Model(&models.Announcement{})
	if !includeDrafts {
		query = query.Where("published = ?", true)
	}

	announcements := []models.Announcement{}
	if err := query.Order("created_at DESC").Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return announcements, nil
}

func (s *Storage) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	const op = "storage.CreateAnnouncement"

	if err := s.db.WithContext(ctx).Create(announcement).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) SaveAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	const op = "storage.SaveAnnouncement"

	if err := s.db.WithContext(ctx).Save(announcement).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	const op = "storage.DeleteAnnouncement"

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Announcement{})
	if result.Error != nil {
		return fmt.Errorf("%s: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAnnouncementNotFound)
	}
	return nil
}
