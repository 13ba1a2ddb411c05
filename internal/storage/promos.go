package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/models"
)

func (s *Storage) Promo(ctx context.Context, id uuid.UUID) (models.Promo, error) {
	const op = "storage.Promo"

	var promo models.Promo
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&promo).Error; err != nil {
		return models.Promo{}, fmt.Errorf("%s: %w", op, notFound(err, ErrPromoNotFound))
	}

	return promo, nil
}

func (s *Storage) Promos(ctx context.Context, includeDrafts bool) ([]models.Promo, error) {
	const op = "storage.Promos"

	query := s.db.WithContext(ctx).Model(&models.Promo{})
	if !includeDrafts {
		query = query.Where("published = ?", true)
	}

	promos := []models.Promo{}
	if err := query.Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return promos, nil
}

func (s *Storage) CreatePromo(ctx context.Context, promo *models.Promo) error {
	const op = "storage.CreatePromo"

	if err := s.db.WithContext(ctx).Create(promo).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) SavePromo(ctx context.Context, promo *models.Promo) error {
	const op = "storage.SavePromo"

	if err := s.db.WithContext(ctx).Save(promo).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) DeletePromo(ctx context.Context, id uuid.UUID) error {
	const op = "storage.DeletePromo"

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Promo{})
	if result.Error != nil {
		return fmt.Errorf("%s: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrPromoNotFound)
	}
	return nil
}
