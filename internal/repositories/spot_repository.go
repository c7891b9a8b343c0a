package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tabiplan/internal/models/db_models"
)

type SpotRepository interface {
	CreateSpot(ctx context.Context, spot *db_models.Spot) (uuid.UUID, error)
	UpdateSpot(ctx context.Context, spot *db_models.Spot) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id string) (*db_models.Spot, error)
	List(ctx context.Context, area, category, keyword string, limit, offset int) ([]db_models.Spot, error)
	ListByIDs(ctx context.Context, ids []string) ([]db_models.Spot, error)
}

type spotRepository struct {
	db *gorm.DB
}

func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) CreateSpot(ctx context.Context, spot *db_models.Spot) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(spot).Error; err != nil {
		return uuid.Nil, err
	}
	return spot.ID, nil
}

func (r *spotRepository) UpdateSpot(ctx context.Context, spot *db_models.Spot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(spot)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to update spot: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *spotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&db_models.Spot{}, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// ────────────────────────────────────────────────────────────────
// Read helpers follow the same pattern: default value + nil error
// when no rows are found.
// ────────────────────────────────────────────────────────────────

func (r *spotRepository) GetByID(ctx context.Context, id string) (*db_models.Spot, error) {
	var spot db_models.Spot
	err := r.db.WithContext(ctx).First(&spot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &spot, nil
}

func (r *spotRepository) List(ctx context.Context, area, category, keyword string, limit, offset int) ([]db_models.Spot, error) {
	query := r.db.WithContext(ctx).Model(&db_models.Spot{})

	if area != "" {
		query = query.Where("area LIKE ?", "%"+area+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if keyword != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var spots []db_models.Spot
	if err := query.Order("created_at").Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

func (r *spotRepository) ListByIDs(ctx context.Context, ids []string) ([]db_models.Spot, error) {
	if len(ids) == 0 {
		return []db_models.Spot{}, nil
	}

	var spots []db_models.Spot
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&spots).Error
	if err != nil {
		return nil, err
	}
	return spots, nil
}
