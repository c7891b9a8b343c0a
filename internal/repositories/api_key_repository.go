package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tabiplan/internal/models/db_models"
)

type ApiKeyRepository interface {
	Create(ctx context.Context, key *db_models.ApiKey) (uuid.UUID, error)
	FindActiveByPrefix(ctx context.Context, prefix string) ([]db_models.ApiKey, error)
	RecordUsage(ctx context.Context, id uuid.UUID, planGenerated bool) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewApiKeyRepository(db *gorm.DB) ApiKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *db_models.ApiKey) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(key).Error; err != nil {
		return uuid.Nil, err
	}
	return key.ID, nil
}

func (r *apiKeyRepository) FindActiveByPrefix(ctx context.Context, prefix string) ([]db_models.ApiKey, error) {
	var keys []db_models.ApiKey
	err := r.db.WithContext(ctx).
		Where("prefix = ? AND is_active = ?", prefix, true).
		Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepository) RecordUsage(ctx context.Context, id uuid.UUID, planGenerated bool) error {
	updates := map[string]interface{}{
		"last_used_at": time.Now().Unix(),
	}
	if planGenerated {
		updates["plans_generated_today"] = gorm.Expr("plans_generated_today + 1")
	}
	return r.db.WithContext(ctx).
		Model(&db_models.ApiKey{}).
		Where("id = ?", id).
		Updates(updates).Error
}
