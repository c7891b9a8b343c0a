package repositories

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"tabiplan/internal/models/db_models"
)

type ISpotEmbeddingRepository interface {
	SearchByVector(vector pgvector.Vector, limit int) ([]db_models.SpotEmbedding, error)
	CreateSpotEmbedding(embedding db_models.SpotEmbedding) error
}

type SpotEmbeddingRepository struct {
	db *gorm.DB
}

func NewSpotEmbeddingRepository(db *gorm.DB) ISpotEmbeddingRepository {
	return &SpotEmbeddingRepository{db: db}
}

func (r *SpotEmbeddingRepository) SearchByVector(vector pgvector.Vector, limit int) ([]db_models.SpotEmbedding, error) {
	if limit <= 0 {
		limit = 15
	}

	var results []db_models.SpotEmbedding

	vecStr := vector.String()

	query := `
        SELECT *, (1 - (embedding <=> $1)) as similarity
        FROM spot_embeddings
        WHERE (1 - (embedding <=> $1)) > 0.7
        ORDER BY embedding <=> $1
        LIMIT $2
    `

	if err := r.db.Raw(query, vecStr, limit).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *SpotEmbeddingRepository) CreateSpotEmbedding(embedding db_models.SpotEmbedding) error {
	return r.db.Create(&embedding).Error
}
