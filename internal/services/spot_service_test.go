package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/request_models"
	"tabiplan/pkg/utils"
)

type writableSpotRepository struct {
	fakeSpotRepository
	created []db_models.Spot
	updated []db_models.Spot
	deleted []uuid.UUID
}

func (w *writableSpotRepository) CreateSpot(_ context.Context, spot *db_models.Spot) (uuid.UUID, error) {
	spot.ID = uuid.New()
	w.created = append(w.created, *spot)
	w.spots = append(w.spots, *spot)
	return spot.ID, nil
}

func (w *writableSpotRepository) UpdateSpot(_ context.Context, spot *db_models.Spot) error {
	w.updated = append(w.updated, *spot)
	return nil
}

func (w *writableSpotRepository) Delete(_ context.Context, id uuid.UUID) error {
	w.deleted = append(w.deleted, id)
	return nil
}

type fakeEmbedder struct {
	texts []string
	err   error
}

func (f *fakeEmbedder) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return pgvector.Vector{}, f.err
	}
	return pgvector.NewVector([]float32{0.1, 0.2, 0.3}), nil
}

type recordingEmbeddingRepository struct {
	embeddings []db_models.SpotEmbedding
}

func (r *recordingEmbeddingRepository) SearchByVector(_ pgvector.Vector, _ int) ([]db_models.SpotEmbedding, error) {
	return nil, nil
}

func (r *recordingEmbeddingRepository) CreateSpotEmbedding(embedding db_models.SpotEmbedding) error {
	r.embeddings = append(r.embeddings, embedding)
	return nil
}

func sakurajimaRequest() request_models.SpotUpsertRequest {
	return request_models.SpotUpsertRequest{
		Name:            "Sakurajima Observatory",
		Description:     "Viewpoint over the volcano",
		Area:            "鹿児島県",
		Category:        db_models.CategoryScenicView,
		DurationMinutes: 60,
		Latitude:        31.58,
		Longitude:       130.65,
		Tags:            []string{"volcano", "view"},
	}
}

func TestCreateSpotIndexesEmbedding(t *testing.T) {
	repo := &writableSpotRepository{}
	embedder := &fakeEmbedder{}
	embeddings := &recordingEmbeddingRepository{}
	svc := NewSpotService(repo, embeddings, embedder)

	id, err := svc.CreateSpot(context.Background(), sakurajimaRequest())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "Sakurajima Observatory", repo.created[0].Name)

	require.Len(t, embeddings.embeddings, 1)
	assert.Equal(t, id, embeddings.embeddings[0].SpotID)
	assert.Equal(t, "Sakurajima Observatory", embeddings.embeddings[0].Name)
	require.Len(t, embedder.texts, 1)
	assert.Contains(t, embedder.texts[0], "Sakurajima Observatory")
	assert.Contains(t, embedder.texts[0], "volcano")
}

func TestCreateSpotSurvivesEmbeddingFailure(t *testing.T) {
	repo := &writableSpotRepository{}
	embedder := &fakeEmbedder{err: errors.New("embedding backend down")}
	embeddings := &recordingEmbeddingRepository{}
	svc := NewSpotService(repo, embeddings, embedder)

	id, err := svc.CreateSpot(context.Background(), sakurajimaRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, repo.created, 1)
	assert.Empty(t, embeddings.embeddings)
}

func TestUpdateSpotAppliesFields(t *testing.T) {
	existing := makeSpot("Sakurajima Observatory", "鹿児島県", db_models.CategoryScenicView, 60, 31.58, 130.65)
	repo := &writableSpotRepository{fakeSpotRepository: fakeSpotRepository{spots: []db_models.Spot{existing}}}
	svc := NewSpotService(repo, &recordingEmbeddingRepository{}, &fakeEmbedder{})

	req := sakurajimaRequest()
	req.DurationMinutes = 90
	req.Rating = 4.5

	err := svc.UpdateSpot(context.Background(), existing.ID.String(), req)
	require.NoError(t, err)

	require.Len(t, repo.updated, 1)
	assert.Equal(t, existing.ID, repo.updated[0].ID)
	assert.Equal(t, 90, repo.updated[0].DurationMinutes)
	assert.Equal(t, 4.5, repo.updated[0].Rating)
}

func TestUpdateSpotNotFound(t *testing.T) {
	repo := &writableSpotRepository{}
	svc := NewSpotService(repo, &recordingEmbeddingRepository{}, &fakeEmbedder{})

	err := svc.UpdateSpot(context.Background(), uuid.New().String(), sakurajimaRequest())
	assert.ErrorIs(t, err, utils.ErrSpotNotFound)
	assert.Empty(t, repo.updated)
}

func TestDeleteSpot(t *testing.T) {
	repo := &writableSpotRepository{}
	svc := NewSpotService(repo, &recordingEmbeddingRepository{}, &fakeEmbedder{})

	id := uuid.New()
	require.NoError(t, svc.DeleteSpot(context.Background(), id.String()))
	require.Len(t, repo.deleted, 1)
	assert.Equal(t, id, repo.deleted[0])

	err := svc.DeleteSpot(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
