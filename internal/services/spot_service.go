package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/request_models"
	"tabiplan/internal/models/response_models"
	"tabiplan/internal/repositories"
	"tabiplan/pkg/utils"
)

const defaultCatalogLimit = 40

type SpotServiceInterface interface {
	ListSpots(ctx context.Context, req request_models.ListSpotsRequest) ([]response_models.Spot, error)
	GetSpotByID(ctx context.Context, id string) (*response_models.Spot, error)
	GetSpotsForPlan(ctx context.Context, area string, themes []string, limit int) ([]db_models.Spot, error)

	CreateSpot(ctx context.Context, req request_models.SpotUpsertRequest) (string, error)
	UpdateSpot(ctx context.Context, id string, req request_models.SpotUpsertRequest) error
	DeleteSpot(ctx context.Context, id string) error
}

type SpotService struct {
	spotRepo      repositories.SpotRepository
	embeddingRepo repositories.ISpotEmbeddingRepository
	embedder      utils.EmbeddingClientInterface
}

func NewSpotService(
	spotRepo repositories.SpotRepository,
	embeddingRepo repositories.ISpotEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
) SpotServiceInterface {
	return &SpotService{
		spotRepo:      spotRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
	}
}

func (s *SpotService) ListSpots(ctx context.Context, req request_models.ListSpotsRequest) ([]response_models.Spot, error) {
	if req.Page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	offset := (req.Page - 1) * req.PageSize
	spots, err := s.spotRepo.List(ctx, req.Area, req.Category, req.Keyword, req.PageSize, offset)
	if err != nil {
		log.Printf("failed to list spots: %v", err)
		return nil, utils.ErrDatabaseError
	}

	results := make([]response_models.Spot, 0, len(spots))
	for _, spot := range spots {
		results = append(results, toSpotResponse(spot))
	}
	return results, nil
}

func (s *SpotService) GetSpotByID(ctx context.Context, id string) (*response_models.Spot, error) {
	spot, err := s.spotRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("failed to get spot %s: %v", id, err)
		return nil, utils.ErrDatabaseError
	}
	if spot == nil {
		return nil, utils.ErrSpotNotFound
	}

	resp := toSpotResponse(*spot)
	return &resp, nil
}

// GetSpotsForPlan assembles the catalog subset handed to the planner: an
// area query merged with a semantic search over the requested themes.
// Embedding failures degrade to the plain area query.
func (s *SpotService) GetSpotsForPlan(ctx context.Context, area string, themes []string, limit int) ([]db_models.Spot, error) {
	if limit <= 0 {
		limit = defaultCatalogLimit
	}

	spots, err := s.spotRepo.List(ctx, area, "", "", limit, 0)
	if err != nil {
		log.Printf("failed to query spots for area %q: %v", area, err)
		return nil, utils.ErrDatabaseError
	}

	seen := make(map[string]bool, len(spots))
	for _, spot := range spots {
		seen[spot.ID.String()] = true
	}

	if len(themes) > 0 && s.embedder != nil && s.embeddingRepo != nil {
		themed := s.searchByThemes(ctx, area, themes, limit)
		if len(themed) > 0 {
			extra, err := s.spotRepo.ListByIDs(ctx, themed)
			if err != nil {
				log.Printf("failed to load themed spots: %v", err)
			} else {
				for _, spot := range extra {
					if !seen[spot.ID.String()] {
						seen[spot.ID.String()] = true
						spots = append(spots, spot)
					}
				}
			}
		}
	}

	return spots, nil
}

// CreateSpot inserts a catalog row and indexes it for semantic search.
// A failed embedding only logs: the row is still listable by area and
// the index can be rebuilt offline.
func (s *SpotService) CreateSpot(ctx context.Context, req request_models.SpotUpsertRequest) (string, error) {
	spot := &db_models.Spot{
		Name:            req.Name,
		Description:     req.Description,
		Area:            req.Area,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
		Image:           req.Image,
		Price:           req.Price,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Tags:            req.Tags,
	}

	id, err := s.spotRepo.CreateSpot(ctx, spot)
	if err != nil {
		log.Printf("failed to create spot %q: %v", req.Name, err)
		return "", utils.ErrDatabaseError
	}

	s.indexSpot(ctx, id.String(), req)
	return id.String(), nil
}

func (s *SpotService) UpdateSpot(ctx context.Context, id string, req request_models.SpotUpsertRequest) error {
	spot, err := s.spotRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("failed to get spot %s: %v", id, err)
		return utils.ErrDatabaseError
	}
	if spot == nil {
		return utils.ErrSpotNotFound
	}

	spot.Name = req.Name
	spot.Description = req.Description
	spot.Area = req.Area
	spot.Category = req.Category
	spot.DurationMinutes = req.DurationMinutes
	spot.Rating = req.Rating
	spot.Image = req.Image
	spot.Price = req.Price
	spot.Latitude = req.Latitude
	spot.Longitude = req.Longitude
	spot.Tags = req.Tags

	if err := s.spotRepo.UpdateSpot(ctx, spot); err != nil {
		log.Printf("failed to update spot %s: %v", id, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SpotService) DeleteSpot(ctx context.Context, id string) error {
	spotID, err := uuid.Parse(id)
	if err != nil {
		return utils.ErrInvalidInput
	}

	if err := s.spotRepo.Delete(ctx, spotID); err != nil {
		log.Printf("failed to delete spot %s: %v", id, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SpotService) indexSpot(ctx context.Context, id string, req request_models.SpotUpsertRequest) {
	if s.embedder == nil || s.embeddingRepo == nil {
		return
	}

	text := strings.Join([]string{req.Name, req.Area, req.Category, strings.Join(req.Tags, " ")}, " ")
	vector, err := s.embedder.GetEmbedding(ctx, text)
	if err != nil {
		log.Printf("failed to embed spot %s: %v", id, err)
		return
	}

	embedding := db_models.SpotEmbedding{
		SpotID:    id,
		Name:      req.Name,
		Area:      req.Area,
		Category:  req.Category,
		Tags:      req.Tags,
		Embedding: vector,
	}
	if err := s.embeddingRepo.CreateSpotEmbedding(embedding); err != nil {
		log.Printf("failed to index spot %s: %v", id, err)
	}
}

func (s *SpotService) searchByThemes(ctx context.Context, area string, themes []string, limit int) []string {
	query := strings.Join(themes, " ")
	if area != "" {
		query = area + " " + query
	}

	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		log.Printf("failed to embed theme query %q: %v", query, err)
		return nil
	}

	matches, err := s.embeddingRepo.SearchByVector(vector, limit)
	if err != nil {
		log.Printf("vector search failed for %q: %v", query, err)
		return nil
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.SpotID)
	}
	return ids
}

func toSpotResponse(spot db_models.Spot) response_models.Spot {
	return response_models.Spot{
		ID:              spot.ID.String(),
		Name:            spot.Name,
		Description:     spot.Description,
		Area:            spot.Area,
		Category:        spot.Category,
		DurationMinutes: spot.DurationMinutes,
		Rating:          spot.Rating,
		Image:           spot.Image,
		Tags:            spot.Tags,
		Latitude:        spot.Latitude,
		Longitude:       spot.Longitude,
	}
}
