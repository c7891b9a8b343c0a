package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tabiplan/internal/models/request_models"
	"tabiplan/internal/models/response_models"
	"tabiplan/pkg/memcache"
	"tabiplan/pkg/utils"
)

const planCacheTTL = time.Hour

type PlanServiceInterface interface {
	GeneratePlan(ctx context.Context, req request_models.PlanGenerateRequest) (*response_models.PlanResponse, error)
}

// PlanService glues the pipeline together: catalog subset, candidate
// generation, itinerary assembly. The user endpoint and the agent endpoint
// both run through here so their plans can never diverge in shape.
type PlanService struct {
	planner   PlannerServiceInterface
	spots     SpotServiceInterface
	itinerary ItineraryServiceInterface
	cache     memcache.GeneratedPlanCache
}

func NewPlanService(
	planner PlannerServiceInterface,
	spots SpotServiceInterface,
	itinerary ItineraryServiceInterface,
	cache memcache.GeneratedPlanCache,
) PlanServiceInterface {
	return &PlanService{
		planner:   planner,
		spots:     spots,
		itinerary: itinerary,
		cache:     cache,
	}
}

func (s *PlanService) GeneratePlan(ctx context.Context, req request_models.PlanGenerateRequest) (*response_models.PlanResponse, error) {
	catalog, err := s.spots.GetSpotsForPlan(ctx, req.Destination, req.Themes, defaultCatalogLimit)
	if err != nil {
		return nil, err
	}

	cfg := DefaultTripConfig(req.Destination, req.Days)
	if req.StartTime != "" {
		cfg.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		cfg.EndTime = req.EndTime
	}
	if req.Transportation != "" {
		cfg.Transportation = req.Transportation
	}

	// Pending spots are validated against the catalog before any model
	// call. A request whose explicit picks all fail resolution is a bad
	// request; spending a generation on it helps no one.
	index := BuildSpotIndex(catalog)
	survivingPending, rejectedPending := filterPendingSpots(req.PendingSpots, index, cfg.PendingMatchThreshold)
	if len(req.PendingSpots) > 0 && len(survivingPending) == 0 {
		names := make([]string, 0, len(rejectedPending))
		for _, r := range rejectedPending {
			names = append(names, r.Name)
		}
		return nil, &utils.AllSpotsRejectedError{Names: names}
	}

	// The planner and the cache key only ever see the surviving picks, so a
	// retry minus a misspelled spot can reuse the cached candidates.
	plannerReq := req
	plannerReq.PendingSpots = survivingPending

	cacheKey := memcache.RequestKey(plannerReq)
	generated, hit := s.cache.Get(cacheKey)
	if !hit {
		generated, err = s.planner.GenerateCandidates(ctx, plannerReq, catalog)
		if err != nil {
			return nil, err
		}
		s.cache.Set(cacheKey, generated, planCacheTTL)
	} else {
		log.Printf("plan cache hit for %s (%d days)", req.Destination, req.Days)
	}

	dayPlans, rejected, err := s.itinerary.BuildItinerary(ctx, generated, survivingPending, catalog, cfg)
	if err != nil {
		return nil, err
	}
	rejected = append(rejectedPending, rejected...)

	return &response_models.PlanResponse{
		ID:            uuid.New().String(),
		Title:         fmt.Sprintf("%d-day trip to %s", req.Days, req.Destination),
		Area:          req.Destination,
		Days:          req.Days,
		DayPlans:      dayPlans,
		RejectedSpots: rejected,
	}, nil
}
