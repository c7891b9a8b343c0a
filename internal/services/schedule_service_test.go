package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/response_models"
)

// fakeRouteService returns a fixed duration per leg and records what it saw.
type fakeRouteService struct {
	legMinutes float64
	requests   []RouteRequest
}

func (f *fakeRouteService) GetRoute(ctx context.Context, coords []Coordinate, profile string) (RouteResult, error) {
	return RouteResult{DurationMinutes: f.legMinutes, Source: RouteSourceOSRM}, nil
}

func (f *fakeRouteService) GetRoutesBatch(ctx context.Context, requests []RouteRequest, maxConcurrency int) []RouteResult {
	f.requests = append(f.requests, requests...)
	results := make([]RouteResult, len(requests))
	for i := range requests {
		results[i] = RouteResult{DurationMinutes: f.legMinutes, Source: RouteSourceOSRM}
	}
	return results
}

func ordinaryStop(name, startTime string, stayMinutes, day int, lat, lng float64) *response_models.PlanSpot {
	return &response_models.PlanSpot{
		ID:            name,
		Day:           day,
		StartTime:     startTime,
		TransportMode: "car",
		Spot: response_models.SpotInfo{
			Name:            name,
			Category:        db_models.CategoryTourism,
			DurationMinutes: stayMinutes,
			Location:        response_models.Location{Lat: lat, Lng: lng},
		},
	}
}

func lodgingStop(name, startTime, note string, day int) *response_models.PlanSpot {
	return &response_models.PlanSpot{
		ID:            name,
		Day:           day,
		StartTime:     startTime,
		Note:          note,
		TransportMode: "walk",
		Spot: response_models.SpotInfo{
			Name:     name,
			Category: db_models.CategoryHotel,
			Location: response_models.Location{Lat: 31.6, Lng: 130.55},
		},
	}
}

func TestCompileDayCumulativeClock(t *testing.T) {
	routes := &fakeRouteService{legMinutes: 30}
	svc := NewScheduleService(routes)

	cfg := DefaultTripConfig("Kagoshima", 1)
	spots := []*response_models.PlanSpot{
		ordinaryStop("a", "09:00", 60, 1, 31.59, 130.55),
		ordinaryStop("b", "11:00", 90, 1, 31.58, 130.65),
		ordinaryStop("c", "14:00", 45, 1, 31.55, 130.60),
	}

	result := svc.CompileDay(context.Background(), 1, spots, cfg)
	require.Len(t, result, 3)

	// Each start time is the previous start + stay + transit.
	assert.Equal(t, "09:00", result[0].StartTime)
	assert.Equal(t, "10:30", result[1].StartTime)
	assert.Equal(t, "12:30", result[2].StartTime)
	assert.Equal(t, 30, result[0].TransportDurationMinutes)
	assert.Equal(t, 30, result[1].TransportDurationMinutes)
}

func TestCompileDayOrdersByTentativeTime(t *testing.T) {
	routes := &fakeRouteService{legMinutes: 10}
	svc := NewScheduleService(routes)

	cfg := DefaultTripConfig("Kagoshima", 1)
	spots := []*response_models.PlanSpot{
		ordinaryStop("afternoon", "14:00", 60, 1, 31.59, 130.55),
		ordinaryStop("morning", "09:30", 60, 1, 31.58, 130.65),
	}

	result := svc.CompileDay(context.Background(), 1, spots, cfg)
	assert.Equal(t, "morning", result[0].ID)
	assert.Equal(t, "afternoon", result[1].ID)
}

func TestCompileDayLodgingTiers(t *testing.T) {
	routes := &fakeRouteService{legMinutes: 15}
	svc := NewScheduleService(routes)

	cfg := DefaultTripConfig("Kagoshima", 3)
	spots := []*response_models.PlanSpot{
		lodgingStop("hotel-checkin", "18:00", response_models.NoteCheckIn, 2),
		ordinaryStop("sight", "10:00", 60, 2, 31.59, 130.55),
		lodgingStop("hotel-departure", "09:00", response_models.NoteDeparture, 2),
	}

	result := svc.CompileDay(context.Background(), 2, spots, cfg)
	require.Len(t, result, 3)

	// Departure leads, check-in trails, regardless of tentative times.
	assert.Equal(t, "hotel-departure", result[0].ID)
	assert.Equal(t, "sight", result[1].ID)
	assert.Equal(t, "hotel-checkin", result[2].ID)

	// The departure pins the day start and contributes no stay time; the
	// first real stop begins after its transit leg only.
	assert.Equal(t, "09:00", result[0].StartTime)
	assert.Equal(t, "09:15", result[1].StartTime)
	assert.Equal(t, "10:30", result[2].StartTime)
}

func TestCompileDayKeepsExistingTransit(t *testing.T) {
	routes := &fakeRouteService{legMinutes: 30}
	svc := NewScheduleService(routes)

	cfg := DefaultTripConfig("Kagoshima", 1)
	first := ordinaryStop("a", "09:00", 60, 1, 31.59, 130.55)
	first.TransportDurationMinutes = 5
	spots := []*response_models.PlanSpot{
		first,
		ordinaryStop("b", "11:00", 60, 1, 31.58, 130.65),
	}

	svc.CompileDay(context.Background(), 1, spots, cfg)

	assert.Equal(t, 5, first.TransportDurationMinutes)
	assert.Empty(t, routes.requests)
}

func TestCompileDayUnroutableLegGetsDefault(t *testing.T) {
	routes := &fakeRouteService{legMinutes: 30}
	svc := NewScheduleService(routes)

	cfg := DefaultTripConfig("Kagoshima", 1)
	spots := []*response_models.PlanSpot{
		ordinaryStop("geocoded", "09:00", 60, 1, 31.59, 130.55),
		ordinaryStop("ungeocoded", "11:00", 60, 1, 0, 0),
	}

	result := svc.CompileDay(context.Background(), 1, spots, cfg)

	assert.Equal(t, DefaultLegMinutes, result[0].TransportDurationMinutes)
	assert.Empty(t, routes.requests)
}

func TestCompileDayCompressesFinalStop(t *testing.T) {
	routes := &fakeRouteService{legMinutes: 30}
	svc := NewScheduleService(routes)

	cfg := DefaultTripConfig("Kagoshima", 1)
	cfg.EndTime = "12:00"
	spots := []*response_models.PlanSpot{
		ordinaryStop("a", "09:00", 60, 1, 31.59, 130.55),
		ordinaryStop("b", "11:00", 120, 1, 31.58, 130.65),
	}

	result := svc.CompileDay(context.Background(), 1, spots, cfg)

	// Second stop starts at 10:30; only 90 of its 120 minutes fit.
	assert.Equal(t, "10:30", result[1].StartTime)
	assert.Equal(t, 90, result[1].Spot.DurationMinutes)
}

func TestCompileDayCompressionFloor(t *testing.T) {
	routes := &fakeRouteService{legMinutes: 30}
	svc := NewScheduleService(routes)

	cfg := DefaultTripConfig("Kagoshima", 1)
	cfg.EndTime = "10:35"
	spots := []*response_models.PlanSpot{
		ordinaryStop("a", "09:00", 60, 1, 31.59, 130.55),
		ordinaryStop("b", "11:00", 120, 1, 31.58, 130.65),
	}

	result := svc.CompileDay(context.Background(), 1, spots, cfg)

	// Only 5 minutes of room remain; the floor keeps the stop meaningful.
	assert.Equal(t, minStayMinutes, result[1].Spot.DurationMinutes)
}

func TestCompileDayEmpty(t *testing.T) {
	svc := NewScheduleService(&fakeRouteService{})
	cfg := DefaultTripConfig("Kagoshima", 1)

	result := svc.CompileDay(context.Background(), 1, nil, cfg)
	assert.Empty(t, result)
}

func TestProfileForTransportation(t *testing.T) {
	assert.Equal(t, "driving", profileForTransportation("car"))
	assert.Equal(t, "transit", profileForTransportation("train"))
	assert.Equal(t, "transit", profileForTransportation("bus"))
	assert.Equal(t, "walking", profileForTransportation("walk"))
	assert.Equal(t, "driving", profileForTransportation("hovercraft"))
}
