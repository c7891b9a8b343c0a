package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/request_models"
	"tabiplan/internal/models/response_models"
	"tabiplan/internal/repositories"
	"tabiplan/pkg/utils"
)

const rejectReasonNotInCatalog = "spot does not exist in the catalog"

type ItineraryServiceInterface interface {
	BuildItinerary(
		ctx context.Context,
		generated []request_models.CandidateSpot,
		pending []request_models.CandidateSpot,
		catalog []db_models.Spot,
		cfg TripConfig,
	) ([]response_models.DayPlan, []response_models.RejectedSpot, error)
}

type ItineraryService struct {
	spotRepo repositories.SpotRepository
	schedule ScheduleServiceInterface
}

func NewItineraryService(spotRepo repositories.SpotRepository, schedule ScheduleServiceInterface) ItineraryServiceInterface {
	return &ItineraryService{
		spotRepo: spotRepo,
		schedule: schedule,
	}
}

// BuildItinerary is the single entry point for turning candidate spots into
// a finished, time-stamped itinerary. Both the user-facing and the agent
// endpoints call this; nothing not present in the catalog subset can reach
// the output.
func (s *ItineraryService) BuildItinerary(
	ctx context.Context,
	generated []request_models.CandidateSpot,
	pending []request_models.CandidateSpot,
	catalog []db_models.Spot,
	cfg TripConfig,
) ([]response_models.DayPlan, []response_models.RejectedSpot, error) {

	if cfg.TotalDays < 1 {
		return nil, nil, utils.ErrInvalidInput
	}
	index := BuildSpotIndex(catalog)
	rejected := []response_models.RejectedSpot{}

	// The user's explicit picks are validated first. Losing every one of
	// them is a request-level failure, not something to paper over.
	survivingPending, rejectedPending := filterPendingSpots(pending, index, cfg.PendingMatchThreshold)
	rejected = append(rejected, rejectedPending...)
	if len(pending) > 0 && len(survivingPending) == 0 {
		names := make([]string, 0, len(rejectedPending))
		for _, r := range rejectedPending {
			names = append(names, r.Name)
		}
		return nil, rejected, &utils.AllSpotsRejectedError{Names: names}
	}

	// Model-generated candidates are untrusted by construction; failures
	// here are expected over-generation and only logged.
	stops := make([]*response_models.PlanSpot, 0, len(generated))
	for i, candidate := range generated {
		spot, _, ok := MatchSpot(candidate.Name, index, cfg.GeneratedMatchThreshold)
		if !ok {
			log.Printf("generated spot %q is not in the catalog, skipping", candidate.Name)
			rejected = append(rejected, response_models.RejectedSpot{
				Name:   candidate.Name,
				Reason: rejectReasonNotInCatalog,
			})
			continue
		}
		stops = append(stops, newPlanSpot(i, candidate, spot, survivingPending, cfg))
	}

	s.insertLodging(ctx, &stops, cfg)

	byDay := make(map[int][]*response_models.PlanSpot)
	for _, stop := range stops {
		byDay[stop.Day] = append(byDay[stop.Day], stop)
	}

	days := make([]response_models.DayPlan, 0, cfg.TotalDays)
	for day := 1; day <= cfg.TotalDays; day++ {
		daySpots := s.schedule.CompileDay(ctx, day, byDay[day], cfg)
		if daySpots == nil {
			daySpots = []*response_models.PlanSpot{}
		}
		days = append(days, response_models.DayPlan{Day: day, Spots: daySpots})
	}

	return days, rejected, nil
}

// filterPendingSpots keeps the pending candidates the catalog can vouch for.
func filterPendingSpots(
	pending []request_models.CandidateSpot,
	index SpotIndex,
	threshold float64,
) ([]request_models.CandidateSpot, []response_models.RejectedSpot) {

	var surviving []request_models.CandidateSpot
	var rejected []response_models.RejectedSpot

	for _, candidate := range pending {
		if candidate.Name == "" {
			rejected = append(rejected, response_models.RejectedSpot{Name: candidate.Name, Reason: rejectReasonNotInCatalog})
			continue
		}
		if _, _, ok := MatchSpot(candidate.Name, index, threshold); ok {
			surviving = append(surviving, candidate)
		} else {
			rejected = append(rejected, response_models.RejectedSpot{Name: candidate.Name, Reason: rejectReasonNotInCatalog})
		}
	}

	return surviving, rejected
}

func newPlanSpot(
	seq int,
	candidate request_models.CandidateSpot,
	spot db_models.Spot,
	pending []request_models.CandidateSpot,
	cfg TripConfig,
) *response_models.PlanSpot {

	day := candidate.Day
	if day < 1 {
		day = 1
	}
	if day > cfg.TotalDays {
		day = cfg.TotalDays
	}

	transportMode := candidate.TransportMode
	if transportMode == "" {
		transportMode = "train"
	}

	mustVisit := false
	for _, p := range pending {
		if p.Name != "" && (strings.Contains(candidate.Name, p.Name) || strings.Contains(p.Name, candidate.Name)) {
			mustVisit = true
			break
		}
	}

	info := toSpotInfo(spot)
	if candidate.DurationMinutes > 0 {
		info.DurationMinutes = candidate.DurationMinutes
	}

	return &response_models.PlanSpot{
		ID:            fmt.Sprintf("gen_%s_%d", uuid.New().String(), seq),
		SpotID:        spot.ID.String(),
		Spot:          info,
		Day:           day,
		StartTime:     candidate.StartTime,
		TransportMode: transportMode,
		IsMustVisit:   mustVisit,
	}
}

func toSpotInfo(spot db_models.Spot) response_models.SpotInfo {
	duration := spot.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	rating := spot.Rating
	if rating == 0 {
		rating = 4.5
	}
	return response_models.SpotInfo{
		ID:              spot.ID.String(),
		Name:            spot.Name,
		Description:     spot.Description,
		Area:            spot.Area,
		Category:        spot.Category,
		DurationMinutes: duration,
		Rating:          rating,
		Image:           spot.Image,
		Tags:            spot.Tags,
		Location: response_models.Location{
			Lat: spot.Latitude,
			Lng: spot.Longitude,
		},
	}
}

// stripPrefectureSuffix turns "鹿児島県" into "鹿児島" so lodging search can
// retry with the bare prefecture name.
func stripPrefectureSuffix(area string) string {
	return strings.TrimSpace(strings.NewReplacer("県", "", "府", "", "都", "", "道", "").Replace(area))
}

// selectLodging picks the hotel used for every night of the trip: first
// hotel matching the trip area, then the prefecture-stripped area, then any
// hotel at all. No hotel means lodging insertion is skipped silently.
func (s *ItineraryService) selectLodging(ctx context.Context, area string) *db_models.Spot {
	hotels, err := s.spotRepo.List(ctx, area, db_models.CategoryHotel, "", 10, 0)
	if err != nil {
		log.Printf("lodging lookup failed for area %q: %v", area, err)
		return nil
	}

	if len(hotels) == 0 && area != "" {
		if stripped := stripPrefectureSuffix(area); stripped != "" && stripped != area {
			hotels, err = s.spotRepo.List(ctx, stripped, db_models.CategoryHotel, "", 10, 0)
			if err != nil {
				log.Printf("lodging lookup failed for area %q: %v", stripped, err)
				return nil
			}
		}
	}

	if len(hotels) == 0 {
		hotels, err = s.spotRepo.List(ctx, "", db_models.CategoryHotel, "", 10, 0)
		if err != nil {
			log.Printf("lodging lookup failed: %v", err)
			return nil
		}
	}

	if len(hotels) == 0 {
		log.Printf("no lodging found for area %q, skipping hotel insertion", area)
		return nil
	}
	return &hotels[0]
}

// insertLodging adds the synthetic lodging stops: a departure at the head
// of every day after the first, and a check-in after the last ordinary stop
// of every day before the last. Day one starts from home and the final day
// is checkout day, so neither gets the other marker.
func (s *ItineraryService) insertLodging(ctx context.Context, stops *[]*response_models.PlanSpot, cfg TripConfig) {
	if cfg.TotalDays < 2 {
		return
	}

	hotel := s.selectLodging(ctx, cfg.Area)
	if hotel == nil {
		return
	}

	byDay := make(map[int][]*response_models.PlanSpot)
	for _, stop := range *stops {
		byDay[stop.Day] = append(byDay[stop.Day], stop)
	}

	startTime := cfg.StartTime
	if startTime == "" {
		startTime = "09:00"
	}

	var updated []*response_models.PlanSpot
	for day := 1; day <= cfg.TotalDays; day++ {
		daySpots := byDay[day]

		if day > 1 {
			updated = append(updated, newLodgingStop(*hotel, day, startTime, response_models.NoteDeparture, cfg))
		}

		updated = append(updated, daySpots...)

		if day < cfg.TotalDays {
			checkIn := lastStopEndTime(daySpots, startTime)
			updated = append(updated, newLodgingStop(*hotel, day, checkIn, response_models.NoteCheckIn, cfg))
		}
	}

	*stops = updated
}

func newLodgingStop(hotel db_models.Spot, day int, startTime, note string, cfg TripConfig) *response_models.PlanSpot {
	info := toSpotInfo(hotel)
	info.Category = db_models.CategoryHotel
	info.DurationMinutes = 0

	if info.Area == "" {
		info.Area = cfg.Area
	}

	return &response_models.PlanSpot{
		ID:            uuid.New().String(),
		SpotID:        hotel.ID.String(),
		Spot:          info,
		Day:           day,
		StartTime:     startTime,
		Note:          note,
		TransportMode: "walk",
		IsMustVisit:   false,
	}
}

// lastStopEndTime tentatively places the check-in stop after the latest
// ordinary stop of the day; the compiler recomputes the exact moment.
func lastStopEndTime(daySpots []*response_models.PlanSpot, dayStart string) string {
	if len(daySpots) == 0 {
		return "18:00"
	}

	latest := ""
	var latestSpot *response_models.PlanSpot
	for _, spot := range daySpots {
		if spot.StartTime >= latest {
			latest = spot.StartTime
			latestSpot = spot
		}
	}
	if latestSpot == nil {
		return "18:00"
	}

	start := utils.ParseClockOr(latestSpot.StartTime, utils.ParseClockOr(dayStart, defaultDayStartMinutes))
	duration := latestSpot.Spot.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	return utils.FormatClock(start + duration)
}
