package services

import (
	"context"
	"sort"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/response_models"
	"tabiplan/pkg/utils"
)

// TripConfig carries the per-trip scheduling parameters. Thresholds are
// explicit here because the two resolution contexts use different ones.
type TripConfig struct {
	Area                    string
	TotalDays               int
	StartTime               string // "HH:MM", default 09:00
	EndTime                 string // "HH:MM", optional day-end bound
	Transportation          string // car, train, bus, walk
	PendingMatchThreshold   float64
	GeneratedMatchThreshold float64
}

const defaultDayStartMinutes = 9 * 60

// A compressed last stop never goes below this. Squeezing a visit under
// 15 minutes produces schedules nobody would follow.
const minStayMinutes = 15

func DefaultTripConfig(area string, totalDays int) TripConfig {
	return TripConfig{
		Area:                    area,
		TotalDays:               totalDays,
		StartTime:               "09:00",
		Transportation:          "car",
		PendingMatchThreshold:   PendingMatchThreshold,
		GeneratedMatchThreshold: GeneratedMatchThreshold,
	}
}

// profileForTransportation maps the trip-level preference onto a routing
// profile. Anything unrecognized routes as driving.
func profileForTransportation(transportation string) string {
	switch transportation {
	case "car":
		return "driving"
	case "train", "bus":
		return "transit"
	case "walk":
		return "walking"
	default:
		return "driving"
	}
}

type ScheduleServiceInterface interface {
	CompileDay(ctx context.Context, day int, spots []*response_models.PlanSpot, cfg TripConfig) []*response_models.PlanSpot
}

type ScheduleService struct {
	routes RouteServiceInterface
}

func NewScheduleService(routes RouteServiceInterface) ScheduleServiceInterface {
	return &ScheduleService{routes: routes}
}

// CompileDay orders one day's stops, resolves the missing transit legs in a
// single batch, and recomputes every start time from the day's start clock.
// It never fails: every degradation is folded into default values.
func (s *ScheduleService) CompileDay(ctx context.Context, day int, spots []*response_models.PlanSpot, cfg TripConfig) []*response_models.PlanSpot {
	if len(spots) == 0 {
		return spots
	}

	sortDaySpots(spots)
	s.resolveTransitLegs(ctx, spots, cfg)
	recomputeTimes(spots, cfg)
	return spots
}

// sortTier buckets a stop for ordering within a day: lodging departures
// lead, ordinary stops follow by tentative time, lodging check-ins trail.
func sortTier(spot *response_models.PlanSpot) string {
	if spot.Spot.Category == db_models.CategoryHotel {
		if spot.Note == response_models.NoteDeparture && spot.Day > 1 {
			return "0"
		}
		return "2"
	}
	return "1"
}

func sortDaySpots(spots []*response_models.PlanSpot) {
	sort.SliceStable(spots, func(i, j int) bool {
		ti, tj := sortTier(spots[i]), sortTier(spots[j])
		if ti != tj {
			return ti < tj
		}
		return spots[i].StartTime < spots[j].StartTime
	})
}

// resolveTransitLegs fills TransportDurationMinutes for each adjacent pair
// that does not already carry a positive value. All missing legs of the day
// go out as one batch so wall time is bounded by the slowest leg.
func (s *ScheduleService) resolveTransitLegs(ctx context.Context, spots []*response_models.PlanSpot, cfg TripConfig) {
	profile := profileForTransportation(cfg.Transportation)

	var requests []RouteRequest
	var requestIndices []int

	for i := 0; i < len(spots)-1; i++ {
		current := spots[i]
		if current.TransportDurationMinutes > 0 {
			continue
		}
		next := spots[i+1]

		from := Coordinate{Lat: current.Spot.Location.Lat, Lng: current.Spot.Location.Lng}
		to := Coordinate{Lat: next.Spot.Location.Lat, Lng: next.Spot.Location.Lng}

		if from.IsZero() || to.IsZero() {
			current.TransportDurationMinutes = DefaultLegMinutes
			continue
		}

		requests = append(requests, RouteRequest{
			Coordinates: []Coordinate{from, to},
			Profile:     profile,
		})
		requestIndices = append(requestIndices, i)
	}

	if len(requests) == 0 {
		return
	}

	results := s.routes.GetRoutesBatch(ctx, requests, DefaultRouteConcurrency)
	for idx, result := range results {
		spots[requestIndices[idx]].TransportDurationMinutes = int(result.DurationMinutes)
	}
}

// stayDuration is the time the schedule reserves at a stop. Lodging stops
// contribute nothing; ordinary stops use the catalog value, defaulting to
// an hour when the catalog has none.
func stayDuration(spot *response_models.PlanSpot) int {
	if spot.Spot.Category == db_models.CategoryHotel {
		return 0
	}
	if spot.Spot.DurationMinutes > 0 {
		return spot.Spot.DurationMinutes
	}
	return 60
}

// recomputeTimes walks the sorted day applying the cumulative clock:
// each stop starts where the previous one ended plus the transit leg.
// A leading lodging departure keeps the day's start time itself; only its
// transit advances the clock toward the first real stop.
func recomputeTimes(spots []*response_models.PlanSpot, cfg TripConfig) {
	dayStart := utils.ParseClockOr(cfg.StartTime, defaultDayStartMinutes)
	endBound := -1
	if cfg.EndTime != "" {
		endBound = utils.ParseClockOr(cfg.EndTime, -1)
	}

	current := dayStart
	for i, spot := range spots {
		spot.StartTime = utils.FormatClock(current)

		duration := stayDuration(spot)

		if i == len(spots)-1 && endBound > 0 && current+duration > endBound {
			// Compress the final stop to fit the day-end bound. Floored so
			// compression cannot produce a token visit; when there is no
			// room at all the duration is left untouched.
			room := endBound - current
			if room > 0 {
				if room < minStayMinutes {
					room = minStayMinutes
				}
				if room < duration {
					duration = room
					spot.Spot.DurationMinutes = room
				}
			}
		}

		current += duration + spot.TransportDurationMinutes
	}
}
