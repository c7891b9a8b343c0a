package response_models

// Location is a WGS84 coordinate pair. Zero values mean the catalog entry
// was never geocoded; the route engine treats those as unroutable.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SpotInfo is the catalog snapshot carried on every scheduled stop.
type SpotInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Area            string   `json:"area"`
	Category        string   `json:"category"`
	DurationMinutes int      `json:"durationMinutes"`
	Rating          float64  `json:"rating"`
	Image           string   `json:"image"`
	Tags            []string `json:"tags"`
	Location        Location `json:"location"`
}

// Stop notes set by lodging insertion.
const (
	NoteDeparture = "departure"
	NoteCheckIn   = "checked-in"
)

// PlanSpot is one scheduled stop in the finished itinerary. Every PlanSpot
// references exactly one catalog spot; candidates that fail catalog
// resolution never become a PlanSpot.
type PlanSpot struct {
	ID                       string   `json:"id"`
	SpotID                   string   `json:"spotId"`
	Spot                     SpotInfo `json:"spot"`
	Day                      int      `json:"day"`
	StartTime                string   `json:"startTime"`
	Note                     string   `json:"note,omitempty"`
	TransportMode            string   `json:"transportMode"`
	TransportDurationMinutes int      `json:"transportDuration"`
	IsMustVisit              bool     `json:"isMustVisit"`
}

// DayPlan holds the ordered stops of a single trip day.
type DayPlan struct {
	Day   int         `json:"day"`
	Spots []*PlanSpot `json:"spots"`
}

// RejectedSpot records a candidate that failed catalog resolution.
type RejectedSpot struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type PlanResponse struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Area          string         `json:"area"`
	Days          int            `json:"days"`
	DayPlans      []DayPlan      `json:"dayPlans"`
	RejectedSpots []RejectedSpot `json:"rejectedSpots"`
}
