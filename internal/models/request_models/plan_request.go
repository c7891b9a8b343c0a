package request_models

// CandidateSpot is an unresolved stop proposal, either picked by the user
// ahead of generation or produced by the planning model. Nothing here is
// trusted until it has been matched against the catalog.
type CandidateSpot struct {
	Name            string `json:"name" binding:"required"`
	Day             int    `json:"day"`
	Category        string `json:"category"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	TransportMode   string `json:"transportMode"`
}

type PlanGenerateRequest struct {
	Destination    string          `json:"destination" binding:"required"`
	Days           int             `json:"days" binding:"required,min=1,max=14"`
	Themes         []string        `json:"themes"`
	Budget         float64         `json:"budget"`
	People         int             `json:"people"`
	PendingSpots   []CandidateSpot `json:"pendingSpots"`
	Preferences    string          `json:"preferences"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
	Transportation string          `json:"transportation"`
}
