package response_models

type Spot struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Area            string   `json:"area"`
	Category        string   `json:"category"`
	DurationMinutes int      `json:"durationMinutes"`
	Rating          float64  `json:"rating"`
	Image           string   `json:"image"`
	Tags            []string `json:"tags"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
}
