package request_models

type ListSpotsRequest struct {
	Area     string `form:"area"`
	Category string `form:"category"`
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// SpotUpsertRequest carries the writable catalog fields for the admin
// create and update endpoints.
type SpotUpsertRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Area            string   `json:"area" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	DurationMinutes int      `json:"durationMinutes"`
	Rating          float64  `json:"rating"`
	Image           string   `json:"image"`
	Price           float64  `json:"price"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Tags            []string `json:"tags"`
}