package db_models

import "github.com/lib/pq"

// Spot is a catalog point-of-interest curated through the admin screen.
// The itinerary pipeline only ever reads these rows.
type Spot struct {
	BaseModel
	Name            string `gorm:"index;not null"`
	Description     string
	Area            string `gorm:"index"`
	Category        string
	DurationMinutes int
	Rating          float64
	Image           string
	Price           float64
	Latitude        float64
	Longitude       float64
	Tags            pq.StringArray `gorm:"type:text[]"`
}

// Spot categories as stored in the catalog.
const (
	CategoryHistory    = "History"
	CategoryNature     = "Nature"
	CategoryFood       = "Food"
	CategoryCulture    = "Culture"
	CategoryShopping   = "Shopping"
	CategoryArt        = "Art"
	CategoryRelax      = "Relax"
	CategoryTourism    = "Tourism"
	CategoryExperience = "Experience"
	CategoryEvent      = "Event"
	CategoryHotSpring  = "HotSpring"
	CategoryScenicView = "ScenicView"
	CategoryCafe       = "Cafe"
	CategoryHotel      = "Hotel"
	CategoryDrink      = "Drink"
	CategoryFashion    = "Fashion"
	CategoryDate       = "Date"
	CategoryDrive      = "Drive"
)
