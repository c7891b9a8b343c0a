package db_models

// ApiKey authenticates agent callers on the plan-generation endpoint.
// The raw key is shown once at creation time; only the bcrypt hash is stored.
// Prefix keeps the first characters of the raw key so verification can
// narrow the candidate rows before comparing hashes.
type ApiKey struct {
	BaseModel
	Name                string
	Prefix              string `gorm:"index"`
	KeyHash             string
	IsActive            bool
	PlanLimitPerDay     int
	PlansGeneratedToday int
	LastUsedAt          int64
}
