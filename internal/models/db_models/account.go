package db_models

// Account is a registered user of the planner. Role gates the admin
// surface: catalog writes and API key minting require "admin".
type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         string
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
