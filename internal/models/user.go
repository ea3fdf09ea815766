package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a subscriber account. Auth, roles and OTP flows live in the
// outer API layer; this service only needs a contact address.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email" gorm:"not null"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
