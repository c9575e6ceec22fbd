package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a user to a saved listing.
type Favorite struct {
	UserID     uuid.UUID `json:"user_id"`
	PropertyID uuid.UUID `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}
