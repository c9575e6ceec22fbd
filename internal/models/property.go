package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyImage is one entry of a listing's ordered image sequence.
// PublicID is the disk-store key; URL is what clients fetch.
type PropertyImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Property struct {
	Versioned

	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`

	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Type        string          `json:"type"`
	Status      MarketStatus    `json:"status"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   float64         `json:"bathrooms"`
	Size        float64         `json:"size"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	ZipCode     string          `json:"zip_code"`
	Features    []string        `json:"features"`
	Images      []PropertyImage `json:"images"`

	// Featured is a promotional flag, orthogonal to the review workflow.
	Featured bool `json:"featured"`

	Publication Publication `json:"publication"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) GetID() string {
	return p.ID.String()
}

// IsOwnedBy reports listing ownership.
func (p *Property) IsOwnedBy(id uuid.UUID) bool {
	return p.OwnerID == id
}
