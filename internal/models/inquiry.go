package models

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a buyer/renter message about a published listing.
type Inquiry struct {
	ID          uuid.UUID     `json:"id"`
	PropertyID  uuid.UUID     `json:"property_id"`
	RequesterID uuid.UUID     `json:"requester_id"`
	Message     string        `json:"message"`
	Status      InquiryStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
