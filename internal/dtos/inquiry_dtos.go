package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/models"
)

// ----------------------
// Requests
// ----------------------

type CreateInquiryRequest struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	Message    string    `json:"message" validate:"required,min=1,max=2000"`
}

type UpdateInquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending responded closed"`
}

// ----------------------
// Responses
// ----------------------

type InquiryResponse struct {
	ID          uuid.UUID            `json:"id"`
	PropertyID  uuid.UUID            `json:"property_id"`
	RequesterID uuid.UUID            `json:"requester_id"`
	Message     string               `json:"message"`
	Status      models.InquiryStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

func NewInquiryResponse(i *models.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:          i.ID,
		PropertyID:  i.PropertyID,
		RequesterID: i.RequesterID,
		Message:     i.Message,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
	}
}

func NewInquiryResponses(items []*models.Inquiry) []InquiryResponse {
	out := make([]InquiryResponse, 0, len(items))
	for _, i := range items {
		out = append(out, NewInquiryResponse(i))
	}
	return out
}
