package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/models"
)

// ----------------------
// Requests
// ----------------------

type PropertyImageInput struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"public_id" validate:"required"`
}

type CreatePropertyRequest struct {
	Title       string               `json:"title" validate:"required,min=3,max=200"`
	Description string               `json:"description" validate:"required,min=10"`
	Price       float64              `json:"price" validate:"required,gt=0"`
	Type        string               `json:"type" validate:"required,min=1,max=50"`
	Status      string               `json:"status" validate:"required,oneof=for-sale for-rent sold rented"`
	Bedrooms    int                  `json:"bedrooms" validate:"gte=0"`
	Bathrooms   float64              `json:"bathrooms" validate:"gte=0"`
	Size        float64              `json:"size" validate:"gte=0"`
	Address     string               `json:"address" validate:"required,min=1,max=255"`
	City        string               `json:"city" validate:"required,min=1,max=100"`
	State       string               `json:"state" validate:"required,min=1,max=50"`
	ZipCode     string               `json:"zip_code" validate:"required,min=1,max=20"`
	Features    []string             `json:"features,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Images      []PropertyImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

// UpdatePropertyRequest carries only the fields the caller wants changed.
type UpdatePropertyRequest struct {
	Title       *string               `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string               `json:"description,omitempty" validate:"omitempty,min=10"`
	Price       *float64              `json:"price,omitempty" validate:"omitempty,gt=0"`
	Type        *string               `json:"type,omitempty" validate:"omitempty,min=1,max=50"`
	Status      *string               `json:"status,omitempty" validate:"omitempty,oneof=for-sale for-rent sold rented"`
	Bedrooms    *int                  `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms   *float64              `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	Size        *float64              `json:"size,omitempty" validate:"omitempty,gte=0"`
	Address     *string               `json:"address,omitempty" validate:"omitempty,min=1,max=255"`
	City        *string               `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State       *string               `json:"state,omitempty" validate:"omitempty,min=1,max=50"`
	ZipCode     *string               `json:"zip_code,omitempty" validate:"omitempty,min=1,max=20"`
	Features    *[]string             `json:"features,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Images      *[]PropertyImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

type RejectPropertyRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ----------------------
// Responses
// ----------------------

type PropertyResponse struct {
	ID              uuid.UUID              `json:"id"`
	OwnerID         uuid.UUID              `json:"owner_id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Price           float64                `json:"price"`
	Type            string                 `json:"type"`
	Status          models.MarketStatus    `json:"status"`
	Bedrooms        int                    `json:"bedrooms"`
	Bathrooms       float64                `json:"bathrooms"`
	Size            float64                `json:"size"`
	Address         string                 `json:"address"`
	City            string                 `json:"city"`
	State           string                 `json:"state"`
	ZipCode         string                 `json:"zip_code"`
	Features        []string               `json:"features"`
	Images          []models.PropertyImage `json:"images"`
	Featured        bool                   `json:"featured"`
	Published       bool                   `json:"published"`
	Approved        *bool                  `json:"approved"`
	RejectionReason *string                `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func NewPropertyResponse(p *models.Property) PropertyResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	images := p.Images
	if images == nil {
		images = []models.PropertyImage{}
	}
	var reason *string
	if r := p.Publication.RejectionReason(); r != "" {
		reason = &r
	}
	return PropertyResponse{
		ID:              p.ID,
		OwnerID:         p.OwnerID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price,
		Type:            p.Type,
		Status:          p.Status,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		Size:            p.Size,
		Address:         p.Address,
		City:            p.City,
		State:           p.State,
		ZipCode:         p.ZipCode,
		Features:        features,
		Images:          images,
		Featured:        p.Featured,
		Published:       p.Publication.Published(),
		Approved:        p.Publication.Approved(),
		RejectionReason: reason,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewPropertyResponses(props []*models.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, NewPropertyResponse(p))
	}
	return out
}

type PropertyListResponse struct {
	Properties  []PropertyResponse `json:"properties"`
	Total       int                `json:"total"`
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
}

type UploadImageResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
