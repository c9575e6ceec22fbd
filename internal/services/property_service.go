package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/cache"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// listingCachePrefix covers every cached listing query; any write to a
// property invalidates the whole prefix.
const listingCachePrefix = "listings"

// ---------------------------------------------------------------------
// PropertyService interface
// ---------------------------------------------------------------------

type PropertyService interface {
	Create(ctx context.Context, actor auth.Actor, req dtos.CreatePropertyRequest) (*models.Property, error)

	// Get enforces visibility: unpublished listings are only readable by
	// their owner or an admin.
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Property, error)

	// Update applies a partial edit. An owner editing a rejected listing
	// implicitly resubmits it for review; admin edits never change the
	// publication state.
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, req dtos.UpdatePropertyRequest) (*models.Property, error)

	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error

	ListOwn(ctx context.Context, actor auth.Actor) ([]*models.Property, error)
	SetFeatured(ctx context.Context, actor auth.Actor, id uuid.UUID, featured bool) (*models.Property, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	cache        *cache.Cache
}

func NewPropertyService(propertyRepo repositories.PropertyRepository, listingCache *cache.Cache) PropertyService {
	return &propertyService{propertyRepo: propertyRepo, cache: listingCache}
}

func (s *propertyService) Create(ctx context.Context, actor auth.Actor, req dtos.CreatePropertyRequest) (*models.Property, error) {
	if err := auth.Authorize(actor, auth.OpCreate, auth.Target{}); err != nil {
		return nil, err
	}

	status, err := models.ParseMarketStatus(req.Status)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), err)
	}

	p := &models.Property{
		ID:          uuid.New(),
		OwnerID:     auth.ActorID(actor),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Status:      status,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Size:        req.Size,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Features:    req.Features,
		Images:      toModelImages(req.Images),
		Publication: models.PendingPublication(),
	}

	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	utils.Logger.WithFields(map[string]interface{}{
		"property_id": p.ID,
		"owner_id":    p.OwnerID,
	}).Info("listing created, awaiting review")

	return p, nil
}

func (s *propertyService) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "property not found", nil)
	}

	target := auth.Target{OwnerID: p.OwnerID, Published: p.Publication.Published()}
	if err := auth.Authorize(actor, auth.OpReadPublic, target); err != nil {
		// Hide existence of unpublished listings from outsiders.
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "property not found", nil)
	}
	return p, nil
}

func (s *propertyService) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, req dtos.UpdatePropertyRequest) (*models.Property, error) {
	var status *models.MarketStatus
	if req.Status != nil {
		parsed, err := models.ParseMarketStatus(*req.Status)
		if err != nil {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), err)
		}
		status = &parsed
	}

	err := s.propertyRepo.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		target := auth.Target{OwnerID: p.OwnerID, Published: p.Publication.Published()}
		if err := auth.Authorize(actor, auth.OpUpdate, target); err != nil {
			return err
		}

		applyPropertyPatch(p, req, status)

		// An owner edit of a rejected listing is a resubmission; the old
		// rejection reason is gone. Admin edits leave the state alone.
		if !auth.IsAdmin(actor) && p.Publication.Status == models.PublicationRejected {
			p.Publication = models.PendingPublication()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, listingCachePrefix)
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "property not found", nil)
	}

	target := auth.Target{OwnerID: p.OwnerID, Published: p.Publication.Published()}
	if err := auth.Authorize(actor, auth.OpDelete, target); err != nil {
		return err
	}

	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(ctx, listingCachePrefix)
	return nil
}

func (s *propertyService) ListOwn(ctx context.Context, actor auth.Actor) ([]*models.Property, error) {
	if err := auth.Authorize(actor, auth.OpReadOwn, auth.Target{OwnerID: auth.ActorID(actor)}); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListByOwnerID(ctx, auth.ActorID(actor))
}

func (s *propertyService) SetFeatured(ctx context.Context, actor auth.Actor, id uuid.UUID, featured bool) (*models.Property, error) {
	// Featuring is a curation decision, same privilege as approval.
	if err := auth.Authorize(actor, auth.OpApprove, auth.Target{}); err != nil {
		return nil, err
	}

	err := s.propertyRepo.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		p.Featured = featured
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, listingCachePrefix)
	return s.propertyRepo.GetByID(ctx, id)
}

func applyPropertyPatch(p *models.Property, req dtos.UpdatePropertyRequest, status *models.MarketStatus) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if status != nil {
		p.Status = *status
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.Size != nil {
		p.Size = *req.Size
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.ZipCode != nil {
		p.ZipCode = *req.ZipCode
	}
	if req.Features != nil {
		p.Features = *req.Features
	}
	if req.Images != nil {
		p.Images = toModelImages(*req.Images)
	}
}

func toModelImages(in []dtos.PropertyImageInput) []models.PropertyImage {
	out := make([]models.PropertyImage, 0, len(in))
	for _, img := range in {
		out = append(out, models.PropertyImage{URL: img.URL, PublicID: img.PublicID})
	}
	return out
}
