package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// ---------------------------------------------------------------------
// FavoriteService interface
// ---------------------------------------------------------------------

type FavoriteService interface {
	Add(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) error
	Remove(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) error

	// List returns the actor's saved listings that are still published.
	// The optional search term matches title, city, and state.
	List(ctx context.Context, actor auth.Actor, search string) ([]dtos.PropertyResponse, error)

	IDs(ctx context.Context, actor auth.Actor) ([]uuid.UUID, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type favoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	propertyRepo repositories.PropertyRepository
}

func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, propertyRepo repositories.PropertyRepository) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo, propertyRepo: propertyRepo}
}

func (s *favoriteService) Add(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) error {
	userID := auth.ActorID(actor)
	if userID == uuid.Nil {
		return utils.ErrUnauthorized
	}

	p, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if p == nil || !p.Publication.Published() {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "property not found", nil)
	}
	return s.favoriteRepo.Add(ctx, userID, propertyID)
}

func (s *favoriteService) Remove(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) error {
	userID := auth.ActorID(actor)
	if userID == uuid.Nil {
		return utils.ErrUnauthorized
	}
	return s.favoriteRepo.Remove(ctx, userID, propertyID)
}

func (s *favoriteService) List(ctx context.Context, actor auth.Actor, search string) ([]dtos.PropertyResponse, error) {
	userID := auth.ActorID(actor)
	if userID == uuid.Nil {
		return nil, utils.ErrUnauthorized
	}

	ids, err := s.favoriteRepo.ListPropertyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dtos.PropertyResponse{}, nil
	}

	props, err := s.propertyRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.PropertyResponse, 0, len(props))
	for _, p := range props {
		// A listing pulled from publication drops out of the view but the
		// favorite row survives, so it resurfaces if re-approved.
		if !p.Publication.Published() {
			continue
		}
		if search != "" && !matchesPlace(p.Title, p.City, p.State, search) {
			continue
		}
		out = append(out, dtos.NewPropertyResponse(p))
	}
	return out, nil
}

func (s *favoriteService) IDs(ctx context.Context, actor auth.Actor) ([]uuid.UUID, error) {
	userID := auth.ActorID(actor)
	if userID == uuid.Nil {
		return nil, utils.ErrUnauthorized
	}
	return s.favoriteRepo.ListPropertyIDs(ctx, userID)
}

func matchesPlace(title, city, state, search string) bool {
	return utils.ContainsFold(title, search) ||
		utils.ContainsFold(city, search) ||
		utils.ContainsFold(state, search)
}
