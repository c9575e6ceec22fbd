package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/cache"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// ---------------------------------------------------------------------
// PublicationService interface
// ---------------------------------------------------------------------

// PublicationService drives the review lifecycle of a listing. All three
// transitions are idempotent: applying one to a listing already in the
// target state is a no-op, not an error.
type PublicationService interface {
	Approve(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Property, error)
	Reject(ctx context.Context, actor auth.Actor, id uuid.UUID, reason string) (*models.Property, error)

	// Unpublish sends a published listing back to review.
	Unpublish(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Property, error)

	ListPending(ctx context.Context, actor auth.Actor, page, perPage int) (*repositories.PropertyPage, error)
	ListAll(ctx context.Context, actor auth.Actor, f repositories.PropertyFilter) (*repositories.PropertyPage, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type publicationService struct {
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
	mailer       MailerService
	cache        *cache.Cache
}

func NewPublicationService(
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	mailer MailerService,
	listingCache *cache.Cache,
) PublicationService {
	return &publicationService{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		mailer:       mailer,
		cache:        listingCache,
	}
}

func (s *publicationService) Approve(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Property, error) {
	if err := auth.Authorize(actor, auth.OpApprove, auth.Target{}); err != nil {
		return nil, err
	}

	changed := false
	err := s.propertyRepo.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		// Review decisions apply to pending listings only.
		if p.Publication.Status != models.PublicationPending {
			return nil
		}
		p.Publication = models.PublishedPublication()
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changed {
		s.cache.InvalidatePrefix(ctx, listingCachePrefix)
		utils.Logger.WithField("property_id", id).Info("listing approved")
		s.notifyOwner(ctx, p, func(email string) error {
			return s.mailer.SendListingApprovedEmail(email, p.Title)
		})
	}
	return p, nil
}

func (s *publicationService) Reject(ctx context.Context, actor auth.Actor, id uuid.UUID, reason string) (*models.Property, error) {
	if err := auth.Authorize(actor, auth.OpReject, auth.Target{}); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "rejection reason must not be empty", utils.ErrEmptyReason)
	}

	changed := false
	err := s.propertyRepo.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		// Same rule as Approve. A published listing has to be
		// unpublished before it can be rejected.
		if p.Publication.Status != models.PublicationPending {
			return nil
		}
		p.Publication = models.RejectedPublication(reason)
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changed {
		s.cache.InvalidatePrefix(ctx, listingCachePrefix)
		utils.Logger.WithFields(map[string]interface{}{
			"property_id": id,
			"reason":      reason,
		}).Info("listing rejected")
		s.notifyOwner(ctx, p, func(email string) error {
			return s.mailer.SendListingRejectedEmail(email, p.Title, reason)
		})
	}
	return p, nil
}

func (s *publicationService) Unpublish(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Property, error) {
	if err := auth.Authorize(actor, auth.OpApprove, auth.Target{}); err != nil {
		return nil, err
	}

	changed := false
	err := s.propertyRepo.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		if p.Publication.Status != models.PublicationPublished {
			return nil
		}
		p.Publication = models.PendingPublication()
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.cache.InvalidatePrefix(ctx, listingCachePrefix)
		utils.Logger.WithField("property_id", id).Info("listing unpublished, back to review")
	}
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *publicationService) ListPending(ctx context.Context, actor auth.Actor, page, perPage int) (*repositories.PropertyPage, error) {
	if err := auth.Authorize(actor, auth.OpApprove, auth.Target{}); err != nil {
		return nil, err
	}
	return s.propertyRepo.List(ctx, repositories.PropertyFilter{
		Publication: models.PublicationPending,
		Page:        page,
		PerPage:     perPage,
	})
}

func (s *publicationService) ListAll(ctx context.Context, actor auth.Actor, f repositories.PropertyFilter) (*repositories.PropertyPage, error) {
	if err := auth.Authorize(actor, auth.OpApprove, auth.Target{}); err != nil {
		return nil, err
	}
	// Admins see everything; never force the published-only restriction.
	f.OnlyPublished = false
	return s.propertyRepo.List(ctx, f)
}

// notifyOwner emails the listing owner about a review decision. Delivery
// failures are logged, never surfaced; the state change already happened.
func (s *publicationService) notifyOwner(ctx context.Context, p *models.Property, send func(email string) error) {
	if p == nil {
		return
	}
	owner, err := s.userRepo.GetByID(ctx, p.OwnerID)
	if err != nil || owner == nil {
		utils.Logger.WithError(err).WithField("owner_id", p.OwnerID).Warn("could not load owner for notification")
		return
	}
	if err := send(owner.Email); err != nil {
		utils.Logger.WithError(err).Warn("review decision notification failed")
	}
}
