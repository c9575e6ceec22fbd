package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// ---------------------------------------------------------------------
// InquiryService interface
// ---------------------------------------------------------------------

type InquiryService interface {
	// Create records an inquiry about a published listing and notifies the
	// listing owner by email.
	Create(ctx context.Context, actor auth.Actor, req dtos.CreateInquiryRequest) (*models.Inquiry, error)

	ListOwn(ctx context.Context, actor auth.Actor) ([]*models.Inquiry, error)
	ListAll(ctx context.Context, actor auth.Actor, status string) ([]*models.Inquiry, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, status string) (*models.Inquiry, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type inquiryService struct {
	inquiryRepo  repositories.InquiryRepository
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
	mailer       MailerService
}

func NewInquiryService(
	inquiryRepo repositories.InquiryRepository,
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	mailer MailerService,
) InquiryService {
	return &inquiryService{
		inquiryRepo:  inquiryRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		mailer:       mailer,
	}
}

func (s *inquiryService) Create(ctx context.Context, actor auth.Actor, req dtos.CreateInquiryRequest) (*models.Inquiry, error) {
	requesterID := auth.ActorID(actor)
	if requesterID == uuid.Nil {
		return nil, utils.ErrUnauthorized
	}

	p, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	// Inquiries only make sense against listings the requester can see.
	if p == nil || !p.Publication.Published() {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "property not found", nil)
	}

	q := &models.Inquiry{
		ID:          uuid.New(),
		PropertyID:  p.ID,
		RequesterID: requesterID,
		Message:     req.Message,
		Status:      models.InquiryPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.inquiryRepo.Create(ctx, q); err != nil {
		return nil, err
	}

	if owner, err := s.userRepo.GetByID(ctx, p.OwnerID); err == nil && owner != nil {
		if err := s.mailer.SendInquiryEmail(owner.Email, p.Title, req.Message); err != nil {
			utils.Logger.WithError(err).Warn("inquiry notification failed")
		}
	}

	return q, nil
}

func (s *inquiryService) ListOwn(ctx context.Context, actor auth.Actor) ([]*models.Inquiry, error) {
	requesterID := auth.ActorID(actor)
	if requesterID == uuid.Nil {
		return nil, utils.ErrUnauthorized
	}
	return s.inquiryRepo.ListByRequesterID(ctx, requesterID)
}

func (s *inquiryService) ListAll(ctx context.Context, actor auth.Actor, status string) ([]*models.Inquiry, error) {
	if !auth.IsAdmin(actor) {
		return nil, utils.ErrUnauthorized
	}
	var parsed models.InquiryStatus
	if status != "" {
		st, err := models.ParseInquiryStatus(status)
		if err != nil {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), err)
		}
		parsed = st
	}
	return s.inquiryRepo.ListAll(ctx, parsed)
}

func (s *inquiryService) UpdateStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, status string) (*models.Inquiry, error) {
	if !auth.IsAdmin(actor) {
		return nil, utils.ErrUnauthorized
	}
	parsed, err := models.ParseInquiryStatus(status)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), err)
	}
	if err := s.inquiryRepo.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, err
	}
	return s.inquiryRepo.GetByID(ctx, id)
}

func (s *inquiryService) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if auth.IsAdmin(actor) {
		return s.inquiryRepo.Delete(ctx, id)
	}

	q, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "inquiry not found", nil)
	}
	if q.RequesterID != auth.ActorID(actor) {
		return utils.ErrUnauthorized
	}
	return s.inquiryRepo.Delete(ctx, id)
}
