package services

import (
	"context"

	"github.com/openlistings/backend/internal/auth"
	"github.com/openlistings/backend/internal/dtos"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// DashboardService aggregates the counters shown on the admin dashboard.
type DashboardService interface {
	Stats(ctx context.Context, actor auth.Actor) (*dtos.DashboardStatsResponse, error)
}

type dashboardService struct {
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
	inquiryRepo  repositories.InquiryRepository
}

func NewDashboardService(
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	inquiryRepo repositories.InquiryRepository,
) DashboardService {
	return &dashboardService{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		inquiryRepo:  inquiryRepo,
	}
}

func (s *dashboardService) Stats(ctx context.Context, actor auth.Actor) (*dtos.DashboardStatsResponse, error) {
	if !auth.IsAdmin(actor) {
		return nil, utils.ErrUnauthorized
	}

	byPublication, err := s.propertyRepo.CountByPublication(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.inquiryRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byPublication {
		total += n
	}

	return &dtos.DashboardStatsResponse{
		TotalProperties:     total,
		PendingProperties:   byPublication[models.PublicationPending],
		PublishedProperties: byPublication[models.PublicationPublished],
		RejectedProperties:  byPublication[models.PublicationRejected],
		TotalUsers:          byRole[models.RoleUser],
		TotalAgents:         byRole[models.RoleAgent],
		PendingInquiries:    byStatus[models.InquiryPending],
	}, nil
}
