package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

// ---------------------------------------------------------------------
// VerificationService interface
// ---------------------------------------------------------------------

// VerificationService issues and checks the short-lived numeric codes used
// to confirm an agent's email address and phone number.
type VerificationService interface {
	RequestEmailCode(ctx context.Context, userID uuid.UUID) error
	RequestSMSCode(ctx context.Context, userID uuid.UUID) error

	VerifyEmailCode(ctx context.Context, userID uuid.UUID, code string) error
	VerifySMSCode(ctx context.Context, userID uuid.UUID, code string) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type verificationService struct {
	cfg              *config.Config
	userRepo         repositories.UserRepository
	verificationRepo repositories.VerificationRepository
	mailer           MailerService
}

func NewVerificationService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	verificationRepo repositories.VerificationRepository,
	mailer MailerService,
) VerificationService {
	return &verificationService{
		cfg:              cfg,
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		mailer:           mailer,
	}
}

func (s *verificationService) RequestEmailCode(ctx context.Context, userID uuid.UUID) error {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}

	code, err := s.issueCode(ctx, userID, models.ChannelEmail)
	if err != nil {
		return err
	}
	return s.mailer.SendVerificationEmail(user.Email, code)
}

func (s *verificationService) RequestSMSCode(ctx context.Context, userID uuid.UUID) error {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.PhoneVerified {
		return nil
	}
	if user.Phone == nil || *user.Phone == "" {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "no phone number on file", nil)
	}

	code, err := s.issueCode(ctx, userID, models.ChannelSMS)
	if err != nil {
		return err
	}
	return s.mailer.SendVerificationSMS(*user.Phone, code)
}

func (s *verificationService) VerifyEmailCode(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.checkCode(ctx, userID, models.ChannelEmail, code); err != nil {
		return err
	}
	return s.userRepo.UpdateWithRetry(ctx, userID, func(u *models.User) error {
		u.EmailVerified = true
		return nil
	})
}

func (s *verificationService) VerifySMSCode(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.checkCode(ctx, userID, models.ChannelSMS, code); err != nil {
		return err
	}
	return s.userRepo.UpdateWithRetry(ctx, userID, func(u *models.User) error {
		u.PhoneVerified = true
		return nil
	})
}

func (s *verificationService) requireUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "user not found", nil)
	}
	return user, nil
}

// issueCode replaces any outstanding code for the channel before storing a
// fresh one. Only the hash hits the database.
func (s *verificationService) issueCode(ctx context.Context, userID uuid.UUID, channel models.VerificationChannel) (string, error) {
	if err := s.verificationRepo.RemoveForUser(ctx, userID, channel); err != nil {
		return "", err
	}

	code := utils.RandomNumericString(utils.VerificationCodeLength)

	v := &models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		Channel:   channel,
		CodeHash:  repositories.HashVerificationCode(code),
		ExpiresAt: time.Now().Add(s.cfg.VerificationCodeExpiry),
		CreatedAt: time.Now(),
	}
	if err := s.verificationRepo.Create(ctx, v); err != nil {
		return "", err
	}
	return code, nil
}

func (s *verificationService) checkCode(ctx context.Context, userID uuid.UUID, channel models.VerificationChannel, code string) error {
	rec, err := s.verificationRepo.GetLatest(ctx, userID, channel)
	if err != nil {
		return err
	}
	if rec == nil || rec.IsExpired() || rec.CodeHash != repositories.HashVerificationCode(code) {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "invalid or expired verification code", nil)
	}
	return s.verificationRepo.RemoveForUser(ctx, userID, channel)
}
