package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/openlistings/backend/internal/repositories"
	"github.com/openlistings/backend/internal/utils"
)

const cleanupRetryDelay = 3 * time.Second

// CleanupService removes expired refresh tokens and verification codes
// each night.
type CleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type cleanupService struct {
	tokenRepo        repositories.TokenRepository
	verificationRepo repositories.VerificationRepository
}

func NewCleanupService(
	tokenRepo repositories.TokenRepository,
	verificationRepo repositories.VerificationRepository,
) CleanupService {
	return &cleanupService{
		tokenRepo:        tokenRepo,
		verificationRepo: verificationRepo,
	}
}

// runWithRetry executes op(ctx) and, if it returns a transient network
// error (EOF, pgconn safe-to-retry, or the common closed-connection
// message), waits a moment then retries once.
func (s *cleanupService) runWithRetry(
	ctx context.Context,
	op func(context.Context) error,
) error {
	if err := op(ctx); err != nil {
		if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
			strings.Contains(err.Error(), "connection was closed") {
			utils.Logger.WithError(err).Warn("cleanup hit transient DB error; retrying once")
			time.Sleep(cleanupRetryDelay)
			return op(ctx)
		}
		return err
	}
	return nil
}

func (s *cleanupService) CleanupDaily(ctx context.Context) error {
	logger := utils.Logger

	if err := s.runWithRetry(ctx, s.tokenRepo.CleanupExpiredRefreshTokens); err != nil {
		logger.WithError(err).Error("Failed to cleanup expired refresh_tokens")
		return err
	}

	if err := s.runWithRetry(ctx, s.verificationRepo.CleanupExpired); err != nil {
		logger.WithError(err).Error("Failed to cleanup expired verification_codes")
		return err
	}

	logger.Info("Daily cleanup (expired only) completed successfully.")
	return nil
}
