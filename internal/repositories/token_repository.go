package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

// TokenRepository manages refresh tokens. Raw tokens are hashed before any
// DB round trip; the database never sees them.
type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken fetches a refresh token by its raw token value.
	// Returns nil if not found.
	GetRefreshToken(ctx context.Context, rawToken string) (*models.RefreshToken, error)

	RemoveRefreshToken(ctx context.Context, id uuid.UUID) error
	RemoveAllRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error

	// RevokeRefreshToken keeps the row (revoked=TRUE) for audit usage.
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error

	CleanupExpiredRefreshTokens(ctx context.Context) error
}

type tokenRepo struct {
	db DB
}

func NewTokenRepository(db DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at, revoked, ip_address)
        VALUES ($1,$2,$3,$4,NOW(),$5,$6)
    `,
		token.ID,
		token.UserID,
		utils.HashToken(token.Token),
		token.ExpiresAt,
		token.Revoked,
		token.IPAddress,
	)
	return err
}

func (r *tokenRepo) GetRefreshToken(ctx context.Context, rawToken string) (*models.RefreshToken, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, user_id, expires_at, created_at, revoked, ip_address
        FROM refresh_tokens WHERE token_hash=$1
    `, utils.HashToken(rawToken))

	var rt models.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked, &rt.IPAddress)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rt.Token = rawToken
	return &rt, nil
}

func (r *tokenRepo) RemoveRefreshToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE id=$1`, id)
	return err
}

func (r *tokenRepo) RemoveAllRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id=$1`, userID)
	return err
}

func (r *tokenRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked=TRUE WHERE id=$1`, id)
	return err
}

func (r *tokenRepo) CleanupExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	return err
}
