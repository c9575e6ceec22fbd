package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

// VerificationRepository stores email/SMS verification codes (hashed).
type VerificationRepository interface {
	Create(ctx context.Context, v *models.VerificationCode) error

	// GetLatest fetches the newest code for (user, channel). Returns nil
	// when none exists.
	GetLatest(ctx context.Context, userID uuid.UUID, channel models.VerificationChannel) (*models.VerificationCode, error)

	RemoveForUser(ctx context.Context, userID uuid.UUID, channel models.VerificationChannel) error
	CleanupExpired(ctx context.Context) error
}

type verificationRepo struct {
	db DB
}

func NewVerificationRepository(db DB) VerificationRepository {
	return &verificationRepo{db: db}
}

func (r *verificationRepo) Create(ctx context.Context, v *models.VerificationCode) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO verification_codes (id, user_id, channel, code_hash, expires_at, created_at)
        VALUES ($1,$2,$3,$4,$5,NOW())
    `, v.ID, v.UserID, string(v.Channel), v.CodeHash, v.ExpiresAt)
	return err
}

func (r *verificationRepo) GetLatest(ctx context.Context, userID uuid.UUID, channel models.VerificationChannel) (*models.VerificationCode, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, user_id, channel, code_hash, expires_at, created_at
        FROM verification_codes
        WHERE user_id=$1 AND channel=$2
        ORDER BY created_at DESC
        LIMIT 1
    `, userID, string(channel))

	var v models.VerificationCode
	var ch string
	err := row.Scan(&v.ID, &v.UserID, &ch, &v.CodeHash, &v.ExpiresAt, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	v.Channel = models.VerificationChannel(ch)
	return &v, nil
}

func (r *verificationRepo) RemoveForUser(ctx context.Context, userID uuid.UUID, channel models.VerificationChannel) error {
	_, err := r.db.Exec(ctx, `DELETE FROM verification_codes WHERE user_id=$1 AND channel=$2`, userID, string(channel))
	return err
}

func (r *verificationRepo) CleanupExpired(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM verification_codes WHERE expires_at < NOW()`)
	return err
}

// HashVerificationCode is the single hashing point for codes so the repo
// and the service agree on the stored form.
func HashVerificationCode(code string) string {
	return utils.HashToken(code)
}
