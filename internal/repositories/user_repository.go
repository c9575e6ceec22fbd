package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/openlistings/backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	Update(ctx context.Context, u *models.User) error
	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error

	RecordFailedLogin(ctx context.Context, id uuid.UUID, lockedUntil *time.Time) error
	ResetFailedLogins(ctx context.Context, id uuid.UUID) error

	CountByRole(ctx context.Context) (map[models.UserRole]int, error)
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUser()+" WHERE id=$1", scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, email, password_hash, name, phone, role,
            email_verified, phone_verified, totp_secret,
            failed_login_attempts, locked_until,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,0,NULL, NOW(), NOW(), 1)
    `,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Phone,
		string(u.Role),
		u.EmailVerified,
		u.PhoneVerified,
		u.TOTPSecret,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE LOWER(email)=LOWER($1)", email)
	return scanUser(row)
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	_, err := r.update(ctx, u, false, 0)
	return err
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, u, true, expected)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *userRepo) update(ctx context.Context, u *models.User, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE users SET
            email=$1, password_hash=$2, name=$3, phone=$4, role=$5,
            email_verified=$6, phone_verified=$7, totp_secret=$8, updated_at=NOW()
    `
	args := []interface{}{
		u.Email, u.PasswordHash, u.Name, u.Phone, string(u.Role),
		u.EmailVerified, u.PhoneVerified, u.TOTPSecret,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$9 AND row_version=$10`
		args = append(args, u.ID, expected)
	} else {
		sql += ` WHERE id=$9`
		args = append(args, u.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *userRepo) RecordFailedLogin(ctx context.Context, id uuid.UUID, lockedUntil *time.Time) error {
	_, err := r.db.Exec(ctx, `
        UPDATE users SET
            failed_login_attempts = failed_login_attempts + 1,
            locked_until = COALESCE($2, locked_until),
            updated_at = NOW()
        WHERE id=$1
    `, id, lockedUntil)
	return err
}

func (r *userRepo) ResetFailedLogins(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        UPDATE users SET failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
        WHERE id=$1
    `, id)
	return err
}

func (r *userRepo) CountByRole(ctx context.Context) (map[models.UserRole]int, error) {
	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.UserRole]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		out[models.UserRole(role)] = n
	}
	return out, rows.Err()
}

func baseSelectUser() string {
	return `
        SELECT
            id, email, password_hash, name, phone, role,
            email_verified, phone_verified, totp_secret,
            failed_login_attempts, locked_until,
            created_at, updated_at, row_version
        FROM users
    `
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Phone,
		&role,
		&u.EmailVerified,
		&u.PhoneVerified,
		&u.TOTPSecret,
		&u.FailedLoginAttempts,
		&u.LockedUntil,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.UserRole(role)
	return &u, nil
}
