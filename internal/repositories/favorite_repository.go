package repositories

import (
	"context"

	"github.com/google/uuid"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, propertyID uuid.UUID) error
	Remove(ctx context.Context, userID, propertyID uuid.UUID) error
	ListPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
}

type favoriteRepo struct {
	db DB
}

func NewFavoriteRepository(db DB) FavoriteRepository {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO favorites (user_id, property_id, created_at)
        VALUES ($1,$2,NOW())
        ON CONFLICT (user_id, property_id) DO NOTHING
    `, userID, propertyID)
	return err
}

func (r *favoriteRepo) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND property_id=$2`, userID, propertyID)
	return err
}

func (r *favoriteRepo) ListPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
        SELECT property_id FROM favorites WHERE user_id=$1 ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *favoriteRepo) Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id=$1 AND property_id=$2)
    `, userID, propertyID).Scan(&exists)
	return exists, err
}
