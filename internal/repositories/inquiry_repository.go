package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/openlistings/backend/internal/models"
)

type InquiryRepository interface {
	Create(ctx context.Context, q *models.Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	ListByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*models.Inquiry, error)
	ListAll(ctx context.Context, status models.InquiryStatus) ([]*models.Inquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[models.InquiryStatus]int, error)
}

type inquiryRepo struct {
	db DB
}

func NewInquiryRepository(db DB) InquiryRepository {
	return &inquiryRepo{db: db}
}

func (r *inquiryRepo) Create(ctx context.Context, q *models.Inquiry) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO inquiries (id, property_id, requester_id, message, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
    `, q.ID, q.PropertyID, q.RequesterID, q.Message, string(q.Status))
	return err
}

func (r *inquiryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	row := r.db.QueryRow(ctx, baseSelectInquiry()+" WHERE id=$1", id)
	return scanInquiry(row)
}

func (r *inquiryRepo) ListByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*models.Inquiry, error) {
	rows, err := r.db.Query(ctx, baseSelectInquiry()+" WHERE requester_id=$1 ORDER BY created_at DESC", requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInquiries(rows)
}

func (r *inquiryRepo) ListAll(ctx context.Context, status models.InquiryStatus) ([]*models.Inquiry, error) {
	sql := baseSelectInquiry()
	args := []interface{}{}
	if status != "" {
		sql += " WHERE status=$1"
		args = append(args, string(status))
	}
	sql += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInquiries(rows)
}

func (r *inquiryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE inquiries SET status=$2, updated_at=NOW() WHERE id=$1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inquiries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepo) CountByStatus(ctx context.Context) (map[models.InquiryStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM inquiries GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.InquiryStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[models.InquiryStatus(status)] = n
	}
	return out, rows.Err()
}

func baseSelectInquiry() string {
	return `
        SELECT id, property_id, requester_id, message, status, created_at, updated_at
        FROM inquiries
    `
}

func scanInquiry(row pgx.Row) (*models.Inquiry, error) {
	var q models.Inquiry
	var status string
	err := row.Scan(&q.ID, &q.PropertyID, &q.RequesterID, &q.Message, &status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	q.Status = models.InquiryStatus(status)
	return &q, nil
}

func collectInquiries(rows pgx.Rows) ([]*models.Inquiry, error) {
	var out []*models.Inquiry
	for rows.Next() {
		q, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
