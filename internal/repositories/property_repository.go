package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

// PropertyPage is one page of a filtered listing query.
type PropertyPage struct {
	Items       []*models.Property
	Total       int
	CurrentPage int
	TotalPages  int
}

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, f PropertyFilter) (*PropertyPage, error)
	ListByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Property, error)

	Update(ctx context.Context, p *models.Property) error
	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountByPublication(ctx context.Context) (map[models.PublicationStatus]int, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	*BaseVersionedRepo[*models.Property]
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	selectStmt := baseSelectProperty() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanProperty)
	return r
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO properties (
            id, owner_id, title, description, price, type, status,
            bedrooms, bathrooms, size, address, city, state, zip_code,
            features, images, featured, publication_status, rejection_reason,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19, NOW(), NOW(), 1)
    `,
		p.ID,
		p.OwnerID,
		p.Title,
		p.Description,
		p.Price,
		p.Type,
		string(p.Status),
		p.Bedrooms,
		p.Bathrooms,
		p.Size,
		p.Address,
		p.City,
		p.State,
		p.ZipCode,
		p.Features,
		images,
		p.Featured,
		string(p.Publication.Status),
		p.Publication.Reason,
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *propertyRepo) List(ctx context.Context, f PropertyFilter) (*PropertyPage, error) {
	where, args := f.whereClause()

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM properties"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	limit, offset, page := f.limitOffset(utils.DefaultPageSize, utils.MaxPageSize)

	sql := fmt.Sprintf("%s%s ORDER BY created_at LIMIT $%d OFFSET $%d",
		baseSelectProperty(), where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.Property, 0, limit)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &PropertyPage{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

func (r *propertyRepo) ListByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, baseSelectProperty()+" WHERE owner_id=$1 ORDER BY created_at", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *propertyRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, baseSelectProperty()+" WHERE id = ANY($1) ORDER BY created_at", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	_, err := r.update(ctx, p, false, 0)
	return err
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, p, true, expected)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *propertyRepo) update(ctx context.Context, p *models.Property, check bool, expected int64) (pgconn.CommandTag, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return nil, err
	}

	sql := `
        UPDATE properties SET
            title=$1, description=$2, price=$3, type=$4, status=$5,
            bedrooms=$6, bathrooms=$7, size=$8, address=$9, city=$10,
            state=$11, zip_code=$12, features=$13, images=$14, featured=$15,
            publication_status=$16, rejection_reason=$17, updated_at=NOW()
    `
	args := []interface{}{
		p.Title, p.Description, p.Price, p.Type, string(p.Status),
		p.Bedrooms, p.Bathrooms, p.Size, p.Address, p.City,
		p.State, p.ZipCode, p.Features, images, p.Featured,
		string(p.Publication.Status), p.Publication.Reason,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$18 AND row_version=$19`
		args = append(args, p.ID, expected)
	} else {
		sql += ` WHERE id=$18`
		args = append(args, p.ID)
	}

	return r.db.Exec(ctx, sql, args...)
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepo) CountByPublication(ctx context.Context) (map[models.PublicationStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT publication_status, COUNT(*) FROM properties GROUP BY publication_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.PublicationStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[models.PublicationStatus(status)] = n
	}
	return out, rows.Err()
}

func baseSelectProperty() string {
	return `
        SELECT
            id, owner_id, title, description, price, type, status,
            bedrooms, bathrooms, size, address, city, state, zip_code,
            features, images, featured, publication_status, rejection_reason,
            created_at, updated_at, row_version
        FROM properties
    `
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	var status, pubStatus, pubReason string
	var images []byte
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Type,
		&status,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Size,
		&p.Address,
		&p.City,
		&p.State,
		&p.ZipCode,
		&p.Features,
		&images,
		&p.Featured,
		&pubStatus,
		&pubReason,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Status = models.MarketStatus(status)
	p.Publication = models.Publication{
		Status: models.PublicationStatus(pubStatus),
		Reason: pubReason,
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
