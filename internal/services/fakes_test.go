package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/repositories"
)

// ---------------------------------------------------------------------
// In-memory fakes shared by the service tests.
// ---------------------------------------------------------------------

type fakePropertyRepo struct {
	mu    sync.Mutex
	props map[uuid.UUID]models.Property

	// lastFilter records what List was asked for, so tests can assert on
	// visibility forcing.
	lastFilter repositories.PropertyFilter
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{props: make(map[uuid.UUID]models.Property)}
}

func (r *fakePropertyRepo) Create(ctx context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
	}
	r.props[p.ID] = *p
	return nil
}

func (r *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.props[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *fakePropertyRepo) List(ctx context.Context, f repositories.PropertyFilter) (*repositories.PropertyPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f

	var items []*models.Property
	for id := range r.props {
		p := r.props[id]
		if f.OnlyPublished && !p.Publication.Published() {
			continue
		}
		if f.Publication != "" && p.Publication.Status != f.Publication {
			continue
		}
		if f.FeaturedOnly && !p.Featured {
			continue
		}
		if f.OwnerID != nil && p.OwnerID != *f.OwnerID {
			continue
		}
		cp := p
		items = append(items, &cp)
	}
	return &repositories.PropertyPage{
		Items:       items,
		Total:       len(items),
		CurrentPage: 1,
		TotalPages:  1,
	}, nil
}

func (r *fakePropertyRepo) ListByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Property
	for id := range r.props {
		p := r.props[id]
		if p.OwnerID == ownerID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Property
	for _, id := range ids {
		if p, ok := r.props[id]; ok {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) Update(ctx context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.props[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	p.UpdatedAt = time.Now()
	r.props[p.ID] = *p
	return nil
}

func (r *fakePropertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.props[p.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	p.RowVersion = expected + 1
	r.props[p.ID] = *p
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakePropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.props[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := mutate(&cur); err != nil {
		return err
	}
	cur.RowVersion++
	cur.UpdatedAt = time.Now()
	r.props[id] = cur
	return nil
}

func (r *fakePropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.props[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.props, id)
	return nil
}

func (r *fakePropertyRepo) CountByPublication(ctx context.Context) (map[models.PublicationStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[models.PublicationStatus]int)
	for _, p := range r.props {
		out[p.Publication.Status]++
	}
	return out, nil
}

// ---------------------------------------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.users {
		u := r.users[id]
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[u.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	u.RowVersion = expected + 1
	r.users[u.ID] = *u
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeUserRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := mutate(&cur); err != nil {
		return err
	}
	cur.RowVersion++
	r.users[id] = cur
	return nil
}

func (r *fakeUserRepo) RecordFailedLogin(ctx context.Context, id uuid.UUID, lockedUntil *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.FailedLoginAttempts++
	u.LockedUntil = lockedUntil
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) ResetFailedLogins(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context) (map[models.UserRole]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[models.UserRole]int)
	for _, u := range r.users {
		out[u.Role]++
	}
	return out, nil
}

// ---------------------------------------------------------------------

type fakeMailer struct {
	mu             sync.Mutex
	approvedEmails []string
	rejectedEmails []string
	inquiryEmails  []string
	codes          []string
}

func (m *fakeMailer) SendVerificationEmail(toEmail, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) SendVerificationSMS(toPhone, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) SendListingApprovedEmail(toEmail, listingTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvedEmails = append(m.approvedEmails, toEmail)
	return nil
}

func (m *fakeMailer) SendListingRejectedEmail(toEmail, listingTitle, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectedEmails = append(m.rejectedEmails, toEmail)
	return nil
}

func (m *fakeMailer) SendInquiryEmail(toEmail, listingTitle, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inquiryEmails = append(m.inquiryEmails, toEmail)
	return nil
}
