package repositories

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/models"
)

// PropertyFilter translates a listing query into SQL predicates. All fields
// are optional; the zero value matches everything visible.
type PropertyFilter struct {
	Type        string
	Status      models.MarketStatus
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	City        string

	// Search matches the title case-insensitively. SearchPlaces widens it
	// to city/state (the favorites view).
	Search       string
	SearchPlaces bool

	FeaturedOnly bool

	// OnlyPublished hides everything outside the Published state. The
	// listing service forces it on for non-admin actors.
	OnlyPublished bool

	// Publication filters on an exact workflow state (admin pending queue).
	Publication models.PublicationStatus

	// OwnerID restricts to one agent's listings ("my properties").
	OwnerID *uuid.UUID

	Page    int
	PerPage int
}

// whereClause builds the WHERE fragment and its positional args.
func (f PropertyFilter) whereClause() (string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.OnlyPublished {
		conds = append(conds, "publication_status = "+arg(string(models.PublicationPublished)))
	}
	if f.Publication != "" {
		conds = append(conds, "publication_status = "+arg(string(f.Publication)))
	}
	if f.OwnerID != nil {
		conds = append(conds, "owner_id = "+arg(*f.OwnerID))
	}
	if f.Type != "" {
		conds = append(conds, "type = "+arg(f.Type))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}
	if f.MinBedrooms != nil {
		conds = append(conds, "bedrooms >= "+arg(*f.MinBedrooms))
	}
	if f.City != "" {
		conds = append(conds, "city ILIKE "+arg("%"+f.City+"%"))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		if f.SearchPlaces {
			p1 := arg(pattern)
			p2 := arg(pattern)
			p3 := arg(pattern)
			conds = append(conds,
				"(title ILIKE "+p1+" OR city ILIKE "+p2+" OR state ILIKE "+p3+")")
		} else {
			conds = append(conds, "title ILIKE "+arg(pattern))
		}
	}
	if f.FeaturedOnly {
		conds = append(conds, "featured = TRUE")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// limitOffset normalizes pagination and returns LIMIT/OFFSET values.
func (f PropertyFilter) limitOffset(defaultPerPage, maxPerPage int) (limit, offset, page int) {
	page = f.Page
	if page < 1 {
		page = 1
	}
	limit = f.PerPage
	if limit < 1 {
		limit = defaultPerPage
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}
	offset = (page - 1) * limit
	return limit, offset, page
}
