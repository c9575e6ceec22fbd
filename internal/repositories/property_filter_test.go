package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/backend/internal/models"
	"github.com/openlistings/backend/internal/utils"
)

func TestWhereClauseEmptyFilter(t *testing.T) {
	where, args := PropertyFilter{}.whereClause()
	require.Empty(t, where)
	require.Empty(t, args)
}

func TestWhereClausePriceRangeAndStatus(t *testing.T) {
	f := PropertyFilter{
		Status:        models.StatusForRent,
		MinPrice:      utils.Ptr(1000.0),
		MaxPrice:      utils.Ptr(2000.0),
		OnlyPublished: true,
	}
	where, args := f.whereClause()

	require.Equal(t,
		" WHERE publication_status = $1 AND status = $2 AND price >= $3 AND price <= $4",
		where)
	require.Equal(t, []interface{}{"published", "for-rent", 1000.0, 2000.0}, args)
}

func TestWhereClauseSearchTitleOnly(t *testing.T) {
	where, args := PropertyFilter{Search: "loft"}.whereClause()
	require.Equal(t, " WHERE title ILIKE $1", where)
	require.Equal(t, []interface{}{"%loft%"}, args)
}

func TestWhereClauseSearchPlaces(t *testing.T) {
	where, args := PropertyFilter{Search: "austin", SearchPlaces: true}.whereClause()
	require.Equal(t, " WHERE (title ILIKE $1 OR city ILIKE $2 OR state ILIKE $3)", where)
	require.Len(t, args, 3)
}

func TestWhereClauseOwnerAndPublication(t *testing.T) {
	owner := uuid.New()
	f := PropertyFilter{
		OwnerID:      &owner,
		Publication:  models.PublicationPending,
		MinBedrooms:  utils.Ptr(3),
		City:         "Denver",
		FeaturedOnly: true,
	}
	where, args := f.whereClause()

	require.Equal(t,
		" WHERE publication_status = $1 AND owner_id = $2 AND bedrooms >= $3 AND city ILIKE $4 AND featured = TRUE",
		where)
	require.Equal(t, []interface{}{"pending", owner, 3, "%Denver%"}, args)
}

func TestLimitOffsetDefaultsAndBounds(t *testing.T) {
	limit, offset, page := PropertyFilter{}.limitOffset(12, 50)
	require.Equal(t, 12, limit)
	require.Equal(t, 0, offset)
	require.Equal(t, 1, page)

	limit, offset, page = PropertyFilter{Page: 3, PerPage: 10}.limitOffset(12, 50)
	require.Equal(t, 10, limit)
	require.Equal(t, 20, offset)
	require.Equal(t, 3, page)

	limit, _, _ = PropertyFilter{PerPage: 500}.limitOffset(12, 50)
	require.Equal(t, 50, limit)

	_, offset, page = PropertyFilter{Page: -4}.limitOffset(12, 50)
	require.Equal(t, 0, offset)
	require.Equal(t, 1, page)
}
