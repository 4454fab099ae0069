package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/dashboard/stations", nil)
	pr := pageRequest(r, 10)

	assert.Equal(t, 1, pr.Page)
	assert.Equal(t, 10, pr.Limit)
	assert.Empty(t, pr.Search)
	assert.Nil(t, pr.DateFrom)
	assert.Nil(t, pr.DateTo)
}

func TestPageRequestParsesQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/dashboard/sessions?page=3&limit=25&search=plaza&sortBy=name&sortDir=desc", nil)
	pr := pageRequest(r, 10)

	assert.Equal(t, 3, pr.Page)
	assert.Equal(t, 25, pr.Limit)
	assert.Equal(t, "plaza", pr.Search)
	assert.Equal(t, "name", pr.SortKey)
	assert.True(t, pr.SortDesc)
}

func TestPageRequestClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?page=-1&limit=9999", nil)
	pr := pageRequest(r, 10)

	assert.Equal(t, 1, pr.Page)
	assert.Equal(t, 100, pr.Limit)
}

func TestPageRequestDateBoundsAreInclusiveDays(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?dateFrom=2026-08-01&dateTo=2026-08-30", nil)
	pr := pageRequest(r, 10)

	require.NotNil(t, pr.DateFrom)
	require.NotNil(t, pr.DateTo)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local), *pr.DateFrom)
	// dateTo widens to the next midnight so the 30th itself is included
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local), *pr.DateTo)
}

func TestPageRequestIgnoresBadDates(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?dateFrom=yesterday&dateTo=30/08/2026", nil)
	pr := pageRequest(r, 10)

	assert.Nil(t, pr.DateFrom)
	assert.Nil(t, pr.DateTo)
}
