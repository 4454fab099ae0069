package repo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evdash/internal/scope"
)

func TestCountActiveSessionsBoundedToStartDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStatsRepo(db)

	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	tomorrow := today.Add(24 * time.Hour)

	// The statement must carry both the open-session filter and the start
	// date bounds: a session left running since last week stays out of
	// today's count.
	mock.ExpectQuery(regexp.QuoteMeta(
		`where s.stopped_at is null and s.started_at >= $1 and s.started_at < $2`)).
		WithArgs(today, tomorrow).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountActiveSessions(context.Background(), scope.Unrestricted(), &today, &tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveSessionsScopedForOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStatsRepo(db)

	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	tomorrow := today.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`cp.owner_id = $1`)).
		WithArgs(int64(4), today, tomorrow).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := repo.CountActiveSessions(context.Background(), scope.ForOwner(4), &today, &tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
