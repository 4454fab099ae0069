package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evdash/internal/repo"
	"evdash/internal/scope"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "pgx")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func sumRows(v float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"sum"}).AddRow(v)
}

func TestFleetStats(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	tomorrow := today.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from stations`)).
		WillReturnRows(countRows(3))
	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from stations`)).
		WithArgs(1).
		WillReturnRows(countRows(2))
	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from charge_points`)).
		WillReturnRows(countRows(5))
	mock.ExpectQuery(`select distinct on`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).
			AddRow("Available").AddRow("Charging").AddRow("Preparing"))
	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from sessions s`)).
		WithArgs(today, tomorrow).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from users`)).
		WillReturnRows(countRows(40))
	mock.ExpectQuery(`coalesce\(sum\(greatest`).
		WillReturnRows(sumRows(1234.5))
	mock.ExpectQuery(`coalesce\(sum\(greatest`).
		WithArgs(today, tomorrow).
		WillReturnRows(sumRows(88.25))
	mock.ExpectQuery(`coalesce\(sum\(o\.amount\)`).
		WithArgs(today, tomorrow).
		WillReturnRows(sumRows(410))

	svc := NewStatsService(repo.NewStatsRepo(db), zap.NewNop())
	svc.now = fixedClock(now)

	stats, err := svc.FleetStats(context.Background(), scope.Unrestricted())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalStations)
	assert.Equal(t, 2, stats.ActiveStations)
	assert.Equal(t, 5, stats.TotalChargePoints)
	assert.Equal(t, 2, stats.AvailableChargePoints)
	assert.Equal(t, 1, stats.ChargingChargePoints)
	// Two charge points never reported: they count as offline, so the
	// three buckets still sum to the fleet total.
	assert.Equal(t, 2, stats.OfflineChargePoints)
	assert.Equal(t, stats.TotalChargePoints,
		stats.AvailableChargePoints+stats.ChargingChargePoints+stats.OfflineChargePoints)

	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 40, stats.TotalUsers)
	assert.Equal(t, 1234.5, stats.TotalEnergy)
	assert.Equal(t, 88.25, stats.TodayEnergy)
	assert.Equal(t, 410.0, stats.TodayRevenue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFleetStatsFailsFast(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	boom := errors.New("store down")
	for i := 0; i < 9; i++ {
		mock.ExpectQuery(`select`).WillReturnError(boom)
	}

	svc := NewStatsService(repo.NewStatsRepo(db), zap.NewNop())
	_, err := svc.FleetStats(context.Background(), scope.Unrestricted())
	assert.ErrorIs(t, err, boom)
}

func TestEnergyByHourTodayIsDense(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`extract\(hour`).
		WillReturnRows(sqlmock.NewRows([]string{"hour", "energy"}).
			AddRow(2, 5.5).
			AddRow(23, 1.25))

	svc := NewStatsService(repo.NewStatsRepo(db), zap.NewNop())
	svc.now = fixedClock(now)

	series, err := svc.EnergyByHourToday(context.Background(), scope.Unrestricted())
	require.NoError(t, err)
	require.Len(t, series, 24)
	for h, point := range series {
		assert.Equal(t, h, point.Hour)
	}
	assert.Equal(t, 5.5, series[2].Energy)
	assert.Equal(t, 1.25, series[23].Energy)
	assert.Zero(t, series[0].Energy)
	assert.Zero(t, series[12].Energy)
}

func TestRevenueLast7DaysIsDense(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`to_char`).
		WillReturnRows(sqlmock.NewRows([]string{"day", "revenue"}).
			AddRow("2026-08-24", 12.5).
			AddRow("2026-08-30", 99.0))

	svc := NewStatsService(repo.NewStatsRepo(db), zap.NewNop())
	svc.now = fixedClock(now)

	series, err := svc.RevenueLast7Days(context.Background(), scope.Unrestricted())
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, "2026-08-24", series[0].Date)
	assert.Equal(t, 12.5, series[0].Revenue)
	assert.Equal(t, "2026-08-30", series[6].Date)
	assert.Equal(t, 99.0, series[6].Revenue)
	for _, mid := range series[1:6] {
		assert.Zero(t, mid.Revenue)
	}
}
