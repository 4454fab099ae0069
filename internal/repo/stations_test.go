package repo

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evdash/internal/models"
	"evdash/internal/schema"
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

var stationColumns = []string{
	"station_id", "name", "address", "status", "station_type", "latitude", "longitude",
	"charge_point_count", "owner_id", "created_at", "owner_name", "active_sessions",
}

func stationRow(id int64, name string) []driverValue {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return []driverValue{id, name, "1 Main St", 1, 1, nil, nil, 2, int64(4), created, "Acme", 0}
}

type driverValue = driver.Value

func addRows(rows *sqlmock.Rows, vals ...[]driverValue) *sqlmock.Rows {
	for _, v := range vals {
		rows.AddRow(v...)
	}
	return rows
}

func TestStationsListScoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStationsRepo(db, schema.NewCapabilities())

	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from stations`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`select\s+cs\.station_id`).
		WithArgs(int64(4), 10, 0).
		WillReturnRows(addRows(sqlmock.NewRows(stationColumns), stationRow(1, "Plaza")))

	pr := models.PageRequest{Page: 1, Limit: 10}
	rows, total, err := repo.List(context.Background(), scope.ForOwner(4), pr)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Plaza", rows[0].Name)
	assert.Equal(t, "Public", rows[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStationsListAbsorbsMissingColumn(t *testing.T) {
	db, mock := newMockDB(t)
	caps := schema.NewCapabilities()
	repo := NewStationsRepo(db, caps)

	undefined := &pgconn.PgError{
		Code:    "42703",
		Message: `column cs.station_type does not exist`,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from stations`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`select\s+cs\.station_id`).
		WillReturnError(undefined)
	mock.ExpectQuery(`select\s+cs\.station_id`).
		WithArgs(10, 0).
		WillReturnRows(addRows(sqlmock.NewRows(stationColumns), stationRow(1, "Plaza")))

	pr := models.PageRequest{Page: 1, Limit: 10}
	rows, _, err := repo.List(context.Background(), scope.Unrestricted(), pr)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, caps.Missing("stations", "station_type"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStationsListPropagatesUnrelatedErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStationsRepo(db, schema.NewCapabilities())

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(`select count(*) from stations`)).
		WillReturnError(boom)

	_, _, err := repo.List(context.Background(), scope.Unrestricted(), models.PageRequest{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, boom)
}

func TestStationsGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStationsRepo(db, schema.NewCapabilities())

	mock.ExpectQuery(`select\s+cs\.station_id`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(stationColumns))

	row, err := repo.Get(context.Background(), scope.Unrestricted(), 99)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestStationsCreateDropsMissingColumns(t *testing.T) {
	db, mock := newMockDB(t)
	caps := schema.NewCapabilities()
	caps.Absorb(&pgconn.PgError{Code: "42703", Message: `column "latitude" does not exist`}, "stations")
	repo := NewStationsRepo(db, caps)

	// latitude is known missing, so the insert carries every other column.
	mock.ExpectQuery(regexp.QuoteMeta(`insert into stations (name, address, status, charge_point_count, owner_id, station_type, longitude)`)).
		WillReturnRows(sqlmock.NewRows([]string{"station_id"}).AddRow(int64(5)))

	id, err := repo.Create(context.Background(), models.Station{Name: "Plaza", Address: "1 Main St", Status: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationHelpers(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}
