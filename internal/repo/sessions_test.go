package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evdash/internal/scope"
)

var sessionColumns = []string{
	"session_id", "uid", "charge_point_id", "start_tag",
	"started_at", "stopped_at", "meter_start", "meter_stop",
	"station_name", "cost", "user_name",
}

func TestSessionRowsDeriveStatusAndConnection(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionsRepo(db)

	started := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	stopped := started.Add(45 * time.Minute)

	rows := sqlmock.NewRows(sessionColumns).
		// completed session: connector responded, both meters present
		AddRow(int64(1), "uid-1", "CP-001", "TAG-1",
			started, stopped, 100.0, 118.5, "Plaza", 42.0, "Alice").
		// still running
		AddRow(int64(2), "uid-2", "CP-001", "TAG-2",
			started, nil, 200.0, nil, "Plaza", 0.0, "").
		// connector never responded: no start time recorded
		AddRow(int64(3), "uid-3", "CP-002", "TAG-3",
			nil, nil, nil, nil, "Harbor", 0.0, "")

	mock.ExpectQuery(`select s\.session_id`).WillReturnRows(rows)

	out, err := repo.Recent(context.Background(), scope.Unrestricted(), 5)
	require.NoError(t, err)
	require.Len(t, out, 3)

	completed := out[0]
	assert.Equal(t, "Completed", completed.Status)
	assert.True(t, completed.Connected)
	assert.Equal(t, 18.5, completed.Energy)
	assert.Equal(t, 42.0, completed.Cost)

	running := out[1]
	assert.Equal(t, "Active", running.Status)
	assert.True(t, running.Connected)
	assert.Zero(t, running.Energy)

	failed := out[2]
	assert.Nil(t, failed.StartedAt)
	assert.False(t, failed.Connected)
	assert.Equal(t, "Active", failed.Status)
}
