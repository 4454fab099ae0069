package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evdash/internal/apperr"
	"evdash/internal/repo"
	"evdash/internal/scope"
)

func newLedgerService(t *testing.T) (*LedgerService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewLedgerService(repo.NewSessionsRepo(db), repo.NewOrdersRepo(db), zap.NewNop()), mock
}

func expectSessionExists(mock sqlmock.Sqlmock, id int64, found bool) {
	mock.ExpectQuery(regexp.QuoteMeta(`select 1 from sessions s`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(found))
}

func TestDeleteSessionRemovesOrdersFirst(t *testing.T) {
	svc, mock := newLedgerService(t)

	expectSessionExists(mock, 11, true)
	mock.ExpectExec(regexp.QuoteMeta(`delete from orders where session_id`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`delete from sessions where session_id`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.DeleteSession(context.Background(), scope.Unrestricted(), 11)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSessionOutOfScope(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`select 1 from sessions s`)).
		WithArgs(int64(11), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := svc.DeleteSession(context.Background(), scope.ForOwner(4), 11)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateSessionEmptyPatchIsNoOp(t *testing.T) {
	svc, mock := newLedgerService(t)

	expectSessionExists(mock, 11, true)
	// no exec expected: nothing to update

	err := svc.UpdateSession(context.Background(), scope.Unrestricted(), 11, repo.SessionPatch{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`select 1 from orders o`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	amount := 9.5
	err := svc.UpdateOrder(context.Background(), scope.Unrestricted(), 5, repo.OrderPatch{Amount: &amount})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteOrder(t *testing.T) {
	svc, mock := newLedgerService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`select 1 from orders o`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`delete from orders where order_id`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.DeleteOrder(context.Background(), scope.Unrestricted(), 5)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
