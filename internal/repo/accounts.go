package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"evdash/internal/models"
)

type AccountsRepo struct {
	db *sqlx.DB
}

func NewAccountsRepo(db *sqlx.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

const accountCols = `account_id, name, username, password_hash, owner_id, permission_id, created_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.AccountID, &a.Name, &a.Username, &a.PasswordHash, &a.OwnerID, &a.PermissionID, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountsRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, bind(
		`select `+accountCols+` from accounts where username = ?`), username))
}

func (r *AccountsRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, bind(
		`select `+accountCols+` from accounts where account_id = ?`), id))
}

// FirstForOwner returns the oldest login account of an owner, if any.
func (r *AccountsRepo) FirstForOwner(ctx context.Context, ownerID int64) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, bind(
		`select `+accountCols+` from accounts where owner_id = ? order by account_id asc limit 1`), ownerID))
}

// CountUsernamesLike counts usernames starting with the given prefix, used to
// pick a free generated username.
func (r *AccountsRepo) CountUsernamesLike(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, bind(
		`select count(*) from accounts where username like ?`), prefix+"%").Scan(&n)
	return n, err
}

func (r *AccountsRepo) Create(ctx context.Context, a models.Account) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, bind(
		`insert into accounts (name, username, password_hash, owner_id, permission_id)
		values (?, ?, ?, ?, ?) returning account_id`),
		a.Name, a.Username, a.PasswordHash, a.OwnerID, a.PermissionID).Scan(&id)
	return id, err
}

func (r *AccountsRepo) UpdatePassword(ctx context.Context, accountID int64, hash string) error {
	_, err := r.db.ExecContext(ctx, bind(
		`update accounts set password_hash = ? where account_id = ?`), hash, accountID)
	return err
}
