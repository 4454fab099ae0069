package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"evdash/internal/models"
	"evdash/internal/scope"
)

type OwnersRepo struct {
	db *sqlx.DB
}

func NewOwnersRepo(db *sqlx.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

const ownerSelect = `select o.owner_id, o.name, o.address, o.phone, o.email, o.status, o.created_at,
		(select count(*) from stations cs where cs.owner_id = o.owner_id),
		(select a.username from accounts a where a.owner_id = o.owner_id order by a.account_id asc limit 1)
	from owners o`

func (r *OwnersRepo) List(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.OwnerRow, int, error) {
	var p predicates
	p.scope(sc, "o.owner_id")
	p.search(pr.Search, "o.name", "o.email", "o.phone")

	var total int
	if err := r.db.QueryRowContext(ctx, bind(`select count(*) from owners o`+p.clause()), p.values()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := ownerSelect + p.clause() + ` order by o.name asc limit ? offset ?`
	args := append(append([]any{}, p.values()...), pr.Limit, pr.Offset())
	rows, err := r.db.QueryContext(ctx, bind(q), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.OwnerRow{}
	for rows.Next() {
		var row models.OwnerRow
		if err := rows.Scan(
			&row.OwnerID, &row.Name, &row.Address, &row.Phone, &row.Email, &row.Status, &row.CreatedAt,
			&row.StationCount, &row.LoginUsername,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *OwnersRepo) Get(ctx context.Context, id int64) (*models.Owner, error) {
	var o models.Owner
	err := r.db.QueryRowContext(ctx, bind(
		`select owner_id, name, address, phone, email, status, created_at from owners where owner_id = ?`), id).
		Scan(&o.OwnerID, &o.Name, &o.Address, &o.Phone, &o.Email, &o.Status, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OwnersRepo) Create(ctx context.Context, o models.Owner) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, bind(
		`insert into owners (name, address, phone, email, status) values (?, ?, ?, ?, ?) returning owner_id`),
		o.Name, o.Address, o.Phone, o.Email, o.Status).Scan(&id)
	return id, err
}

func (r *OwnersRepo) Update(ctx context.Context, o models.Owner) error {
	_, err := r.db.ExecContext(ctx, bind(
		`update owners set name = ?, address = ?, phone = ?, email = ?, status = ? where owner_id = ?`),
		o.Name, o.Address, o.Phone, o.Email, o.Status, o.OwnerID)
	return err
}

func (r *OwnersRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, bind(`delete from owners where owner_id = ?`), id)
	return err
}

func (r *OwnersRepo) StationCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, bind(`select count(*) from stations where owner_id = ?`), id).Scan(&n)
	return n, err
}

func (r *OwnersRepo) AccountCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, bind(`select count(*) from accounts where owner_id = ?`), id).Scan(&n)
	return n, err
}
