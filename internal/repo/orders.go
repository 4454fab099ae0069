package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"evdash/internal/models"
	"evdash/internal/scope"
)

type OrdersRepo struct {
	db *sqlx.DB
}

func NewOrdersRepo(db *sqlx.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

// OrderPatch carries the editable order fields; nil means leave as is.
type OrderPatch struct {
	Amount        *float64 `json:"amount"`
	BalanceBefore *float64 `json:"balanceBefore"`
	BalanceAfter  *float64 `json:"balanceAfter"`
	MeterValue    *float64 `json:"meterValue"`
	StopMethod    *string  `json:"stopMethod"`
}

const orderFrom = ` from orders o
	join users u on o.user_id = u.user_id
	left join sessions s on o.session_id = s.session_id`

func (r *OrdersRepo) List(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.OrderRow, int, error) {
	var p predicates
	p.scope(sc, "u.owner_id")
	p.search(pr.Search,
		"cast(o.order_id as text)", "cast(o.session_id as text)", "u.full_name")
	p.between("o.created_at", pr.DateFrom, pr.DateTo)

	var total int
	if err := r.db.QueryRowContext(ctx, bind(`select count(*)`+orderFrom+p.clause()), p.values()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `select o.order_id, o.user_id, o.session_id, o.amount,
			o.balance_before, o.balance_after, o.meter_value, o.stop_method, o.created_at,
			case when s.meter_start is null or s.meter_stop is null then null
				else greatest(s.meter_stop - s.meter_start, 0) end` +
		orderFrom + p.clause() + ` order by o.created_at desc limit ? offset ?`
	args := append(append([]any{}, p.values()...), pr.Limit, pr.Offset())

	rows, err := r.db.QueryContext(ctx, bind(q), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.OrderRow{}
	for rows.Next() {
		var row models.OrderRow
		if err := rows.Scan(
			&row.OrderID, &row.UserID, &row.SessionID, &row.Amount,
			&row.BalanceBefore, &row.BalanceAfter, &row.MeterValue, &row.StopMethod, &row.CreatedAt,
			&row.Energy,
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

// Exists reports whether the order belongs to a user within the caller's
// scope.
func (r *OrdersRepo) Exists(ctx context.Context, sc scope.Scope, id int64) (bool, error) {
	var p predicates
	p.add("o.order_id = ?", id)
	p.scope(sc, "u.owner_id")

	q := `select exists (
		select 1 from orders o
		join users u on o.user_id = u.user_id` + p.clause() + `)`
	var ok bool
	err := r.db.QueryRowContext(ctx, bind(q), p.values()...).Scan(&ok)
	return ok, err
}

func (r *OrdersRepo) Update(ctx context.Context, id int64, patch OrderPatch) error {
	sets := []string{}
	args := []any{}
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.BalanceBefore != nil {
		sets = append(sets, "balance_before = ?")
		args = append(args, *patch.BalanceBefore)
	}
	if patch.BalanceAfter != nil {
		sets = append(sets, "balance_after = ?")
		args = append(args, *patch.BalanceAfter)
	}
	if patch.MeterValue != nil {
		sets = append(sets, "meter_value = ?")
		args = append(args, *patch.MeterValue)
	}
	if patch.StopMethod != nil {
		sets = append(sets, "stop_method = ?")
		args = append(args, *patch.StopMethod)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx, bind(`update orders set `+joinCols(sets)+` where order_id = ?`), args...)
	return err
}

func (r *OrdersRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, bind(`delete from orders where order_id = ?`), id)
	return err
}

// DeleteBySession removes the orders tied to a session before the session
// itself is deleted.
func (r *OrdersRepo) DeleteBySession(ctx context.Context, sessionID int64) error {
	_, err := r.db.ExecContext(ctx, bind(`delete from orders where session_id = ?`), sessionID)
	return err
}
