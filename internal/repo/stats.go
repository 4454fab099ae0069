package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"evdash/internal/scope"
)

// StatsRepo runs the aggregate queries behind the dashboard. Every method is
// scope-aware so an owner login only ever aggregates its own fleet.
type StatsRepo struct {
	db *sqlx.DB
}

func NewStatsRepo(db *sqlx.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) CountStations(ctx context.Context, sc scope.Scope, activeOnly bool) (int, error) {
	var p predicates
	p.scope(sc, "owner_id")
	if activeOnly {
		p.add("status = ?", 1)
	}
	var n int
	err := r.db.QueryRowContext(ctx, bind(`select count(*) from stations`+p.clause()), p.values()...).Scan(&n)
	return n, err
}

func (r *StatsRepo) CountChargePoints(ctx context.Context, sc scope.Scope) (int, error) {
	var p predicates
	p.scope(sc, "owner_id")
	var n int
	err := r.db.QueryRowContext(ctx, bind(`select count(*) from charge_points`+p.clause()), p.values()...).Scan(&n)
	return n, err
}

// States returns the latest recorded status per charge point. Charge points
// with no events at all do not appear; callers treat the gap as offline.
func (r *StatsRepo) States(ctx context.Context, sc scope.Scope) ([]string, error) {
	var p predicates
	p.scope(sc, "cp.owner_id")

	q := `select distinct on (se.charge_point_id) se.status
		from status_events se
		join charge_points cp on se.charge_point_id = cp.charge_point_id` +
		p.clause() + ` order by se.charge_point_id, se.recorded_at desc, se.event_id desc`
	rows, err := r.db.QueryContext(ctx, bind(q), p.values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountActiveSessions counts sessions still running that started within
// [from, to): a session left open from a previous day does not inflate
// today's figure.
func (r *StatsRepo) CountActiveSessions(ctx context.Context, sc scope.Scope, from, to *time.Time) (int, error) {
	var p predicates
	p.scope(sc, "cp.owner_id")
	p.add("s.stopped_at is null")
	p.between("s.started_at", from, to)

	q := `select count(*) from sessions s
		join charge_points cp on s.charge_point_id = cp.charge_point_id` + p.clause()
	var n int
	err := r.db.QueryRowContext(ctx, bind(q), p.values()...).Scan(&n)
	return n, err
}

func (r *StatsRepo) CountUsers(ctx context.Context, sc scope.Scope) (int, error) {
	var p predicates
	p.scope(sc, "owner_id")
	var n int
	err := r.db.QueryRowContext(ctx, bind(`select count(*) from users`+p.clause()), p.values()...).Scan(&n)
	return n, err
}

// SumEnergy totals meter deltas over [from, to); nil bounds mean all time.
// Sessions missing either reading contribute nothing.
func (r *StatsRepo) SumEnergy(ctx context.Context, sc scope.Scope, from, to *time.Time) (float64, error) {
	var p predicates
	p.scope(sc, "cp.owner_id")
	p.add("s.meter_start is not null")
	p.add("s.meter_stop is not null")
	p.between("s.started_at", from, to)

	q := `select coalesce(sum(greatest(s.meter_stop - s.meter_start, 0)), 0)
		from sessions s
		join charge_points cp on s.charge_point_id = cp.charge_point_id` + p.clause()
	var total float64
	err := r.db.QueryRowContext(ctx, bind(q), p.values()...).Scan(&total)
	return total, err
}

// SumRevenue totals positive order amounts over [from, to).
func (r *StatsRepo) SumRevenue(ctx context.Context, sc scope.Scope, from, to *time.Time) (float64, error) {
	var p predicates
	p.scope(sc, "u.owner_id")
	p.add("o.amount > 0")
	p.between("o.created_at", from, to)

	q := `select coalesce(sum(o.amount), 0)
		from orders o
		join users u on o.user_id = u.user_id` + p.clause()
	var total float64
	err := r.db.QueryRowContext(ctx, bind(q), p.values()...).Scan(&total)
	return total, err
}

// EnergyByHour buckets today's session energy by start hour. Hours without
// sessions are absent from the result.
func (r *StatsRepo) EnergyByHour(ctx context.Context, sc scope.Scope, from, to time.Time) (map[int]float64, error) {
	var p predicates
	p.scope(sc, "cp.owner_id")
	p.add("s.meter_start is not null")
	p.add("s.meter_stop is not null")
	p.between("s.started_at", &from, &to)

	q := `select extract(hour from s.started_at)::int,
			coalesce(sum(greatest(s.meter_stop - s.meter_start, 0)), 0)
		from sessions s
		join charge_points cp on s.charge_point_id = cp.charge_point_id` +
		p.clause() + ` group by 1`
	rows, err := r.db.QueryContext(ctx, bind(q), p.values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]float64{}
	for rows.Next() {
		var hour int
		var energy float64
		if err := rows.Scan(&hour, &energy); err != nil {
			return nil, err
		}
		out[hour] = energy
	}
	return out, rows.Err()
}

// RevenueByDay buckets order revenue by calendar day, keyed YYYY-MM-DD. Days
// without orders are absent from the result.
func (r *StatsRepo) RevenueByDay(ctx context.Context, sc scope.Scope, from, to time.Time) (map[string]float64, error) {
	var p predicates
	p.scope(sc, "u.owner_id")
	p.add("o.amount > 0")
	p.between("o.created_at", &from, &to)

	q := `select to_char(o.created_at, 'YYYY-MM-DD'), coalesce(sum(o.amount), 0)
		from orders o
		join users u on o.user_id = u.user_id` +
		p.clause() + ` group by 1`
	rows, err := r.db.QueryContext(ctx, bind(q), p.values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var day string
		var revenue float64
		if err := rows.Scan(&day, &revenue); err != nil {
			return nil, err
		}
		out[day] = revenue
	}
	return out, rows.Err()
}
