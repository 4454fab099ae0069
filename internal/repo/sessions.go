package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"evdash/internal/models"
	"evdash/internal/scope"
)

type SessionsRepo struct {
	db *sqlx.DB
}

func NewSessionsRepo(db *sqlx.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

// SessionPatch carries the editable session fields; nil means leave as is.
type SessionPatch struct {
	StartTag   *string    `json:"startTag"`
	StartedAt  *time.Time `json:"startedAt"`
	StoppedAt  *time.Time `json:"stoppedAt"`
	MeterStart *float64   `json:"meterStart"`
	MeterStop  *float64   `json:"meterStop"`
}

const sessionSelect = `select s.session_id, s.uid, s.charge_point_id, s.start_tag,
		s.started_at, s.stopped_at, s.meter_start, s.meter_stop,
		coalesce(cs.name, 'N/A'), coalesce(ord.amount, 0), coalesce(u.full_name, '')
	from sessions s
	join charge_points cp on s.charge_point_id = cp.charge_point_id
	left join stations cs on cp.station_id = cs.station_id
	left join lateral (
		select o.amount, o.user_id
		from orders o
		where o.session_id = s.session_id
		order by o.order_id desc
		limit 1
	) ord on true
	left join users u on ord.user_id = u.user_id`

const sessionCount = `select count(*)
	from sessions s
	join charge_points cp on s.charge_point_id = cp.charge_point_id
	left join stations cs on cp.station_id = cs.station_id`

func scanSessionRows(rows *sql.Rows) ([]models.SessionRow, error) {
	defer rows.Close()
	out := []models.SessionRow{}
	for rows.Next() {
		var row models.SessionRow
		if err := rows.Scan(
			&row.SessionID, &row.UID, &row.ChargePointID, &row.StartTag,
			&row.StartedAt, &row.StoppedAt, &row.MeterStart, &row.MeterStop,
			&row.StationName, &row.Cost, &row.UserName,
		); err != nil {
			return nil, err
		}
		row.Energy = row.EnergyUsed()
		// A session can be written before its connector ever responded; a
		// recorded start time is what marks the connection as established.
		row.Connected = row.StartedAt != nil
		if row.Active() {
			row.Status = "Active"
		} else {
			row.Status = "Completed"
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SessionsRepo) List(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.SessionRow, int, error) {
	var p predicates
	p.scope(sc, "cp.owner_id")
	p.search(pr.Search,
		"cast(s.session_id as text)", "s.uid", "s.charge_point_id", "s.start_tag", "cs.name")
	p.between("s.started_at", pr.DateFrom, pr.DateTo)

	var total int
	if err := r.db.QueryRowContext(ctx, bind(sessionCount+p.clause()), p.values()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := sessionSelect + p.clause() + ` order by s.started_at desc limit ? offset ?`
	args := append(append([]any{}, p.values()...), pr.Limit, pr.Offset())
	rows, err := r.db.QueryContext(ctx, bind(q), args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := scanSessionRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Recent returns the newest sessions for the dashboard ticker.
func (r *SessionsRepo) Recent(ctx context.Context, sc scope.Scope, limit int) ([]models.SessionRow, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	var p predicates
	p.scope(sc, "cp.owner_id")

	q := sessionSelect + p.clause() + ` order by s.started_at desc limit ?`
	args := append(append([]any{}, p.values()...), limit)
	rows, err := r.db.QueryContext(ctx, bind(q), args...)
	if err != nil {
		return nil, err
	}
	return scanSessionRows(rows)
}

// Exists reports whether the session is visible within the caller's scope.
func (r *SessionsRepo) Exists(ctx context.Context, sc scope.Scope, id int64) (bool, error) {
	var p predicates
	p.add("s.session_id = ?", id)
	p.scope(sc, "cp.owner_id")

	q := `select exists (
		select 1 from sessions s
		join charge_points cp on s.charge_point_id = cp.charge_point_id` + p.clause() + `)`
	var ok bool
	err := r.db.QueryRowContext(ctx, bind(q), p.values()...).Scan(&ok)
	return ok, err
}

func (r *SessionsRepo) Update(ctx context.Context, id int64, patch SessionPatch) error {
	sets := []string{}
	args := []any{}
	if patch.StartTag != nil {
		sets = append(sets, "start_tag = ?")
		args = append(args, *patch.StartTag)
	}
	if patch.StartedAt != nil {
		sets = append(sets, "started_at = ?")
		args = append(args, *patch.StartedAt)
	}
	if patch.StoppedAt != nil {
		sets = append(sets, "stopped_at = ?")
		args = append(args, *patch.StoppedAt)
	}
	if patch.MeterStart != nil {
		sets = append(sets, "meter_start = ?")
		args = append(args, *patch.MeterStart)
	}
	if patch.MeterStop != nil {
		sets = append(sets, "meter_stop = ?")
		args = append(args, *patch.MeterStop)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	q := `update sessions set ` + joinCols(sets) + ` where session_id = ?`
	_, err := r.db.ExecContext(ctx, bind(q), args...)
	return err
}

func (r *SessionsRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, bind(`delete from sessions where session_id = ?`), id)
	return err
}

// HasActiveByStation reports whether any charge point of the station has a
// running session. Deletes are refused while one exists.
func (r *SessionsRepo) HasActiveByStation(ctx context.Context, stationID int64) (bool, error) {
	q := `select exists (
		select 1 from sessions s
		join charge_points cp on s.charge_point_id = cp.charge_point_id
		where cp.station_id = ? and s.stopped_at is null)`
	var ok bool
	err := r.db.QueryRowContext(ctx, bind(q), stationID).Scan(&ok)
	return ok, err
}

func (r *SessionsRepo) HasActiveByChargePoint(ctx context.Context, chargePointID string) (bool, error) {
	q := `select exists (
		select 1 from sessions where charge_point_id = ? and stopped_at is null)`
	var ok bool
	err := r.db.QueryRowContext(ctx, bind(q), chargePointID).Scan(&ok)
	return ok, err
}
