package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"evdash/internal/models"
	"evdash/internal/schema"
	"evdash/internal/scope"
	"evdash/internal/status"
)

type ChargePointsRepo struct {
	db   *sqlx.DB
	caps *schema.Capabilities
}

func NewChargePointsRepo(db *sqlx.DB, caps *schema.Capabilities) *ChargePointsRepo {
	return &ChargePointsRepo{db: db, caps: caps}
}

// latestStatus resolves the authoritative status event per charge point:
// newest timestamp first, greater event id on equal timestamps.
const latestStatus = ` left join lateral (
		select se.status, se.recorded_at
		from status_events se
		where se.charge_point_id = cp.charge_point_id
		order by se.recorded_at desc, se.event_id desc
		limit 1
	) st on true`

func (r *ChargePointsRepo) nameExpr() string {
	if r.caps.Missing("charge_points", "name") {
		return "null::text"
	}
	return "cp.name"
}

func (r *ChargePointsRepo) ocppExpr() string {
	if r.caps.Missing("charge_points", "ocpp_version") {
		return "null::text"
	}
	return "cp.ocpp_version"
}

func (r *ChargePointsRepo) activeExpr() string {
	if r.caps.Missing("charge_points", "is_active") {
		return "true"
	}
	return "coalesce(cp.is_active, true)"
}

func (r *ChargePointsRepo) selectList() string {
	return `cp.charge_point_id, ` + r.nameExpr() + `, cp.station_id, cp.model,
		cp.power_kw, cp.connector_type, cp.output_type, ` +
		r.ocppExpr() + `, ` + r.activeExpr() + `, cp.owner_id,
		cs.name, cs.address, coalesce(o.name, 'N/A'), st.status, st.recorded_at`
}

func scanChargePointRow(sc interface{ Scan(...any) error }, row *models.ChargePointRow) error {
	var rawState *string
	if err := sc.Scan(
		&row.ChargePointID, &row.Name, &row.StationID, &row.Model,
		&row.PowerKW, &row.ConnectorType, &row.OutputType,
		&row.OcppVersion, &row.IsActive, &row.OwnerID,
		&row.StationName, &row.StationAddress, &row.OwnerName,
		&rawState, &row.LastStatusAt,
	); err != nil {
		return err
	}
	row.State = status.NormalizePtr(rawState)
	return nil
}

const chargePointFrom = ` from charge_points cp
	join stations cs on cp.station_id = cs.station_id
	left join owners o on cs.owner_id = o.owner_id`

func (r *ChargePointsRepo) List(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.ChargePointRow, int, error) {
	for {
		var p predicates
		p.scope(sc, "cp.owner_id")
		searchCols := []string{"cp.charge_point_id", "cp.model", "cs.name"}
		if !r.caps.Missing("charge_points", "name") {
			searchCols = append(searchCols, "cp.name")
		}
		p.search(pr.Search, searchCols...)

		var total int
		if err := r.db.QueryRowContext(ctx, bind(`select count(*)`+chargePointFrom+p.clause()), p.values()...).Scan(&total); err != nil {
			if r.caps.Absorb(err, "charge_points") {
				continue
			}
			return nil, 0, err
		}

		q := `select ` + r.selectList() + chargePointFrom + latestStatus + p.clause() +
			` order by cs.name asc, cp.charge_point_id asc limit ? offset ?`
		args := append(append([]any{}, p.values()...), pr.Limit, pr.Offset())

		rows, err := r.db.QueryContext(ctx, bind(q), args...)
		if err != nil {
			if r.caps.Absorb(err, "charge_points") {
				continue
			}
			return nil, 0, err
		}
		out, err := collectChargePointRows(rows)
		if err != nil {
			return nil, 0, err
		}
		return out, total, nil
	}
}

// ListByStation returns the scoped charge points nested under one station.
func (r *ChargePointsRepo) ListByStation(ctx context.Context, sc scope.Scope, stationID int64) ([]models.ChargePointRow, error) {
	for {
		var p predicates
		p.add("cp.station_id = ?", stationID)
		p.scope(sc, "cp.owner_id")

		q := `select ` + r.selectList() + chargePointFrom + latestStatus + p.clause() +
			` order by cp.charge_point_id asc`
		rows, err := r.db.QueryContext(ctx, bind(q), p.values()...)
		if err != nil {
			if r.caps.Absorb(err, "charge_points") {
				continue
			}
			return nil, err
		}
		return collectChargePointRows(rows)
	}
}

// Recent returns the most recently heard-from charge points, charging ones
// first.
func (r *ChargePointsRepo) Recent(ctx context.Context, sc scope.Scope, limit int) ([]models.ChargePointRow, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	for {
		var p predicates
		p.scope(sc, "cp.owner_id")

		q := `select ` + r.selectList() + chargePointFrom + latestStatus + p.clause() +
			` order by case when st.status = 'Charging' then 0 else 1 end,
				st.recorded_at desc nulls last, cp.charge_point_id asc
			limit ?`
		args := append(append([]any{}, p.values()...), limit)

		rows, err := r.db.QueryContext(ctx, bind(q), args...)
		if err != nil {
			if r.caps.Absorb(err, "charge_points") {
				continue
			}
			return nil, err
		}
		return collectChargePointRows(rows)
	}
}

func collectChargePointRows(rows *sql.Rows) ([]models.ChargePointRow, error) {
	defer rows.Close()
	out := []models.ChargePointRow{}
	for rows.Next() {
		var row models.ChargePointRow
		if err := scanChargePointRow(rows, &row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ChargePointsRepo) Get(ctx context.Context, sc scope.Scope, id string) (*models.ChargePointRow, error) {
	for {
		var p predicates
		p.add("cp.charge_point_id = ?", id)
		p.scope(sc, "cp.owner_id")

		q := `select ` + r.selectList() + chargePointFrom + latestStatus + p.clause()
		var row models.ChargePointRow
		err := scanChargePointRow(r.db.QueryRowContext(ctx, bind(q), p.values()...), &row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			if r.caps.Absorb(err, "charge_points") {
				continue
			}
			return nil, err
		}
		return &row, nil
	}
}

func (r *ChargePointsRepo) Create(ctx context.Context, cp models.ChargePoint) error {
	for {
		cols := []string{"charge_point_id", "station_id", "model", "power_kw", "connector_type", "output_type", "owner_id"}
		args := []any{cp.ChargePointID, cp.StationID, cp.Model, cp.PowerKW, cp.ConnectorType, cp.OutputType, cp.OwnerID}
		if !r.caps.Missing("charge_points", "name") {
			cols = append(cols, "name")
			args = append(args, cp.Name)
		}
		if !r.caps.Missing("charge_points", "ocpp_version") {
			cols = append(cols, "ocpp_version")
			args = append(args, cp.OcppVersion)
		}
		if !r.caps.Missing("charge_points", "is_active") {
			cols = append(cols, "is_active")
			args = append(args, cp.IsActive)
		}

		q := `insert into charge_points (` + joinCols(cols) + `) values (` + placeholders(len(cols)) + `)`
		if _, err := r.db.ExecContext(ctx, bind(q), args...); err != nil {
			if r.caps.Absorb(err, "charge_points") {
				continue
			}
			return err
		}
		return nil
	}
}

// Update rewrites the descriptor columns. The denormalized owner link is only
// overwritten when a new owner is supplied, mirroring the station otherwise.
func (r *ChargePointsRepo) Update(ctx context.Context, sc scope.Scope, cp models.ChargePoint, newOwner *int64) error {
	for {
		sets := []string{"station_id = ?", "model = ?", "power_kw = ?", "connector_type = ?", "output_type = ?", "owner_id = coalesce(?, owner_id)"}
		args := []any{cp.StationID, cp.Model, cp.PowerKW, cp.ConnectorType, cp.OutputType, newOwner}
		if !r.caps.Missing("charge_points", "name") {
			sets = append(sets, "name = ?")
			args = append(args, cp.Name)
		}
		if !r.caps.Missing("charge_points", "ocpp_version") {
			sets = append(sets, "ocpp_version = ?")
			args = append(args, cp.OcppVersion)
		}
		if !r.caps.Missing("charge_points", "is_active") {
			sets = append(sets, "is_active = ?")
			args = append(args, cp.IsActive)
		}

		var p predicates
		p.add("charge_point_id = ?", cp.ChargePointID)
		p.scope(sc, "owner_id")

		q := `update charge_points set ` + joinCols(sets) + p.clause()
		if _, err := r.db.ExecContext(ctx, bind(q), append(args, p.values()...)...); err != nil {
			if r.caps.Absorb(err, "charge_points") {
				continue
			}
			return err
		}
		return nil
	}
}

func (r *ChargePointsRepo) Delete(ctx context.Context, sc scope.Scope, id string) error {
	var p predicates
	p.add("charge_point_id = ?", id)
	p.scope(sc, "owner_id")
	_, err := r.db.ExecContext(ctx, bind(`delete from charge_points`+p.clause()), p.values()...)
	return err
}
