package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"evdash/internal/models"
	"evdash/internal/schema"
	"evdash/internal/scope"
)

type StationsRepo struct {
	db   *sqlx.DB
	caps *schema.Capabilities
}

func NewStationsRepo(db *sqlx.DB, caps *schema.Capabilities) *StationsRepo {
	return &StationsRepo{db: db, caps: caps}
}

// Select expressions for the optional columns. The reduced variant keeps the
// same shape so scanning is uniform; omitted fields get the drift defaults.
func (r *StationsRepo) typeExpr() string {
	if r.caps.Missing("stations", "station_type") {
		return "1"
	}
	return "coalesce(cs.station_type, 1)"
}

func (r *StationsRepo) latExpr() string {
	if r.caps.Missing("stations", "latitude") {
		return "null::float8"
	}
	return "cs.latitude"
}

func (r *StationsRepo) longExpr() string {
	if r.caps.Missing("stations", "longitude") {
		return "null::float8"
	}
	return "cs.longitude"
}

var stationSortKeys = map[string]string{
	"name":      "cs.name",
	"status":    "cs.status",
	"createdAt": "cs.created_at",
}

func (r *StationsRepo) List(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.StationRow, int, error) {
	var p predicates
	p.scope(sc, "cs.owner_id")
	p.search(pr.Search, "cs.name", "cs.address", "o.name")
	p.between("cs.created_at", pr.DateFrom, pr.DateTo)

	const fromClause = ` from stations cs left join owners o on cs.owner_id = o.owner_id`

	var total int
	if err := r.db.QueryRowContext(ctx, bind(`select count(*)`+fromClause+p.clause()), p.values()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "cs.created_at desc"
	if col, ok := stationSortKeys[pr.SortKey]; ok {
		order = col + sortDir(pr.SortDesc)
	}

	for {
		q := `select
			cs.station_id, cs.name, cs.address, cs.status, ` +
			r.typeExpr() + `, ` + r.latExpr() + `, ` + r.longExpr() + `,
			cs.charge_point_count, cs.owner_id, cs.created_at,
			coalesce(o.name, 'N/A'),
			(select count(*) from sessions t
			   join charge_points cp on t.charge_point_id = cp.charge_point_id
			 where cp.station_id = cs.station_id and t.stopped_at is null)` +
			fromClause + p.clause() +
			` order by ` + order + ` limit ? offset ?`
		args := append(append([]any{}, p.values()...), pr.Limit, pr.Offset())

		rows, err := r.db.QueryContext(ctx, bind(q), args...)
		if err != nil {
			if r.caps.Absorb(err, "stations") {
				continue
			}
			return nil, 0, err
		}
		out, err := scanStationRows(rows)
		if err != nil {
			return nil, 0, err
		}
		return out, total, nil
	}
}

func scanStationRows(rows *sql.Rows) ([]models.StationRow, error) {
	defer rows.Close()
	out := []models.StationRow{}
	for rows.Next() {
		var s models.StationRow
		if err := rows.Scan(
			&s.StationID, &s.Name, &s.Address, &s.Status,
			&s.StationType, &s.Latitude, &s.Longitude,
			&s.ChargePointCount, &s.OwnerID, &s.CreatedAt,
			&s.OwnerName, &s.ActiveSessions,
		); err != nil {
			return nil, err
		}
		s.Type = models.StationTypeLabel(s.StationType)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StationsRepo) Get(ctx context.Context, sc scope.Scope, id int64) (*models.StationRow, error) {
	var p predicates
	p.add("cs.station_id = ?", id)
	p.scope(sc, "cs.owner_id")

	for {
		q := `select
			cs.station_id, cs.name, cs.address, cs.status, ` +
			r.typeExpr() + `, ` + r.latExpr() + `, ` + r.longExpr() + `,
			cs.charge_point_count, cs.owner_id, cs.created_at,
			coalesce(o.name, 'N/A'),
			(select count(*) from sessions t
			   join charge_points cp on t.charge_point_id = cp.charge_point_id
			 where cp.station_id = cs.station_id and t.stopped_at is null)
			from stations cs left join owners o on cs.owner_id = o.owner_id` +
			p.clause()

		var s models.StationRow
		err := r.db.QueryRowContext(ctx, bind(q), p.values()...).Scan(
			&s.StationID, &s.Name, &s.Address, &s.Status,
			&s.StationType, &s.Latitude, &s.Longitude,
			&s.ChargePointCount, &s.OwnerID, &s.CreatedAt,
			&s.OwnerName, &s.ActiveSessions,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			if r.caps.Absorb(err, "stations") {
				continue
			}
			return nil, err
		}
		s.Type = models.StationTypeLabel(s.StationType)
		return &s, nil
	}
}

func (r *StationsRepo) Create(ctx context.Context, st models.Station) (int64, error) {
	for {
		cols := []string{"name", "address", "status", "charge_point_count", "owner_id"}
		args := []any{st.Name, st.Address, st.Status, 0, st.OwnerID}
		if !r.caps.Missing("stations", "station_type") {
			cols = append(cols, "station_type")
			args = append(args, st.StationType)
		}
		if !r.caps.Missing("stations", "latitude") {
			cols = append(cols, "latitude")
			args = append(args, st.Latitude)
		}
		if !r.caps.Missing("stations", "longitude") {
			cols = append(cols, "longitude")
			args = append(args, st.Longitude)
		}

		q := `insert into stations (` + joinCols(cols) + `) values (` + placeholders(len(cols)) + `) returning station_id`
		var id int64
		err := r.db.QueryRowContext(ctx, bind(q), args...).Scan(&id)
		if err != nil {
			if r.caps.Absorb(err, "stations") {
				continue
			}
			return 0, err
		}
		return id, nil
	}
}

func (r *StationsRepo) Update(ctx context.Context, sc scope.Scope, st models.Station) error {
	for {
		sets := []string{"name = ?", "address = ?", "status = ?", "owner_id = ?"}
		args := []any{st.Name, st.Address, st.Status, st.OwnerID}
		if !r.caps.Missing("stations", "station_type") {
			sets = append(sets, "station_type = ?")
			args = append(args, st.StationType)
		}
		if !r.caps.Missing("stations", "latitude") {
			sets = append(sets, "latitude = ?")
			args = append(args, st.Latitude)
		}
		if !r.caps.Missing("stations", "longitude") {
			sets = append(sets, "longitude = ?")
			args = append(args, st.Longitude)
		}

		var p predicates
		p.add("station_id = ?", st.StationID)
		p.scope(sc, "owner_id")

		q := `update stations set ` + joinCols(sets) + p.clause()
		_, err := r.db.ExecContext(ctx, bind(q), append(args, p.values()...)...)
		if err != nil {
			if r.caps.Absorb(err, "stations") {
				continue
			}
			return err
		}
		return nil
	}
}

func (r *StationsRepo) Delete(ctx context.Context, sc scope.Scope, id int64) error {
	var p predicates
	p.add("station_id = ?", id)
	p.scope(sc, "owner_id")
	_, err := r.db.ExecContext(ctx, bind(`delete from stations`+p.clause()), p.values()...)
	return err
}

// RecomputeChargePointCount reestablishes the cached count from the live
// rows. The cache is never incremented in place.
func (r *StationsRepo) RecomputeChargePointCount(ctx context.Context, stationID int64) error {
	_, err := r.db.ExecContext(ctx, bind(`
		update stations
		set charge_point_count = (select count(*) from charge_points where station_id = ?)
		where station_id = ?`), stationID, stationID)
	return err
}
