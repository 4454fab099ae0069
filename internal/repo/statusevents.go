package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"evdash/internal/models"
)

type StatusEventsRepo struct {
	db *sqlx.DB
}

func NewStatusEventsRepo(db *sqlx.DB) *StatusEventsRepo {
	return &StatusEventsRepo{db: db}
}

// Append records one status notification for a charge point.
func (r *StatusEventsRepo) Append(ctx context.Context, ev models.StatusEvent) error {
	_, err := r.db.ExecContext(ctx, bind(
		`insert into status_events (charge_point_id, status, recorded_at) values (?, ?, ?)`),
		ev.ChargePointID, ev.Status, ev.RecordedAt)
	return err
}

// DeleteByChargePoint removes the event history before its charge point is
// deleted, keeping the foreign key satisfied.
func (r *StatusEventsRepo) DeleteByChargePoint(ctx context.Context, chargePointID string) error {
	_, err := r.db.ExecContext(ctx, bind(
		`delete from status_events where charge_point_id = ?`), chargePointID)
	return err
}
