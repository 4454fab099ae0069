package db

import (
	"context"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Connect opens a pooled connection through the pgx stdlib driver. The
// database/sql interface keeps store errors (*pgconn.PgError) inspectable
// while letting the repos share one query surface.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	d, err := sqlx.ConnectContext(ctx, "pgx", url)
	if err != nil {
		return nil, err
	}
	d.SetMaxOpenConns(10)
	d.SetMaxIdleConns(5)
	d.SetConnMaxIdleTime(5 * time.Minute)
	return d, nil
}
