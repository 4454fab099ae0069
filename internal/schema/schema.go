// Package schema lets the dashboard run against a store whose optional
// columns have not been migrated in yet. A query is first attempted in full;
// an undefined-column failure on an allow-listed column is memoized and the
// caller rebuilds a reduced statement. Any other failure propagates.
package schema

import (
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

// undefined_column
const pgUndefinedColumn = "42703"

// optional is the allow-list of columns later migrations add. Reads fill the
// omitted fields with defaults (type public, geolocation absent, protocol
// version absent, active true); writes drop them from the statement.
var optional = map[string]struct{}{
	"stations.station_type":      {},
	"stations.latitude":          {},
	"stations.longitude":         {},
	"charge_points.name":         {},
	"charge_points.ocpp_version": {},
	"charge_points.is_active":    {},
}

// Optional reports whether table.column is on the allow-list.
func Optional(table, column string) bool {
	_, ok := optional[table+"."+column]
	return ok
}

// MissingColumn extracts the column name from an undefined-column store
// error. It handles both the bare and the alias-qualified message forms.
func MissingColumn(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUndefinedColumn {
		return "", false
	}
	msg := pgErr.Message
	i := strings.Index(msg, "column ")
	if i < 0 {
		return "", false
	}
	col := msg[i+len("column "):]
	if j := strings.Index(col, " of relation"); j >= 0 {
		col = col[:j]
	}
	if j := strings.Index(col, " does not exist"); j >= 0 {
		col = col[:j]
	}
	col = strings.Trim(col, `" `)
	if j := strings.LastIndex(col, "."); j >= 0 {
		col = col[j+1:]
	}
	if col == "" {
		return "", false
	}
	return col, true
}

// Capabilities memoizes which optional columns a deployment is missing, so
// the reduced statement is built up front after the first failure instead of
// re-probing per request.
type Capabilities struct {
	mu      sync.RWMutex
	missing map[string]struct{}
}

func NewCapabilities() *Capabilities {
	return &Capabilities{missing: map[string]struct{}{}}
}

func (c *Capabilities) Missing(table, column string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.missing[table+"."+column]
	return ok
}

func (c *Capabilities) markMissing(table, column string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.missing[table+"."+column] = struct{}{}
}

// Absorb inspects err; if it is an undefined-column failure on one of
// table's allow-listed optional columns it records the absence and returns
// true, telling the caller to rebuild and retry. Unrelated errors return
// false and must propagate unchanged.
func (c *Capabilities) Absorb(err error, table string) bool {
	col, ok := MissingColumn(err)
	if !ok || !Optional(table, col) {
		return false
	}
	if c.Missing(table, col) {
		// Already known missing: the retried statement failed for the
		// same column, so something else is wrong. Do not loop.
		return false
	}
	c.markMissing(table, col)
	return true
}
