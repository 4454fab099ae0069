package repo

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"evdash/internal/scope"
)

// predicates accumulates where-clause conditions with ? placeholders so
// scope, search and date filters compose without string concatenation. The
// final statement is rebound to $n form in one place.
type predicates struct {
	exprs []string
	args  []any
}

func (p *predicates) add(expr string, args ...any) {
	p.exprs = append(p.exprs, expr)
	p.args = append(p.args, args...)
}

// scope applies the caller's visibility predicate against the given owner
// column. It must be added before any other filter.
func (p *predicates) scope(sc scope.Scope, col string) {
	if expr, args, ok := sc.Predicate(col); ok {
		p.add(expr, args...)
	}
}

// search adds a case-insensitive substring match over the given columns.
// Non-text columns must be cast in the caller's column expression.
func (p *predicates) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}
	pattern := "%" + term + "%"
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ilike ?"
		p.args = append(p.args, pattern)
	}
	p.exprs = append(p.exprs, "("+strings.Join(parts, " or ")+")")
}

// between adds half-open time bounds: col >= from and col < to.
func (p *predicates) between(col string, from, to *time.Time) {
	if from != nil {
		p.add(col+" >= ?", *from)
	}
	if to != nil {
		p.add(col+" < ?", *to)
	}
}

func (p *predicates) clause() string {
	if len(p.exprs) == 0 {
		return ""
	}
	return " where " + strings.Join(p.exprs, " and ")
}

func (p *predicates) values() []any { return p.args }

// bind rewrites ? placeholders to the $n form the pgx driver expects.
func bind(q string) string { return sqlx.Rebind(sqlx.DOLLAR, q) }

func joinCols(cols []string) string { return strings.Join(cols, ", ") }

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}

func sortDir(desc bool) string {
	if desc {
		return " desc"
	}
	return " asc"
}
