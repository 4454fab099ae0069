// Package scope derives the row-visibility predicate every read and write
// applies: administrators see the whole fleet, owner tenants see their own
// rows only, and anything malformed matches nothing.
package scope

import "evdash/internal/auth"

type kind int

const (
	kindNone kind = iota
	kindAll
	kindOwner
)

type Scope struct {
	k       kind
	ownerID int64
}

func Unrestricted() Scope          { return Scope{k: kindAll} }
func ForOwner(ownerID int64) Scope { return Scope{k: kindOwner, ownerID: ownerID} }

// None matches no rows. It is the fail-closed result for identities that
// carry an owner role without an owner id, or an unknown role.
func None() Scope { return Scope{k: kindNone} }

func Resolve(id auth.Identity) Scope {
	switch {
	case id.OwnerID != nil:
		return ForOwner(*id.OwnerID)
	case id.Role == auth.RoleAdmin:
		return Unrestricted()
	default:
		return None()
	}
}

// Restricted reports whether the caller is anything other than an
// unrestricted administrator. Admin-only mutations gate on this.
func (s Scope) Restricted() bool { return s.k != kindAll }

func (s Scope) OwnerID() (int64, bool) {
	if s.k == kindOwner {
		return s.ownerID, true
	}
	return 0, false
}

// Predicate returns the SQL condition that enforces this scope against the
// given owner column, with ? placeholders. ok is false for the unrestricted
// scope, which needs no condition.
func (s Scope) Predicate(col string) (expr string, args []any, ok bool) {
	switch s.k {
	case kindAll:
		return "", nil, false
	case kindOwner:
		return col + " = ?", []any{s.ownerID}, true
	default:
		return "1 = 0", nil, true
	}
}
