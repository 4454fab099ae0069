package auth

import "context"

// Role is the tenant class of a dashboard caller. It is resolved once at
// login time and carried as data; nothing downstream re-derives it.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleOwner Role = "Owner"
)

// Identity is the per-request caller identity built by the bearer middleware.
type Identity struct {
	AccountID    int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
	OwnerID      *int64 `json:"ownerId"`
	PermissionID int    `json:"permissionId"`
}

// ResolveRole maps an account to its tenant class: accounts bound to an
// owner are owner tenants, unbound accounts are platform administrators.
func ResolveRole(ownerID *int64) Role {
	if ownerID != nil {
		return RoleOwner
	}
	return RoleAdmin
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
