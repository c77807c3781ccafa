package domain

import (
	"context"
	"time"
)

// Role defines what a staff user may do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// IsValid reports whether the role is known.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// User is a staff member who operates the lot.
type User struct {
	ID             string
	Username       string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type userContextKey struct{}

// ContextWithUser returns a child context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
