package types

import (
	"context"

	"github.com/gofrs/uuid"
)

// HTTP Header Constants
const (
	HeaderUID           = "uid"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "
)

// Common Values
const (
	UserRole      = "user"
	AdminRole     = "admin"
	ModeratorRole = "moderator"
)

// UserCtxName is the fiber Locals key holding the authenticated UserContext
const UserCtxName = "user"

// UserContext is the authenticated console operator
type UserContext struct {
	UserID      uuid.UUID `json:"uid"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	SystemRole  string    `json:"role"`
	CreatedDate int64     `json:"createdDate"`
}

// IsStaff reports whether the operator may use the moderation console
func (u UserContext) IsStaff() bool {
	return u.SystemRole == AdminRole || u.SystemRole == ModeratorRole
}

type actorKey struct{}

// WithActorID records who triggered a change so repositories can attribute history rows
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorIDFromContext returns the actor id or "system" when none was recorded
func ActorIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(actorKey{}).(string); ok && id != "" {
		return id
	}
	return "system"
}
