package auth

import "github.com/google/uuid"

// Principal is the authenticated identity attached to a request after the
// bearer token has been resolved to an active user.
type Principal struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	IsActive    bool
	IsSuperuser bool
}
