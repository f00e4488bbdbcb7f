package services

import "bbshop/internal/models"

// Caller identifies the authenticated user invoking a service operation.
// It is built from token claims that the HTTP layer has already verified;
// services trust it as-is and only apply authorization rules.
type Caller struct {
	ID   string
	Role models.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
