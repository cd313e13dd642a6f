package domain

import "time"

// Role groups a named set of permission codes. Roles are managed by
// administrators; a role cannot be deleted while any user references it.
type Role struct {
	ID          string
	Name        string
	Description *string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
