package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User is the domain model for principals who authenticate against the service.
// Every user references exactly one role; the effective permission set is the
// referenced role's permission set at evaluation time.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Contact      *string
	Status       UserStatus
	RoleID       string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
