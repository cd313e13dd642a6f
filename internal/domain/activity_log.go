package domain

import "time"

// ActivityLog is an append-only audit record of a user action.
type ActivityLog struct {
	ID        string
	UserID    string
	Action    string
	Details   string
	IPAddress string
	CreatedAt time.Time
}
