package domain

import "time"

// AssignmentHistory is an immutable audit record of one assignment,
// reassignment, or approval action on a ticket. Entries are append-only and
// never deduplicated: assigning a ticket to its current assignee still
// produces a new entry.
type AssignmentHistory struct {
	ID         string
	TicketID   string
	AssignedBy string
	AssignedTo string
	Notes      *string
	CreatedAt  time.Time
}
