package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "OPEN"
	TicketStatusAssigned        TicketStatus = "ASSIGNED"
	TicketStatusInProgress      TicketStatus = "IN_PROGRESS"
	TicketStatusPendingApproval TicketStatus = "PENDING_APPROVAL"
	TicketStatusResolved        TicketStatus = "RESOLVED"
	TicketStatusClosed          TicketStatus = "CLOSED"
	TicketStatusReopened        TicketStatus = "REOPENED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// TicketCategory enumerates the kind of issue a ticket covers.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "HARDWARE"
	TicketCategorySoftware TicketCategory = "SOFTWARE"
	TicketCategoryNetwork  TicketCategory = "NETWORK"
	TicketCategoryAccount  TicketCategory = "ACCOUNT"
	TicketCategoryOther    TicketCategory = "OTHER"
)

// Ticket is the aggregate for helpdesk requests.
type Ticket struct {
	ID           string
	Number       string
	Title        string
	Description  string
	Priority     TicketPriority
	Category     TicketCategory
	Status       TicketStatus
	ItemID       *string
	SerialNumber *string
	CreatedBy    string
	AssignedTo   *string
	AssignedBy   *string
	DueDate      *time.Time
	Resolution   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
}

// TicketComment is one entry in a ticket's ordered comment thread.
type TicketComment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	Internal  bool
	CreatedAt time.Time
}

// TicketAttachment references an uploaded file attached to a ticket.
type TicketAttachment struct {
	ID         string
	TicketID   string
	URL        string
	FileName   string
	MimeType   string
	SizeBytes  int64
	UploadedBy string
	CreatedAt  time.Time
}

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusInProgress,
		TicketStatusPendingApproval, TicketStatusResolved, TicketStatusClosed,
		TicketStatusReopened:
		return true
	}
	return false
}
