package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ActivityLogResponse is the wire shape of one audit entry.
type ActivityLogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewActivityLogListResponse maps a slice of audit entries.
func NewActivityLogListResponse(entries []domain.ActivityLog) []ActivityLogResponse {
	out := make([]ActivityLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityLogResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Details:   e.Details,
			IPAddress: e.IPAddress,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
