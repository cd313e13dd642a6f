package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateRoleRequest payload.
type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions" validate:"required"`
}

// UpdateRoleRequest payload. Absent fields are unchanged; a present
// permissions list replaces the stored set.
type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

// RoleResponse is the wire shape of one role.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewRoleResponse maps a domain role.
func NewRoleResponse(r *domain.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewRoleListResponse maps a slice of domain roles.
func NewRoleListResponse(roles []domain.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, NewRoleResponse(&roles[i]))
	}
	return out
}
