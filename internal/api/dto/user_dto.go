package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateUserRequest payload for new staff accounts.
type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Contact  *string `json:"contact"`
	RoleID   string  `json:"roleId"`
}

// UpdateUserRequest payload. Absent fields are unchanged.
type UpdateUserRequest struct {
	Name     *string            `json:"name" validate:"omitempty,min=2"`
	Email    *string            `json:"email" validate:"omitempty,email"`
	Password *string            `json:"password" validate:"omitempty,min=8"`
	Contact  *string            `json:"contact"`
	Status   *domain.UserStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	RoleID   *string            `json:"roleId"`
}

// UserResponse is the wire shape of one account. The password hash never
// leaves the service.
type UserResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Contact   *string           `json:"contact,omitempty"`
	Status    domain.UserStatus `json:"status"`
	RoleID    string            `json:"roleId"`
	LastLogin *time.Time        `json:"lastLogin,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Contact:   u.Contact,
		Status:    u.Status,
		RoleID:    u.RoleID,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserListResponse maps a slice of domain users.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
