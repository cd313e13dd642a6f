package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AttachmentInput payload for attachment metadata.
type AttachmentInput struct {
	URL       string `json:"url" validate:"required,url"`
	FileName  string `json:"fileName" validate:"required"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes" validate:"gte=0"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string                `json:"title" validate:"required,min=5,max=100"`
	Description  string                `json:"description" validate:"required,min=10"`
	Priority     domain.TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Category     domain.TicketCategory `json:"category" validate:"omitempty,oneof=HARDWARE SOFTWARE NETWORK ACCOUNT OTHER"`
	ItemID       *string               `json:"itemId"`
	SerialNumber *string               `json:"serialNumber"`
	DueDate      *time.Time            `json:"dueDate"`
	Attachments  []AttachmentInput     `json:"attachments" validate:"omitempty,dive"`
}

// UpdateTicketRequest payload. Absent fields are unchanged.
type UpdateTicketRequest struct {
	Title        *string                `json:"title" validate:"omitempty,min=5,max=100"`
	Description  *string                `json:"description" validate:"omitempty,min=10"`
	Priority     *domain.TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Category     *domain.TicketCategory `json:"category" validate:"omitempty,oneof=HARDWARE SOFTWARE NETWORK ACCOUNT OTHER"`
	ItemID       *string                `json:"itemId"`
	SerialNumber *string                `json:"serialNumber"`
	DueDate      *time.Time             `json:"dueDate"`
	Status       *domain.TicketStatus   `json:"status"`
	Resolution   *string                `json:"resolution"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedTo string  `json:"assignedTo" validate:"required"`
	Notes      *string `json:"notes"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Body        string            `json:"body" validate:"required"`
	Internal    bool              `json:"internal"`
	Attachments []AttachmentInput `json:"attachments" validate:"omitempty,dive"`
}

// AddAttachmentsRequest payload.
type AddAttachmentsRequest struct {
	Attachments []AttachmentInput `json:"attachments" validate:"required,min=1,dive"`
}

// TicketResponse is the wire shape of one ticket.
type TicketResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
	Category     domain.TicketCategory `json:"category"`
	Status       domain.TicketStatus   `json:"status"`
	ItemID       *string               `json:"itemId,omitempty"`
	SerialNumber *string               `json:"serialNumber,omitempty"`
	CreatedBy    string                `json:"createdBy"`
	AssignedTo   *string               `json:"assignedTo,omitempty"`
	AssignedBy   *string               `json:"assignedBy,omitempty"`
	DueDate      *time.Time            `json:"dueDate,omitempty"`
	Resolution   *string               `json:"resolution,omitempty"`
	ResolvedAt   *time.Time            `json:"resolvedAt,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// CommentResponse is the wire shape of one thread comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TicketDetailResponse bundles a ticket with its thread.
type TicketDetailResponse struct {
	TicketResponse
	Comments    []CommentResponse    `json:"comments"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// AssignmentHistoryResponse is one append-only assignment entry.
type AssignmentHistoryResponse struct {
	ID         string    `json:"id"`
	AssignedBy string    `json:"assignedBy"`
	AssignedTo string    `json:"assignedTo"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           t.ID,
		Number:       t.Number,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		Category:     t.Category,
		Status:       t.Status,
		ItemID:       t.ItemID,
		SerialNumber: t.SerialNumber,
		CreatedBy:    t.CreatedBy,
		AssignedTo:   t.AssignedTo,
		AssignedBy:   t.AssignedBy,
		DueDate:      t.DueDate,
		Resolution:   t.Resolution,
		ResolvedAt:   t.ResolvedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// NewTicketListResponse maps a slice of domain tickets.
func NewTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewTicketDetailResponse maps a ticket with its comments and attachments.
func NewTicketDetailResponse(t *domain.Ticket, comments []domain.TicketComment, attachments []domain.TicketAttachment) TicketDetailResponse {
	resp := TicketDetailResponse{
		TicketResponse: NewTicketResponse(t),
		Comments:       make([]CommentResponse, 0, len(comments)),
		Attachments:    make([]AttachmentResponse, 0, len(attachments)),
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Body:      c.Body,
			Internal:  c.Internal,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, a := range attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:         a.ID,
			URL:        a.URL,
			FileName:   a.FileName,
			MimeType:   a.MimeType,
			SizeBytes:  a.SizeBytes,
			UploadedBy: a.UploadedBy,
			CreatedAt:  a.CreatedAt,
		})
	}
	return resp
}

// NewAssignmentHistoryResponse maps assignment entries.
func NewAssignmentHistoryResponse(entries []domain.AssignmentHistory) []AssignmentHistoryResponse {
	out := make([]AssignmentHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AssignmentHistoryResponse{
			ID:         e.ID,
			AssignedBy: e.AssignedBy,
			AssignedTo: e.AssignedTo,
			Notes:      e.Notes,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
