package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Actor identifies the principal performing an operation together with the
// effective permission set resolved at authentication time.
type Actor struct {
	ID          string
	Permissions []authz.Code
}

// Can checks the actor's effective set for a required permission.
func (a Actor) Can(required authz.Code) bool {
	return authz.Allowed(a.Permissions, required)
}

// allowedTransitions is the ticket workflow graph: current status to the set
// of reachable next statuses. Every status mutation consults this table, then
// applies the change as a single conditional update.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:            {domain.TicketStatusAssigned},
	domain.TicketStatusAssigned:        {domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusInProgress:      {domain.TicketStatusPendingApproval, domain.TicketStatusResolved},
	domain.TicketStatusPendingApproval: {domain.TicketStatusAssigned, domain.TicketStatusClosed},
	domain.TicketStatusResolved:        {domain.TicketStatusClosed, domain.TicketStatusReopened},
	domain.TicketStatusClosed:          {domain.TicketStatusReopened},
	domain.TicketStatusReopened:        {domain.TicketStatusAssigned, domain.TicketStatusInProgress},
}

// assignableStatuses lists the statuses from which a ticket may be
// (re)assigned. Re-assignment of an already ASSIGNED ticket is permitted and
// is last-write-wins under concurrency.
var assignableStatuses = []domain.TicketStatus{
	domain.TicketStatusOpen,
	domain.TicketStatusAssigned,
	domain.TicketStatusPendingApproval,
	domain.TicketStatusReopened,
}

// resolvableStatuses lists the statuses from which a ticket may be resolved.
var resolvableStatuses = []domain.TicketStatus{
	domain.TicketStatusAssigned,
	domain.TicketStatusInProgress,
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TicketService coordinates the ticket workflow.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.TicketCommentRepository
	attachments repository.TicketAttachmentRepository
	history     repository.AssignmentHistoryRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.TicketCommentRepository
	AttachmentRepo repository.TicketAttachmentRepository
	HistoryRepo    repository.AssignmentHistoryRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		history:     deps.HistoryRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// AttachmentInput describes attachment metadata supplied by the caller.
type AttachmentInput struct {
	URL       string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	Priority     domain.TicketPriority
	Category     domain.TicketCategory
	ItemID       *string
	SerialNumber *string
	DueDate      *time.Time
	Attachments  []AttachmentInput
}

// TicketUpdateInput describes a field-level patch. Nil fields are untouched.
type TicketUpdateInput struct {
	Title        *string
	Description  *string
	Priority     *domain.TicketPriority
	Category     *domain.TicketCategory
	ItemID       *string
	SerialNumber *string
	DueDate      *time.Time
	Status       *domain.TicketStatus
	Resolution   *string
}

// TicketDetail is a ticket together with its ordered comment and attachment
// lists.
type TicketDetail struct {
	Ticket      *domain.Ticket
	Comments    []domain.TicketComment
	Attachments []domain.TicketAttachment
}

// CreateTicket validates input and produces an OPEN ticket.
func (s *TicketService) CreateTicket(ctx context.Context, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	if len(title) < 5 {
		return nil, apperrors.NewValidationError("title must be at least 5 characters long", nil)
	}
	if len(description) < 10 {
		return nil, apperrors.NewValidationError("description must be at least 10 characters long", nil)
	}
	if input.ItemID != nil && strings.TrimSpace(*input.ItemID) != "" {
		if input.SerialNumber == nil || strings.TrimSpace(*input.SerialNumber) == "" {
			return nil, apperrors.NewValidationError("serial number is required when an item is selected",
				map[string]any{"field": "serialNumber"})
		}
	}

	ticket := &domain.Ticket{
		Number:       generateTicketNumber(),
		Title:        title,
		Description:  description,
		Priority:     input.Priority,
		Category:     input.Category,
		Status:       domain.TicketStatusOpen,
		ItemID:       normalizeOptional(input.ItemID),
		SerialNumber: normalizeOptional(input.SerialNumber),
		CreatedBy:    creatorID,
		DueDate:      input.DueDate,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Category == "" {
		ticket.Category = domain.TicketCategoryOther
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(input.Attachments) > 0 {
		if _, err := s.attachments.CreateMany(ctx, buildAttachments(ticket.ID, creatorID, input.Attachments)); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  creatorID,
		Payload: events.TicketCreatedPayload{
			Number:   ticket.Number,
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// ListTickets returns a filtered, paginated ticket page.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	tickets, total, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return tickets, total, nil
}

// GetTicket fetches a ticket with its comments and attachments.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*TicketDetail, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketDetail{Ticket: ticket, Comments: comments, Attachments: attachments}, nil
}

// AssignTicket assigns or reassigns a ticket. A history entry is appended on
// every successful call, including when the assignee is unchanged.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, assigneeID string, actor Actor, notes *string) (*domain.Ticket, error) {
	if !actor.Can(authz.AssignTicket) {
		return nil, apperrors.NewForbidden("assign_ticket permission required")
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if assignee.Status != domain.UserStatusActive {
		return nil, apperrors.NewConflict("assignee is inactive", map[string]any{"user_id": assigneeID})
	}

	ticket, err := s.tickets.Assign(ctx, ticketID, assigneeID, actor.ID, assignableStatuses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyMissedConditionalUpdate(ctx, ticketID, "ticket cannot be assigned in its current status")
		}
		return nil, apperrors.MapError(err)
	}

	entry := &domain.AssignmentHistory{
		TicketID:   ticket.ID,
		AssignedBy: actor.ID,
		AssignedTo: assigneeID,
		Notes:      notes,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketAssignedPayload{
			AssignedTo: assigneeID,
			AssignedBy: actor.ID,
			Notes:      notes,
		},
	})
	return ticket, nil
}

// UpdateTicket applies a field-level patch. A status in the patch must name a
// transition reachable from the current status.
func (s *TicketService) UpdateTicket(ctx context.Context, ticketID string, patch TicketUpdateInput, actor Actor) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	// Plan the status change first so a rejected transition leaves the
	// field patch unpersisted.
	var change *repository.StatusChange
	if patch.Status != nil {
		planned, err := planTransition(ticket, *patch.Status, patch.Resolution, actor)
		if err != nil {
			return nil, err
		}
		change = &planned
	}

	if err := applyFieldPatch(ticket, patch); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if change == nil {
		return ticket, nil
	}
	return s.applyTransition(ctx, ticket, *change, actor)
}

// ApproveTicket closes a ticket that is pending approval.
func (s *TicketService) ApproveTicket(ctx context.Context, ticketID string, actor Actor) (*domain.Ticket, error) {
	if !actor.Can(authz.ApproveTicket) {
		return nil, apperrors.NewForbidden("approve_ticket permission required")
	}

	old, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if old.Status != domain.TicketStatusPendingApproval {
		return nil, apperrors.NewInvalidState("ticket is not pending approval",
			map[string]any{"current_status": old.Status})
	}

	ticket, err := s.tickets.ApplyStatusChange(ctx, ticketID, repository.StatusChange{
		Next:     domain.TicketStatusClosed,
		Expected: []domain.TicketStatus{domain.TicketStatusPendingApproval},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a race with a concurrent transition.
			return nil, apperrors.NewConflict("ticket status changed concurrently", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishStatusChange(ctx, ticket, old.Status, actor.ID)
	return ticket, nil
}

// AddComment appends a comment to a ticket's thread; the status is untouched.
func (s *TicketService) AddComment(ctx context.Context, ticketID, authorID, body string, internal bool, attachments []AttachmentInput) (*TicketDetail, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	comment := &domain.TicketComment{
		TicketID: ticket.ID,
		AuthorID: authorID,
		Body:     strings.TrimSpace(body),
		Internal: internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(attachments) > 0 {
		if _, err := s.attachments.CreateMany(ctx, buildAttachments(ticket.ID, authorID, attachments)); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		ActorID:  authorID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    authorID,
			Internal:    internal,
			BodyPreview: preview(comment.Body, 120),
		},
	})
	return s.GetTicket(ctx, ticketID)
}

// AddAttachments appends attachment references to a ticket.
func (s *TicketService) AddAttachments(ctx context.Context, ticketID, uploaderID string, attachments []AttachmentInput) (*TicketDetail, error) {
	if len(attachments) == 0 {
		return nil, apperrors.NewValidationError("at least one attachment is required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.attachments.CreateMany(ctx, buildAttachments(ticket.ID, uploaderID, attachments)); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.GetTicket(ctx, ticketID)
}

// AssignmentHistory lists the append-only assignment trail for a ticket.
func (s *TicketService) AssignmentHistory(ctx context.Context, ticketID string) ([]domain.AssignmentHistory, error) {
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// planTransition validates a move to next against the workflow table and the
// resolution requirements, returning the status change to apply. Nothing is
// persisted here.
func planTransition(ticket *domain.Ticket, next domain.TicketStatus, resolution *string, actor Actor) (repository.StatusChange, error) {
	if !domain.ValidStatus(next) {
		return repository.StatusChange{}, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": next})
	}
	if !isValidTransition(ticket.Status, next) {
		return repository.StatusChange{}, apperrors.NewInvalidTransition("status transition not allowed",
			map[string]any{"from": ticket.Status, "to": next})
	}

	change := repository.StatusChange{
		Next:     next,
		Expected: []domain.TicketStatus{ticket.Status},
	}
	if next == domain.TicketStatusResolved {
		if !actor.Can(authz.ResolveTicket) {
			return repository.StatusChange{}, apperrors.NewForbidden("resolve_ticket permission required")
		}
		if resolution == nil || strings.TrimSpace(*resolution) == "" {
			return repository.StatusChange{}, apperrors.NewValidationError("resolution text is required to resolve a ticket", nil)
		}
		now := time.Now()
		trimmed := strings.TrimSpace(*resolution)
		change.Resolution = &trimmed
		change.ResolvedAt = &now
		change.Expected = resolvableStatuses
	}
	return change, nil
}

// applyTransition executes a planned status change. The stored status is
// never modified on failure.
func (s *TicketService) applyTransition(ctx context.Context, ticket *domain.Ticket, change repository.StatusChange, actor Actor) (*domain.Ticket, error) {
	updated, err := s.tickets.ApplyStatusChange(ctx, ticket.ID, change)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("ticket status changed concurrently", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishStatusChange(ctx, updated, ticket.Status, actor.ID)
	return updated, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// classifyMissedConditionalUpdate distinguishes a missing ticket from one
// whose current status failed the conditional update's precondition.
func (s *TicketService) classifyMissedConditionalUpdate(ctx context.Context, ticketID, message string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return apperrors.NewInvalidState(message, map[string]any{"current_status": ticket.Status})
}

func (s *TicketService) publishStatusChange(ctx context.Context, ticket *domain.Ticket, old domain.TicketStatus, actorID string) {
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: old,
			NewStatus: ticket.Status,
		},
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func applyFieldPatch(ticket *domain.Ticket, patch TicketUpdateInput) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if len(title) < 5 {
			return apperrors.NewValidationError("title must be at least 5 characters long", nil)
		}
		ticket.Title = title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if len(description) < 10 {
			return apperrors.NewValidationError("description must be at least 10 characters long", nil)
		}
		ticket.Description = description
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	if patch.Category != nil {
		ticket.Category = *patch.Category
	}
	if patch.ItemID != nil {
		ticket.ItemID = normalizeOptional(patch.ItemID)
	}
	if patch.SerialNumber != nil {
		ticket.SerialNumber = normalizeOptional(patch.SerialNumber)
	}
	if patch.DueDate != nil {
		ticket.DueDate = patch.DueDate
	}
	if ticket.ItemID != nil && (ticket.SerialNumber == nil || *ticket.SerialNumber == "") {
		return apperrors.NewValidationError("serial number is required when an item is selected",
			map[string]any{"field": "serialNumber"})
	}
	return nil
}

func buildAttachments(ticketID, uploaderID string, inputs []AttachmentInput) []domain.TicketAttachment {
	out := make([]domain.TicketAttachment, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, domain.TicketAttachment{
			TicketID:   ticketID,
			URL:        in.URL,
			FileName:   in.FileName,
			MimeType:   in.MimeType,
			SizeBytes:  in.SizeBytes,
			UploadedBy: uploaderID,
		})
	}
	return out
}

func generateTicketNumber() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func normalizeOptional(val *string) *string {
	if val == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
