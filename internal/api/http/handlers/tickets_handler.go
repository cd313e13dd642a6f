package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ticketSortColumns whitelists sortable ticket fields.
var ticketSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"priority":  "priority",
	"status":    "status",
	"dueDate":   "due_date",
}

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	activity *service.ActivityService
	limits   config.PaginationConfig
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, activity *service.ActivityService, limits config.PaginationConfig) *TicketsHandler {
	return &TicketsHandler{service: ticketService, activity: activity, limits: limits}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Category:     req.Category,
		ItemID:       req.ItemID,
		SerialNumber: req.SerialNumber,
		DueDate:      req.DueDate,
		Attachments:  attachmentInputs(req.Attachments),
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), principal.User.ID, input)
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "TICKET_CREATED",
		fmt.Sprintf("ticket %s created", ticket.Number), c.IP())
	return respondCreated(c, "ticket created", dto.NewTicketResponse(ticket))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	page, limit := parsePage(c, h.limits)
	filter := parseTicketFilter(c)
	filter.Limit = limit
	filter.Offset = pagination.Offset(page, limit)

	tickets, total, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, "tickets retrieved",
		dto.NewTicketListResponse(tickets), pagination.NewMeta(page, limit, total))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, "ticket retrieved",
		dto.NewTicketDetailResponse(detail.Ticket, detail.Comments, detail.Attachments))
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	patch := service.TicketUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Category:     req.Category,
		ItemID:       req.ItemID,
		SerialNumber: req.SerialNumber,
		DueDate:      req.DueDate,
		Status:       req.Status,
		Resolution:   req.Resolution,
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), patch, actorFrom(principal))
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "TICKET_UPDATED",
		fmt.Sprintf("ticket %s updated", ticket.Number), c.IP())
	return respondOK(c, "ticket updated", dto.NewTicketResponse(ticket))
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.AssignTicket(c.UserContext(), c.Params("id"), req.AssignedTo, actorFrom(principal), req.Notes)
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "TICKET_ASSIGNED",
		fmt.Sprintf("ticket %s assigned to %s", ticket.Number, req.AssignedTo), c.IP())
	return respondOK(c, "ticket assigned", dto.NewTicketResponse(ticket))
}

// ApproveTicket POST /tickets/:id/approve.
func (h *TicketsHandler) ApproveTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := h.service.ApproveTicket(c.UserContext(), c.Params("id"), actorFrom(principal))
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "TICKET_APPROVED",
		fmt.Sprintf("ticket %s approved and closed", ticket.Number), c.IP())
	return respondOK(c, "ticket approved", dto.NewTicketResponse(ticket))
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	detail, err := h.service.AddComment(c.UserContext(), c.Params("id"), principal.User.ID,
		req.Body, req.Internal, attachmentInputs(req.Attachments))
	if err != nil {
		return err
	}
	return respondCreated(c, "comment added",
		dto.NewTicketDetailResponse(detail.Ticket, detail.Comments, detail.Attachments))
}

// AddAttachments POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddAttachmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	detail, err := h.service.AddAttachments(c.UserContext(), c.Params("id"), principal.User.ID,
		attachmentInputs(req.Attachments))
	if err != nil {
		return err
	}
	return respondCreated(c, "attachments added",
		dto.NewTicketDetailResponse(detail.Ticket, detail.Comments, detail.Attachments))
}

// AssignmentHistory GET /tickets/:id/assignment-history.
func (h *TicketsHandler) AssignmentHistory(c *fiber.Ctx) error {
	entries, err := h.service.AssignmentHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, "assignment history retrieved", dto.NewAssignmentHistoryResponse(entries))
}

func parseTicketFilter(c *fiber.Ctx) repository.TicketFilter {
	var filter repository.TicketFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(raw)
		filter.Priority = &priority
	}
	if raw := c.Query("category"); raw != "" {
		category := domain.TicketCategory(raw)
		filter.Category = &category
	}
	filter.AssignedTo = optionalQuery(c, "assignedTo")
	filter.CreatedBy = optionalQuery(c, "createdBy")
	filter.Search = optionalQuery(c, "search")
	filter.CreatedFrom = parseTime(c.Query("startDate"))
	filter.CreatedTo = parseTime(c.Query("endDate"))
	filter.Sort = pagination.ParseSort(c.Query("sort"), ticketSortColumns)
	return filter
}

func attachmentInputs(in []dto.AttachmentInput) []service.AttachmentInput {
	out := make([]service.AttachmentInput, 0, len(in))
	for _, a := range in {
		out = append(out, service.AttachmentInput{
			URL:       a.URL,
			FileName:  a.FileName,
			MimeType:  a.MimeType,
			SizeBytes: a.SizeBytes,
		})
	}
	return out
}

func actorFrom(principal *auth.Principal) service.Actor {
	return service.Actor{ID: principal.User.ID, Permissions: principal.Permissions}
}
