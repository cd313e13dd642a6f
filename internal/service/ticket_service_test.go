package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type ticketFixture struct {
	service *TicketService
	tickets *fakeTicketRepo
	history *fakeHistoryRepo
	users   *fakeUserRepo
}

func newTicketFixture() *ticketFixture {
	tickets := newFakeTicketRepo()
	history := &fakeHistoryRepo{}
	users := newFakeUserRepo()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		CommentRepo:    &fakeCommentRepo{},
		AttachmentRepo: &fakeAttachmentRepo{},
		HistoryRepo:    history,
		UserRepo:       users,
	})
	return &ticketFixture{service: svc, tickets: tickets, history: history, users: users}
}

func (fx *ticketFixture) createTicket(t *testing.T, input TicketCreateInput) *domain.Ticket {
	t.Helper()
	ticket, err := fx.service.CreateTicket(context.Background(), "creator-1", input)
	require.NoError(t, err)
	return ticket
}

func (fx *ticketFixture) forceStatus(t *testing.T, id string, status domain.TicketStatus) {
	t.Helper()
	stored, ok := fx.tickets.tickets[id]
	require.True(t, ok)
	stored.Status = status
}

func TestCreateTicket(t *testing.T) {
	fx := newTicketFixture()

	t.Run("creates open ticket without item", func(t *testing.T) {
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Printer not working",
			Description: "Printer jammed on floor 3",
		})
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.Nil(t, ticket.SerialNumber)
		assert.True(t, strings.HasPrefix(ticket.Number, "TKT-"))
		assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	})

	t.Run("rejects short title", func(t *testing.T) {
		_, err := fx.service.CreateTicket(context.Background(), "creator-1", TicketCreateInput{
			Title:       "bad",
			Description: "long enough description",
		})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("rejects short description", func(t *testing.T) {
		_, err := fx.service.CreateTicket(context.Background(), "creator-1", TicketCreateInput{
			Title:       "Printer not working",
			Description: "short",
		})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("requires serial when item referenced", func(t *testing.T) {
		itemID := "item-1"
		_, err := fx.service.CreateTicket(context.Background(), "creator-1", TicketCreateInput{
			Title:       "Laptop battery swollen",
			Description: "Battery swollen on dev laptop",
			ItemID:      &itemID,
		})
		require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "serialNumber", domainErr.Details["field"])
	})
}

func TestUpdateTicketTransitions(t *testing.T) {
	resolver := Actor{ID: "engineer-1", Permissions: []authz.Code{authz.ResolveTicket}}

	t.Run("unreachable status leaves ticket unchanged", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Monitor flickering",
			Description: "Monitor flickers when docked",
		})

		closed := domain.TicketStatusClosed
		_, err := fx.service.UpdateTicket(context.Background(), ticket.ID, TicketUpdateInput{Status: &closed}, resolver)
		require.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))

		stored, getErr := fx.service.GetTicket(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.TicketStatusOpen, stored.Ticket.Status)
	})

	t.Run("rejected transition discards the field patch too", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Monitor flickering",
			Description: "Monitor flickers when docked",
		})

		closed := domain.TicketStatusClosed
		title := "Monitor completely dead"
		_, err := fx.service.UpdateTicket(context.Background(), ticket.ID, TicketUpdateInput{
			Title:  &title,
			Status: &closed,
		}, resolver)
		require.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))

		stored, getErr := fx.service.GetTicket(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "Monitor flickering", stored.Ticket.Title)
		assert.Equal(t, domain.TicketStatusOpen, stored.Ticket.Status)
	})

	t.Run("resolve from in progress sets resolvedAt", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "VPN keeps dropping",
			Description: "VPN drops every ten minutes",
		})
		fx.forceStatus(t, ticket.ID, domain.TicketStatusInProgress)

		resolved := domain.TicketStatusResolved
		resolution := "replaced the vpn client config"
		updated, err := fx.service.UpdateTicket(context.Background(), ticket.ID, TicketUpdateInput{
			Status:     &resolved,
			Resolution: &resolution,
		}, resolver)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusResolved, updated.Status)
		require.NotNil(t, updated.ResolvedAt)
		require.NotNil(t, updated.Resolution)
		assert.Equal(t, resolution, *updated.Resolution)
	})

	t.Run("resolve without resolution text fails", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "VPN keeps dropping",
			Description: "VPN drops every ten minutes",
		})
		fx.forceStatus(t, ticket.ID, domain.TicketStatusInProgress)

		resolved := domain.TicketStatusResolved
		_, err := fx.service.UpdateTicket(context.Background(), ticket.ID, TicketUpdateInput{Status: &resolved}, resolver)
		require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

		stored, getErr := fx.service.GetTicket(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.TicketStatusInProgress, stored.Ticket.Status)
		assert.Nil(t, stored.Ticket.ResolvedAt)
	})

	t.Run("resolve requires permission", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "VPN keeps dropping",
			Description: "VPN drops every ten minutes",
		})
		fx.forceStatus(t, ticket.ID, domain.TicketStatusInProgress)

		resolved := domain.TicketStatusResolved
		resolution := "done"
		_, err := fx.service.UpdateTicket(context.Background(), ticket.ID, TicketUpdateInput{
			Status:     &resolved,
			Resolution: &resolution,
		}, Actor{ID: "viewer-1"})
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("reopen closed ticket", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Mouse missing from desk",
			Description: "Desk 14 mouse disappeared",
		})
		fx.forceStatus(t, ticket.ID, domain.TicketStatusClosed)

		reopened := domain.TicketStatusReopened
		updated, err := fx.service.UpdateTicket(context.Background(), ticket.ID, TicketUpdateInput{Status: &reopened}, resolver)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusReopened, updated.Status)
	})
}

func TestApproveTicket(t *testing.T) {
	approver := Actor{ID: "manager-1", Permissions: []authz.Code{authz.ApproveTicket}}

	t.Run("approves pending ticket to closed", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Replace keyboard",
			Description: "Keyboard keys are sticking",
		})
		fx.forceStatus(t, ticket.ID, domain.TicketStatusPendingApproval)

		updated, err := fx.service.ApproveTicket(context.Background(), ticket.ID, approver)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	})

	t.Run("rejects approval of open ticket", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Replace keyboard",
			Description: "Keyboard keys are sticking",
		})

		_, err := fx.service.ApproveTicket(context.Background(), ticket.ID, approver)
		require.True(t, apperrors.IsCode(err, "INVALID_STATE"))

		stored, getErr := fx.service.GetTicket(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.TicketStatusOpen, stored.Ticket.Status)
	})

	t.Run("requires permission", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Replace keyboard",
			Description: "Keyboard keys are sticking",
		})
		fx.forceStatus(t, ticket.ID, domain.TicketStatusPendingApproval)

		_, err := fx.service.ApproveTicket(context.Background(), ticket.ID, Actor{ID: "viewer-1"})
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})
}

func TestAssignTicket(t *testing.T) {
	assigner := Actor{ID: "manager-1", Permissions: []authz.Code{authz.AssignTicket}}

	t.Run("assigns and appends history on every call", func(t *testing.T) {
		fx := newTicketFixture()
		engineer := fx.users.add(domain.User{Name: "Engineer", Email: "eng@example.com"})
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Projector lamp dead",
			Description: "Meeting room projector lamp burned out",
		})

		first, err := fx.service.AssignTicket(context.Background(), ticket.ID, engineer.ID, assigner, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusAssigned, first.Status)
		require.NotNil(t, first.AssignedTo)
		assert.Equal(t, engineer.ID, *first.AssignedTo)

		// Same assignee again still appends a second entry.
		_, err = fx.service.AssignTicket(context.Background(), ticket.ID, engineer.ID, assigner, nil)
		require.NoError(t, err)

		entries, err := fx.service.AssignmentHistory(context.Background(), ticket.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("requires permission", func(t *testing.T) {
		fx := newTicketFixture()
		engineer := fx.users.add(domain.User{Name: "Engineer", Email: "eng@example.com"})
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Projector lamp dead",
			Description: "Meeting room projector lamp burned out",
		})

		_, err := fx.service.AssignTicket(context.Background(), ticket.ID, engineer.ID, Actor{ID: "viewer-1"}, nil)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("rejects unknown assignee", func(t *testing.T) {
		fx := newTicketFixture()
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Projector lamp dead",
			Description: "Meeting room projector lamp burned out",
		})

		_, err := fx.service.AssignTicket(context.Background(), ticket.ID, "missing-user", assigner, nil)
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})

	t.Run("rejects inactive assignee", func(t *testing.T) {
		fx := newTicketFixture()
		inactive := fx.users.add(domain.User{Name: "Gone", Email: "gone@example.com", Status: domain.UserStatusInactive})
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Projector lamp dead",
			Description: "Meeting room projector lamp burned out",
		})

		_, err := fx.service.AssignTicket(context.Background(), ticket.ID, inactive.ID, assigner, nil)
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})

	t.Run("rejects assignment from resolved", func(t *testing.T) {
		fx := newTicketFixture()
		engineer := fx.users.add(domain.User{Name: "Engineer", Email: "eng@example.com"})
		ticket := fx.createTicket(t, TicketCreateInput{
			Title:       "Projector lamp dead",
			Description: "Meeting room projector lamp burned out",
		})
		fx.forceStatus(t, ticket.ID, domain.TicketStatusResolved)

		_, err := fx.service.AssignTicket(context.Background(), ticket.ID, engineer.ID, assigner, nil)
		assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	})
}

func TestListTickets(t *testing.T) {
	fx := newTicketFixture()
	for i := 0; i < 23; i++ {
		fx.createTicket(t, TicketCreateInput{
			Title:       "Workstation slow again",
			Description: "Workstation takes minutes to boot",
		})
	}

	t.Run("last partial page", func(t *testing.T) {
		tickets, total, err := fx.service.ListTickets(context.Background(), repository.TicketFilter{Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Len(t, tickets, 3)
		assert.Equal(t, int64(23), total)
	})

	t.Run("page beyond the end keeps the true total", func(t *testing.T) {
		tickets, total, err := fx.service.ListTickets(context.Background(), repository.TicketFilter{Limit: 10, Offset: 40})
		require.NoError(t, err)
		assert.Empty(t, tickets)
		assert.Equal(t, int64(23), total)
	})
}

func TestAddComment(t *testing.T) {
	fx := newTicketFixture()
	ticket := fx.createTicket(t, TicketCreateInput{
		Title:       "Docking station broken",
		Description: "USB ports stopped working",
	})

	t.Run("appends comment without touching status", func(t *testing.T) {
		detail, err := fx.service.AddComment(context.Background(), ticket.ID, "author-1", "checked the cable, looks fine", true, nil)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 1)
		assert.True(t, detail.Comments[0].Internal)
		assert.Equal(t, domain.TicketStatusOpen, detail.Ticket.Status)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		_, err := fx.service.AddComment(context.Background(), ticket.ID, "author-1", "   ", false, nil)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := fx.service.AddComment(context.Background(), "missing", "author-1", "hello there", false, nil)
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})
}
