package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	f.tickets[ticket.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	status := stored.Status
	clone := *ticket
	clone.Status = status
	clone.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	matched := make([]domain.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		matched = append(matched, *t)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func (f *fakeTicketRepo) ApplyStatusChange(_ context.Context, id string, change repository.StatusChange) (*domain.Ticket, error) {
	stored, ok := f.tickets[id]
	if !ok || !statusIn(stored.Status, change.Expected) {
		return nil, pgx.ErrNoRows
	}
	stored.Status = change.Next
	if change.Resolution != nil {
		stored.Resolution = change.Resolution
	}
	if change.ResolvedAt != nil {
		stored.ResolvedAt = change.ResolvedAt
	}
	stored.UpdatedAt = time.Now()
	clone := *stored
	return &clone, nil
}

func (f *fakeTicketRepo) Assign(_ context.Context, id, assigneeID, assignerID string, expected []domain.TicketStatus) (*domain.Ticket, error) {
	stored, ok := f.tickets[id]
	if !ok || !statusIn(stored.Status, expected) {
		return nil, pgx.ErrNoRows
	}
	stored.Status = domain.TicketStatusAssigned
	stored.AssignedTo = &assigneeID
	stored.AssignedBy = &assignerID
	stored.UpdatedAt = time.Now()
	clone := *stored
	return &clone, nil
}

func statusIn(status domain.TicketStatus, set []domain.TicketStatus) bool {
	for _, candidate := range set {
		if candidate == status {
			return true
		}
	}
	return false
}

type fakeCommentRepo struct {
	comments []domain.TicketComment
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	out := make([]domain.TicketComment, 0)
	for _, c := range f.comments {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeAttachmentRepo struct {
	attachments []domain.TicketAttachment
}

func (f *fakeAttachmentRepo) CreateMany(_ context.Context, attachments []domain.TicketAttachment) ([]domain.TicketAttachment, error) {
	for i := range attachments {
		attachments[i].ID = uuid.NewString()
		attachments[i].CreatedAt = time.Now()
		f.attachments = append(f.attachments, attachments[i])
	}
	return attachments, nil
}

func (f *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	out := make([]domain.TicketAttachment, 0)
	for _, a := range f.attachments {
		if a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.AssignmentHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.AssignmentHistory) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AssignmentHistory, error) {
	out := make([]domain.AssignmentHistory, 0)
	for _, e := range f.entries {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) add(user domain.User) *domain.User {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	f.users[user.ID] = &user
	return &user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, _ repository.UserFilter) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	stored, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.LastLogin = &at
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, roleID string) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

type fakeResetRepo struct {
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (f *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	clone := *token
	f.tokens[token.ID] = &clone
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, token string) (*repository.PasswordResetToken, error) {
	for _, stored := range f.tokens {
		if stored.Token == token {
			clone := *stored
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResetRepo) MarkUsed(_ context.Context, id string, at time.Time) error {
	stored, ok := f.tokens[id]
	if !ok || stored.UsedAt != nil {
		return pgx.ErrNoRows
	}
	stored.UsedAt = &at
	return nil
}

type fakeRoleRepo struct {
	roles map[string]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*domain.Role)}
}

func (f *fakeRoleRepo) Create(_ context.Context, role *domain.Role) error {
	role.ID = uuid.NewString()
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	clone := *role
	f.roles[role.ID] = &clone
	return nil
}

func (f *fakeRoleRepo) Update(_ context.Context, role *domain.Role) error {
	if _, ok := f.roles[role.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *role
	f.roles[role.ID] = &clone
	return nil
}

func (f *fakeRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	stored, ok := f.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	for _, r := range f.roles {
		if r.Name == name {
			clone := *r
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRoleRepo) List(_ context.Context, _ repository.RoleFilter) ([]domain.Role, int64, error) {
	out := make([]domain.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRoleRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.roles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.roles, id)
	return nil
}

type fakeInventoryItemRepo struct {
	items map[string]*domain.InventoryItem
}

func newFakeInventoryItemRepo() *fakeInventoryItemRepo {
	return &fakeInventoryItemRepo{items: make(map[string]*domain.InventoryItem)}
}

func (f *fakeInventoryItemRepo) Create(_ context.Context, item *domain.InventoryItem) error {
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeInventoryItemRepo) GetByID(_ context.Context, id string) (*domain.InventoryItem, error) {
	stored, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeInventoryItemRepo) List(_ context.Context, _ repository.InventoryItemFilter) ([]domain.InventoryItem, int64, error) {
	out := make([]domain.InventoryItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

type fakeSerialNumberRepo struct {
	serials map[string]*domain.SerialNumber
}

func newFakeSerialNumberRepo() *fakeSerialNumberRepo {
	return &fakeSerialNumberRepo{serials: make(map[string]*domain.SerialNumber)}
}

// CreateBulk mirrors the transactional contract: if any value collides with a
// stored serial, nothing from the batch is kept.
func (f *fakeSerialNumberRepo) CreateBulk(_ context.Context, serials []domain.SerialNumber) ([]domain.SerialNumber, error) {
	for _, sn := range serials {
		for _, stored := range f.serials {
			if stored.Value == sn.Value {
				return nil, errors.New("duplicate key value violates unique constraint \"serial_numbers_value_key\"")
			}
		}
	}
	for i := range serials {
		sn := &serials[i]
		sn.ID = uuid.NewString()
		sn.CreatedAt = time.Now()
		sn.UpdatedAt = sn.CreatedAt
		clone := *sn
		f.serials[sn.ID] = &clone
	}
	return serials, nil
}

func (f *fakeSerialNumberRepo) GetByID(_ context.Context, id string) (*domain.SerialNumber, error) {
	stored, ok := f.serials[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeSerialNumberRepo) List(_ context.Context, filter repository.SerialNumberFilter) ([]domain.SerialNumber, int64, error) {
	out := make([]domain.SerialNumber, 0, len(f.serials))
	for _, sn := range f.serials {
		out = append(out, *sn)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSerialNumberRepo) ListByItem(_ context.Context, inventoryItemID string) ([]domain.SerialNumber, error) {
	var out []domain.SerialNumber
	for _, sn := range f.serials {
		if sn.InventoryItemID == inventoryItemID {
			out = append(out, *sn)
		}
	}
	return out, nil
}

func (f *fakeSerialNumberRepo) Update(_ context.Context, serial *domain.SerialNumber) error {
	if _, ok := f.serials[serial.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *serial
	clone.UpdatedAt = time.Now()
	f.serials[serial.ID] = &clone
	return nil
}

func (f *fakeSerialNumberRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.serials[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.serials, id)
	return nil
}
