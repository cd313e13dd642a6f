package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
)

const ticketColumns = `id, number, title, description, priority, category, status,
               item_id, serial_number, created_by, assigned_to, assigned_by,
               due_date, resolution, created_at, updated_at, resolved_at`

// TicketFilter captures list query parameters.
type TicketFilter struct {
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *domain.TicketCategory
	AssignedTo  *string
	CreatedBy   *string
	Search      *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Sort        []pagination.SortField
	Limit       int
	Offset      int
}

// StatusChange describes a conditional status transition. Expected lists the
// statuses the ticket must currently be in; the update is a single statement
// so concurrent transitions cannot interleave a read-modify-write.
type StatusChange struct {
	Next       domain.TicketStatus
	Expected   []domain.TicketStatus
	Resolution *string
	ResolvedAt *time.Time
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error)
	ApplyStatusChange(ctx context.Context, id string, change StatusChange) (*domain.Ticket, error)
	Assign(ctx context.Context, id, assigneeID, assignerID string, expected []domain.TicketStatus) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (number, title, description, priority, category, status,
                             item_id, serial_number, created_by, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Number,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Category,
		ticket.Status,
		ticket.ItemID,
		ticket.SerialNumber,
		ticket.CreatedBy,
		ticket.DueDate,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update persists the mutable non-status fields. Status, assignee and
// resolution move through ApplyStatusChange and Assign only.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, priority=$3, category=$4,
            item_id=$5, serial_number=$6, due_date=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Category,
		ticket.ItemID,
		ticket.SerialNumber,
		ticket.DueDate,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) ApplyStatusChange(ctx context.Context, id string, change StatusChange) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET status=$2,
            resolution=COALESCE($3, resolution),
            resolved_at=COALESCE($4, resolved_at),
            updated_at=NOW()
        WHERE id=$1 AND status = ANY($5)
        RETURNING ` + ticketColumns
	row := r.pool.QueryRow(ctx, query,
		id,
		change.Next,
		change.Resolution,
		change.ResolvedAt,
		statusStrings(change.Expected),
	)
	return scanTicket(row)
}

// Assign sets the assignee and moves the ticket to ASSIGNED in one statement.
// The assignee column is last-write-wins under concurrency; only the status
// precondition is checked.
func (r *ticketRepository) Assign(ctx context.Context, id, assigneeID, assignerID string, expected []domain.TicketStatus) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET status=$2, assigned_to=$3, assigned_by=$4, updated_at=NOW()
        WHERE id=$1 AND status = ANY($5)
        RETURNING ` + ticketColumns
	row := r.pool.QueryRow(ctx, query,
		id,
		domain.TicketStatusAssigned,
		assigneeID,
		assignerID,
		statusStrings(expected),
	)
	return scanTicket(row)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM tickets WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	orderBy := pagination.OrderBy(filter.Sort, "created_at DESC")

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		ticketColumns, where, orderBy, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *ticket)
	}
	return result, total, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Category,
		&ticket.Status,
		&ticket.ItemID,
		&ticket.SerialNumber,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.AssignedBy,
		&ticket.DueDate,
		&ticket.Resolution,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func statusStrings(statuses []domain.TicketStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
