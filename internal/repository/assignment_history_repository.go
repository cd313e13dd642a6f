package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AssignmentHistoryRepository stores the append-only assignment audit trail.
// Entries are never updated or deleted.
type AssignmentHistoryRepository interface {
	Create(ctx context.Context, entry *domain.AssignmentHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AssignmentHistory, error)
}

type assignmentHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentHistoryRepository builds repository.
func NewAssignmentHistoryRepository(pool *pgxpool.Pool) AssignmentHistoryRepository {
	return &assignmentHistoryRepository{pool: pool}
}

func (r *assignmentHistoryRepository) Create(ctx context.Context, entry *domain.AssignmentHistory) error {
	const query = `
        INSERT INTO assignment_history (ticket_id, assigned_by, assigned_to, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.AssignedBy,
		entry.AssignedTo,
		entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *assignmentHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AssignmentHistory, error) {
	const query = `
        SELECT id, ticket_id, assigned_by, assigned_to, notes, created_at
        FROM assignment_history WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentHistory
	for rows.Next() {
		var entry domain.AssignmentHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.AssignedBy,
			&entry.AssignedTo,
			&entry.Notes,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
