package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketAttachmentRepository stores attachment references.
type TicketAttachmentRepository interface {
	CreateMany(ctx context.Context, attachments []domain.TicketAttachment) ([]domain.TicketAttachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAttachment, error)
}

type ticketAttachmentRepository struct {
	pool *pgxpool.Pool
}

// NewTicketAttachmentRepository builds repository.
func NewTicketAttachmentRepository(pool *pgxpool.Pool) TicketAttachmentRepository {
	return &ticketAttachmentRepository{pool: pool}
}

func (r *ticketAttachmentRepository) CreateMany(ctx context.Context, attachments []domain.TicketAttachment) ([]domain.TicketAttachment, error) {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, url, file_name, mime_type, size_bytes, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	for i := range attachments {
		att := &attachments[i]
		if err := r.pool.QueryRow(ctx, query,
			att.TicketID,
			att.URL,
			att.FileName,
			att.MimeType,
			att.SizeBytes,
			att.UploadedBy,
		).Scan(&att.ID, &att.CreatedAt); err != nil {
			return nil, err
		}
	}
	return attachments, nil
}

func (r *ticketAttachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	const query = `
        SELECT id, ticket_id, url, file_name, mime_type, size_bytes, uploaded_by, created_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketAttachment
	for rows.Next() {
		var att domain.TicketAttachment
		if err := rows.Scan(
			&att.ID,
			&att.TicketID,
			&att.URL,
			&att.FileName,
			&att.MimeType,
			&att.SizeBytes,
			&att.UploadedBy,
			&att.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
