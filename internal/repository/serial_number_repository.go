package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
)

const serialNumberColumns = `id, inventory_item_id, value, details, created_at, updated_at`

// SerialNumberFilter captures serial number list parameters.
type SerialNumberFilter struct {
	Search *string
	Sort   []pagination.SortField
	Limit  int
	Offset int
}

// SerialNumberRepository encapsulates per-unit serial tracking.
type SerialNumberRepository interface {
	CreateBulk(ctx context.Context, serials []domain.SerialNumber) ([]domain.SerialNumber, error)
	GetByID(ctx context.Context, id string) (*domain.SerialNumber, error)
	List(ctx context.Context, filter SerialNumberFilter) ([]domain.SerialNumber, int64, error)
	ListByItem(ctx context.Context, inventoryItemID string) ([]domain.SerialNumber, error)
	Update(ctx context.Context, serial *domain.SerialNumber) error
	Delete(ctx context.Context, id string) error
}

type serialNumberRepository struct {
	pool *pgxpool.Pool
}

// NewSerialNumberRepository builds repository.
func NewSerialNumberRepository(pool *pgxpool.Pool) SerialNumberRepository {
	return &serialNumberRepository{pool: pool}
}

// CreateBulk inserts the batch in a single transaction so a failure on any
// row (a duplicate value, typically) commits nothing.
func (r *serialNumberRepository) CreateBulk(ctx context.Context, serials []domain.SerialNumber) ([]domain.SerialNumber, error) {
	const query = `
        INSERT INTO serial_numbers (inventory_item_id, value, details)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for i := range serials {
		sn := &serials[i]
		if err := tx.QueryRow(ctx, query,
			sn.InventoryItemID,
			sn.Value,
			sn.Details,
		).Scan(&sn.ID, &sn.CreatedAt, &sn.UpdatedAt); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return serials, nil
}

func (r *serialNumberRepository) GetByID(ctx context.Context, id string) (*domain.SerialNumber, error) {
	query := `SELECT ` + serialNumberColumns + ` FROM serial_numbers WHERE id=$1`
	return scanSerialNumber(r.pool.QueryRow(ctx, query, id))
}

func (r *serialNumberRepository) List(ctx context.Context, filter SerialNumberFilter) ([]domain.SerialNumber, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(value) LIKE %s OR LOWER(details::text) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM serial_numbers WHERE `+where, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT %s FROM serial_numbers WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		serialNumberColumns, where, orderBy, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.SerialNumber
	for rows.Next() {
		sn, err := scanSerialNumber(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *sn)
	}
	return result, total, rows.Err()
}

func (r *serialNumberRepository) ListByItem(ctx context.Context, inventoryItemID string) ([]domain.SerialNumber, error) {
	query := `SELECT ` + serialNumberColumns + ` FROM serial_numbers WHERE inventory_item_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, inventoryItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SerialNumber
	for rows.Next() {
		sn, err := scanSerialNumber(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sn)
	}
	return result, rows.Err()
}

func (r *serialNumberRepository) Update(ctx context.Context, serial *domain.SerialNumber) error {
	const query = `
        UPDATE serial_numbers SET value=$1, details=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, serial.Value, serial.Details, serial.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serialNumberRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM serial_numbers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSerialNumber(row pgx.Row) (*domain.SerialNumber, error) {
	var sn domain.SerialNumber
	if err := row.Scan(
		&sn.ID,
		&sn.InventoryItemID,
		&sn.Value,
		&sn.Details,
		&sn.CreatedAt,
		&sn.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sn, nil
}
