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

const inventoryItemColumns = `id, name, category, quantity, status, reorder_threshold,
               created_at, updated_at`

// InventoryItemFilter captures item list parameters.
type InventoryItemFilter struct {
	Search *string
	Sort   []pagination.SortField
	Limit  int
	Offset int
}

// InventoryItemRepository encapsulates stock item persistence.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	List(ctx context.Context, filter InventoryItemFilter) ([]domain.InventoryItem, int64, error)
}

type inventoryItemRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryItemRepository builds repository.
func NewInventoryItemRepository(pool *pgxpool.Pool) InventoryItemRepository {
	return &inventoryItemRepository{pool: pool}
}

func (r *inventoryItemRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	const query = `
        INSERT INTO inventory_items (name, category, quantity, status, reorder_threshold)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.Name,
		item.Category,
		item.Quantity,
		item.Status,
		item.ReorderThreshold,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *inventoryItemRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE id=$1`
	return scanInventoryItem(r.pool.QueryRow(ctx, query, id))
}

func (r *inventoryItemRepository) List(ctx context.Context, filter InventoryItemFilter) ([]domain.InventoryItem, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_items WHERE `+where, args...).Scan(&total); err != nil {
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
	orderBy := pagination.OrderBy(filter.Sort, "name ASC")

	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		inventoryItemColumns, where, orderBy, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *item)
	}
	return result, total, rows.Err()
}

func scanInventoryItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Quantity,
		&item.Status,
		&item.ReorderThreshold,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
