package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, code, name, description, unit, category, min_stock, current_quantity, average_cost, status, created_at, updated_at`

// InventoryItemRepo implementación del puerto InventoryItemRepository sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador de persistencia para insumos. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.Unit, &it.Category,
		&it.MinStock, &it.CurrentQuantity, &it.AverageCost, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un nuevo insumo. El contador y el costo promedio inician en 0.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, item.Description, item.Unit, item.Category,
		item.MinStock, item.CurrentQuantity, item.AverageCost, item.Status, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

func (r *InventoryItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

// GetByID obtiene un insumo por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item",
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetByCode obtiene un insumo por su código único.
func (r *InventoryItemRepo) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item by code",
		`SELECT `+itemColumns+` FROM inventory_items WHERE code = $1`, code)
}

// GetForUpdate obtiene el insumo bloqueando la fila; solo tiene sentido dentro de una tx.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "lock inventory item",
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
}

// Update actualiza los datos descriptivos. No toca contador ni costo (se manejan vía movimientos).
func (r *InventoryItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET name = $2, description = $3, unit = $4, category = $5, min_stock = $6, status = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.Unit, item.Category, item.MinStock, item.Status, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock actualiza contador y costo promedio ponderado.
func (r *InventoryItemRepo) UpdateStock(ctx context.Context, id string, quantity, averageCost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE inventory_items SET current_quantity = $2, average_cost = $3, updated_at = now() WHERE id = $1`,
		id, quantity, averageCost,
	)
	if err != nil {
		return fmt.Errorf("update inventory stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista insumos ordenados por código, filtrando por código o nombre cuando search no está vacío.
func (r *InventoryItemRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	var args []any
	if search != "" {
		query += ` WHERE lower(code) LIKE $1 OR lower(name) LIKE $1`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY code`
	query, args = paginate(query, args, limit, offset)
	return r.list(ctx, "list inventory items", query, args...)
}

// ListActive devuelve todos los insumos activos; lo usan reportes y alertas.
func (r *InventoryItemRepo) ListActive(ctx context.Context) ([]*entity.InventoryItem, error) {
	return r.list(ctx, "list active inventory items",
		`SELECT `+itemColumns+` FROM inventory_items WHERE status = $1 ORDER BY code`, domain.StatusActive)
}

func (r *InventoryItemRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
