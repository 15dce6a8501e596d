package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, item_id, direction, quantity, unit_price, lot_label, expiration_date, date, notes, created_at, created_by`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario. Los movimientos no se actualizan ni se borran.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ItemID, movement.Direction, movement.Quantity, movement.UnitPrice,
		movement.LotLabel, movement.ExpirationDate, movement.Date, movement.Notes, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

func scanMovement(row rowScanner) (entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var createdBy *string
	err := row.Scan(&m.ID, &m.ItemID, &m.Direction, &m.Quantity, &m.UnitPrice,
		&m.LotLabel, &m.ExpirationDate, &m.Date, &m.Notes, &m.CreatedAt, &createdBy)
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return m, err
}

// ListAllByItem devuelve el historial completo del insumo en orden cronológico.
func (r *InventoryMovementRepo) ListAllByItem(ctx context.Context, itemID string) ([]entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM inventory_movements WHERE item_id = $1 ORDER BY date, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	var list []entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByItem lista movimientos de un insumo en un rango de fechas, del más reciente al más antiguo.
func (r *InventoryMovementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	where, args := movementRange(itemID, from, to)
	query := `SELECT ` + movementColumns + ` FROM inventory_movements` + where + " ORDER BY date DESC, id DESC"
	query, args = paginate(query, args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by item: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountByItem cuenta los movimientos del insumo con el mismo rango que ListByItem.
func (r *InventoryMovementRepo) CountByItem(ctx context.Context, itemID string, from, to *time.Time) (int, error) {
	where, args := movementRange(itemID, from, to)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_movements`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func movementRange(itemID string, from, to *time.Time) (string, []any) {
	where := " WHERE item_id = $1"
	args := []any{itemID}
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return where, args
}
