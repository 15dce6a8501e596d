package repository

import (
	"context"
	"time"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
// Es la fuente de movimientos del motor de costeo: los movimientos son inmutables.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListAllByItem devuelve el historial completo del insumo, sin paginar.
	ListAllByItem(ctx context.Context, itemID string) ([]entity.InventoryMovement, error)
	ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	CountByItem(ctx context.Context, itemID string, from, to *time.Time) (int, error)
}
