package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia para InventoryItem (DIP).
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del insumo hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	// UpdateStock actualiza contador y costo promedio; solo lo usa el registro de movimientos.
	UpdateStock(ctx context.Context, id string, quantity, averageCost decimal.Decimal) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.InventoryItem, error)
	ListActive(ctx context.Context) ([]*entity.InventoryItem, error)
}
