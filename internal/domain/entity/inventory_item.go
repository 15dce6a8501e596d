package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
)

// InventoryItem representa un insumo médico del inventario de la clínica.
// CurrentQuantity y AverageCost son contadores mantenidos por los movimientos registrados;
// la valorización PEPS/UEPS se deriva siempre del historial de movimientos.
type InventoryItem struct {
	ID              string
	Code            string // código único del insumo
	Name            string
	Description     string
	Unit            string // unidad de medida: caja, frasco, unidad...
	Category        string
	MinStock        decimal.Decimal
	CurrentQuantity decimal.Decimal
	AverageCost     decimal.Decimal // costo promedio ponderado (inicia en 0)
	Status          string          // activo, inactivo
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive indica si el insumo admite movimientos.
func (i *InventoryItem) IsActive() bool { return i.Status == domain.StatusActive }

// BelowMinimum indica si el contador de stock está por debajo del mínimo configurado.
func (i *InventoryItem) BelowMinimum() bool {
	return i.MinStock.GreaterThan(decimal.Zero) && i.CurrentQuantity.LessThan(i.MinStock)
}
