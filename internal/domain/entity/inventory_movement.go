package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento de inventario.
const (
	DirectionEntry      = "ENTRADA" // ingreso de un lote
	DirectionWithdrawal = "SALIDA"  // consumo o despacho
)

// InventoryMovement representa una transacción histórica (entrada o salida) de un insumo.
// Es inmutable una vez registrada; el orden cronológico lo da Date, no ID.
type InventoryMovement struct {
	ID             string
	ItemID         string
	Direction      string          // ENTRADA, SALIDA
	Quantity       decimal.Decimal // siempre positiva
	UnitPrice      decimal.Decimal // costo de adquisición en ENTRADA; en SALIDA solo auditoría
	LotLabel       string          // lote físico, solo para mostrar
	ExpirationDate *time.Time
	Date           time.Time
	Notes          string
	CreatedAt      time.Time
	CreatedBy      string
}

// IsEntry indica si el movimiento ingresa stock.
func (m InventoryMovement) IsEntry() bool { return m.Direction == DirectionEntry }

// IsWithdrawal indica si el movimiento retira stock.
func (m InventoryMovement) IsWithdrawal() bool { return m.Direction == DirectionWithdrawal }
