package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/items/:id/movements.
// Date vacío equivale a "ahora"; UnitPrice solo se usa en ENTRADA.
type RegisterMovementRequest struct {
	Direction      string          `json:"direction" validate:"required,oneof=ENTRADA SALIDA"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LotLabel       string          `json:"lot_label" validate:"max=100"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Date           *time.Time      `json:"date,omitempty"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// MovementResponse salida de un movimiento (kardex).
type MovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	Direction      string          `json:"direction"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	LotLabel       string          `json:"lot_label,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Date           time.Time       `json:"date"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LotResponse lote sobreviviente de una valorización.
type LotResponse struct {
	MovementID        string          `json:"movement_id"`
	Label             string          `json:"label,omitempty"`
	Date              time.Time       `json:"date"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	OriginalQuantity  decimal.Decimal `json:"original_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Value             decimal.Decimal `json:"value"`
}

// ItemValuationResponse valorización de un insumo bajo un método.
// Discrepancy = CounterQuantity - TotalQuantity; distinto de cero indica descuadre.
type ItemValuationResponse struct {
	ItemID          string          `json:"item_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	Method          string          `json:"method"`
	Timeline        string          `json:"timeline"`
	Lots            []LotResponse   `json:"lots"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	ActiveLots      int             `json:"active_lots"`
	Shortfall       decimal.Decimal `json:"shortfall"`
	EntryCount      int             `json:"entry_count"`
	CounterQuantity decimal.Decimal `json:"counter_quantity"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
	CalculatedAt    time.Time       `json:"calculated_at"`
}

// MethodComparisonResponse PEPS y UEPS lado a lado. ValueDifference = PEPS - UEPS.
type MethodComparisonResponse struct {
	ItemID          string                `json:"item_id"`
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	FIFO            ItemValuationResponse `json:"peps"`
	LIFO            ItemValuationResponse `json:"ueps"`
	ValueDifference decimal.Decimal       `json:"value_difference"`
}

// ReportFailure insumo que no pudo valorizarse (historial inválido u otro error).
type ReportFailure struct {
	ItemID string `json:"item_id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Error  string `json:"error"`
}

// InventoryReportResponse valorización de todo el inventario activo.
type InventoryReportResponse struct {
	Method      string                  `json:"method"`
	Timeline    string                  `json:"timeline"`
	GeneratedAt time.Time               `json:"generated_at"`
	Items       []ItemValuationResponse `json:"items"`
	Failures    []ReportFailure         `json:"failures,omitempty"`
	TotalValue  decimal.Decimal         `json:"total_value"`
	ActiveLots  int                     `json:"active_lots"`
	ItemCount   int                     `json:"item_count"`
}

// Tipos de alerta de inventario.
const (
	AlertMinStock    = "STOCK_MINIMO"
	AlertExpiredLot  = "LOTE_VENCIDO"
	AlertExpiringLot = "LOTE_POR_VENCER"
	AlertDiscrepancy = "DESCUADRE"
	AlertShortfall   = "DESABASTECIMIENTO"
)

// AlertResponse alerta sobre un insumo o uno de sus lotes.
type AlertResponse struct {
	Type           string          `json:"type"`
	Severity       int             `json:"severity"` // 1 = más grave
	ItemID         string          `json:"item_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	LotLabel       string          `json:"lot_label,omitempty"`
	MovementID     string          `json:"movement_id,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Message        string          `json:"message"`
}
