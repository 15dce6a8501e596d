package inventory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
)

// Method convención de costeo de lotes.
type Method string

const (
	MethodFIFO Method = "PEPS" // primero en entrar, primero en salir
	MethodLIFO Method = "UEPS" // último en entrar, primero en salir
)

// ParseMethod acepta PEPS/FIFO y UEPS/LIFO sin distinguir mayúsculas.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PEPS", "FIFO":
		return MethodFIFO, nil
	case "UEPS", "LIFO":
		return MethodLIFO, nil
	}
	return "", fmt.Errorf("método de costeo %q: %w", s, domain.ErrInvalidInput)
}

// Timeline define qué lotes puede consumir una salida.
type Timeline string

const (
	// TimelineCausal: una salida solo consume lotes con fecha de entrada <= fecha de la salida.
	TimelineCausal Timeline = "cronologico"
	// TimelineIndependent: entradas y salidas se ordenan por separado y toda salida ve todos
	// los lotes. Reproduce los reportes calculados por el sistema anterior.
	TimelineIndependent Timeline = "independiente"
)

// ParseTimeline valida el nombre de la política de línea de tiempo.
func ParseTimeline(s string) (Timeline, error) {
	switch Timeline(strings.ToLower(strings.TrimSpace(s))) {
	case TimelineCausal, "":
		return TimelineCausal, nil
	case TimelineIndependent:
		return TimelineIndependent, nil
	}
	return "", fmt.Errorf("línea de tiempo %q: %w", s, domain.ErrInvalidInput)
}

// Lot es un lote derivado de una ENTRADA; solo vive durante una valorización.
type Lot struct {
	MovementID        string          `json:"movement_id"`
	Label             string          `json:"label"`
	Date              time.Time       `json:"date"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	OriginalQuantity  decimal.Decimal `json:"original_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
}

// Value costo del saldo del lote.
func (l Lot) Value() decimal.Decimal {
	return l.RemainingQuantity.Mul(l.UnitPrice)
}

// IsExpired indica si el lote venció antes de at.
func (l Lot) IsExpired(at time.Time) bool {
	return l.ExpirationDate != nil && l.ExpirationDate.Before(at)
}

// ExpiresWithin indica si el lote (aún vigente) vence dentro de los próximos days días.
func (l Lot) ExpiresWithin(at time.Time, days int) bool {
	if l.ExpirationDate == nil || l.IsExpired(at) {
		return false
	}
	return !l.ExpirationDate.After(at.AddDate(0, 0, days))
}

// Valuation resultado de valorizar el historial de un insumo bajo una convención.
type Valuation struct {
	Method          Method          `json:"method"`
	Timeline        Timeline        `json:"timeline"`
	SurvivingLots   []Lot           `json:"surviving_lots"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	ActiveLots      int             `json:"active_lots"`
	// Shortfall cantidad solicitada por salidas que no encontró stock disponible.
	// Mayor que cero indica un historial inconsistente, no un error.
	Shortfall decimal.Decimal `json:"shortfall"`
	// EntryCount permite distinguir "sin stock por consumo total" de "nunca hubo entradas".
	EntryCount int `json:"entry_count"`
}

// MovementViolation describe por qué un movimiento no es válido.
type MovementViolation struct {
	MovementID string `json:"movement_id"`
	Reason     string `json:"reason"`
}

// InvalidMovementError agrupa todas las violaciones encontradas en un lote de movimientos.
type InvalidMovementError struct {
	Violations []MovementViolation
}

func (e *InvalidMovementError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.MovementID, v.Reason))
	}
	return fmt.Sprintf("%s (%s)", domain.ErrInvalidMovement.Error(), strings.Join(parts, "; "))
}

func (e *InvalidMovementError) Unwrap() error { return domain.ErrInvalidMovement }

// ValidateMovements revisa el lote completo antes de procesar nada y reporta cada movimiento
// inválido, no solo el primero.
func ValidateMovements(movs []entity.InventoryMovement) error {
	var violations []MovementViolation
	seen := make(map[string]struct{}, len(movs))
	for i, m := range movs {
		id := m.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i+1)
		} else {
			if _, dup := seen[id]; dup {
				violations = append(violations, MovementViolation{MovementID: id, Reason: "id duplicado"})
			}
			seen[id] = struct{}{}
		}
		if !m.IsEntry() && !m.IsWithdrawal() {
			violations = append(violations, MovementViolation{MovementID: id, Reason: fmt.Sprintf("dirección desconocida %q", m.Direction)})
		}
		if !m.Quantity.IsPositive() {
			violations = append(violations, MovementViolation{MovementID: id, Reason: "la cantidad debe ser mayor que cero"})
		}
		if m.IsEntry() && m.UnitPrice.IsNegative() {
			violations = append(violations, MovementViolation{MovementID: id, Reason: "el precio unitario no puede ser negativo"})
		}
	}
	if len(violations) > 0 {
		return &InvalidMovementError{Violations: violations}
	}
	return nil
}

// Valuate valoriza los movimientos de un insumo con la línea de tiempo cronológica.
func Valuate(movs []entity.InventoryMovement, method Method) (*Valuation, error) {
	return ValuateWithTimeline(movs, method, TimelineCausal)
}

// ValuateWithTimeline materializa un lote por ENTRADA, aplica cada SALIDA en orden de fecha
// consumiendo lotes según method y devuelve los lotes sobrevivientes con sus totales.
// Es una función pura: no modifica movs y el orden de entrada no altera el resultado.
func ValuateWithTimeline(movs []entity.InventoryMovement, method Method, timeline Timeline) (*Valuation, error) {
	if method != MethodFIFO && method != MethodLIFO {
		return nil, fmt.Errorf("método de costeo %q: %w", method, domain.ErrInvalidInput)
	}
	if timeline != TimelineCausal && timeline != TimelineIndependent {
		return nil, fmt.Errorf("línea de tiempo %q: %w", timeline, domain.ErrInvalidInput)
	}
	if err := ValidateMovements(movs); err != nil {
		return nil, err
	}

	var entries, withdrawals []entity.InventoryMovement
	for _, m := range movs {
		if m.IsEntry() {
			entries = append(entries, m)
		} else {
			withdrawals = append(withdrawals, m)
		}
	}
	sortChronologically(entries)
	sortChronologically(withdrawals)

	lots := make([]Lot, len(entries))
	for i, e := range entries {
		lots[i] = Lot{
			MovementID:        e.ID,
			Label:             e.LotLabel,
			Date:              e.Date,
			ExpirationDate:    e.ExpirationDate,
			UnitPrice:         e.UnitPrice,
			OriginalQuantity:  e.Quantity,
			RemainingQuantity: e.Quantity,
		}
	}

	shortfall := decimal.Zero
	available := len(lots)
	if timeline == TimelineCausal {
		available = 0
	}
	for _, w := range withdrawals {
		if timeline == TimelineCausal {
			for available < len(lots) && !lots[available].Date.After(w.Date) {
				available++
			}
		}
		shortfall = shortfall.Add(consume(lots[:available], w.Quantity, method))
	}

	result := &Valuation{
		Method:          method,
		Timeline:        timeline,
		SurvivingLots:   make([]Lot, 0, len(lots)),
		TotalQuantity:   decimal.Zero,
		TotalValue:      decimal.Zero,
		AverageUnitCost: decimal.Zero,
		Shortfall:       shortfall,
		EntryCount:      len(entries),
	}
	for _, l := range lots {
		if !l.RemainingQuantity.IsPositive() {
			continue
		}
		result.SurvivingLots = append(result.SurvivingLots, l)
		result.TotalQuantity = result.TotalQuantity.Add(l.RemainingQuantity)
		result.TotalValue = result.TotalValue.Add(l.Value())
	}
	result.ActiveLots = len(result.SurvivingLots)
	if result.TotalQuantity.IsPositive() {
		result.AverageUnitCost = result.TotalValue.Div(result.TotalQuantity)
	}
	return result, nil
}

// consume descuenta qty de los lotes recorriéndolos del más antiguo al más reciente (PEPS)
// o al revés (UEPS). Devuelve la cantidad que no pudo cubrirse.
func consume(lots []Lot, qty decimal.Decimal, method Method) decimal.Decimal {
	need := qty
	n := len(lots)
	for k := 0; k < n && need.IsPositive(); k++ {
		i := k
		if method == MethodLIFO {
			i = n - 1 - k
		}
		if !lots[i].RemainingQuantity.IsPositive() {
			continue
		}
		take := decimal.Min(lots[i].RemainingQuantity, need)
		lots[i].RemainingQuantity = lots[i].RemainingQuantity.Sub(take)
		need = need.Sub(take)
	}
	return need
}

// sortChronologically ordena por fecha y, a igual fecha, por ID para que el desempate
// sea determinista aunque cambie el orden de entrada.
func sortChronologically(movs []entity.InventoryMovement) {
	sort.SliceStable(movs, func(i, j int) bool {
		if !movs[i].Date.Equal(movs[j].Date) {
			return movs[i].Date.Before(movs[j].Date)
		}
		return movs[i].ID < movs[j].ID
	})
}
