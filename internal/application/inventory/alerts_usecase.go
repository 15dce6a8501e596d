package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

// Severidad por tipo de alerta (1 = más urgente).
var alertSeverity = map[string]int{
	dto.AlertExpiredLot:  1,
	dto.AlertShortfall:   1,
	dto.AlertMinStock:    2,
	dto.AlertDiscrepancy: 2,
	dto.AlertExpiringLot: 3,
}

// AlertsUseCase genera la lista de alertas del inventario de la clínica: stock bajo el mínimo,
// lotes vencidos o por vencer y descuadres entre el contador y el historial.
type AlertsUseCase struct {
	itemRepo  repository.InventoryItemRepository
	valuation *ValuationUseCase
	now       func() time.Time
}

// NewAlertsUseCase construye el caso de uso de alertas.
func NewAlertsUseCase(itemRepo repository.InventoryItemRepository, valuation *ValuationUseCase) *AlertsUseCase {
	return &AlertsUseCase{itemRepo: itemRepo, valuation: valuation, now: time.Now}
}

// GenerateAlerts revisa todos los insumos activos. Los lotes se toman de la valorización PEPS,
// que deja vivos los lotes más recientes igual que el despacho físico.
func (uc *AlertsUseCase) GenerateAlerts(ctx context.Context, withinDays int) ([]dto.AlertResponse, error) {
	if withinDays < 0 {
		withinDays = 0
	}
	items, err := uc.itemRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	report, err := uc.valuation.InventoryReport(ctx, inventory.MethodFIFO)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]dto.ItemValuationResponse, len(report.Items))
	for _, v := range report.Items {
		byID[v.ItemID] = v
	}

	now := uc.now()
	alerts := make([]dto.AlertResponse, 0)
	add := func(a dto.AlertResponse) {
		a.Severity = alertSeverity[a.Type]
		alerts = append(alerts, a)
	}

	for _, item := range items {
		if item.BelowMinimum() {
			add(dto.AlertResponse{
				Type: dto.AlertMinStock, ItemID: item.ID, Code: item.Code, Name: item.Name,
				Quantity: item.CurrentQuantity,
				Message:  fmt.Sprintf("stock %s por debajo del mínimo %s", item.CurrentQuantity, item.MinStock),
			})
		}
		v, ok := byID[item.ID]
		if !ok {
			continue
		}
		for _, l := range v.Lots {
			lot := inventory.Lot{ExpirationDate: l.ExpirationDate}
			switch {
			case lot.IsExpired(now):
				add(dto.AlertResponse{
					Type: dto.AlertExpiredLot, ItemID: item.ID, Code: item.Code, Name: item.Name,
					LotLabel: l.Label, MovementID: l.MovementID, ExpirationDate: l.ExpirationDate,
					Quantity: l.RemainingQuantity,
					Message:  fmt.Sprintf("lote %s vencido el %s", l.Label, l.ExpirationDate.Format("2006-01-02")),
				})
			case lot.ExpiresWithin(now, withinDays):
				add(dto.AlertResponse{
					Type: dto.AlertExpiringLot, ItemID: item.ID, Code: item.Code, Name: item.Name,
					LotLabel: l.Label, MovementID: l.MovementID, ExpirationDate: l.ExpirationDate,
					Quantity: l.RemainingQuantity,
					Message:  fmt.Sprintf("lote %s vence el %s", l.Label, l.ExpirationDate.Format("2006-01-02")),
				})
			}
		}
		if !v.Discrepancy.IsZero() {
			add(dto.AlertResponse{
				Type: dto.AlertDiscrepancy, ItemID: item.ID, Code: item.Code, Name: item.Name,
				Quantity: v.Discrepancy,
				Message:  fmt.Sprintf("contador %s y movimientos %s no coinciden", v.CounterQuantity, v.TotalQuantity),
			})
		}
		if v.Shortfall.IsPositive() {
			add(dto.AlertResponse{
				Type: dto.AlertShortfall, ItemID: item.ID, Code: item.Code, Name: item.Name,
				Quantity: v.Shortfall,
				Message:  fmt.Sprintf("salidas sin stock disponible por %s", v.Shortfall),
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Type < b.Type
	})
	return alerts, nil
}
