package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/logger"
)

// ItemLister fuente de los insumos a revaluar.
type ItemLister interface {
	ListActive(ctx context.Context) ([]*entity.InventoryItem, error)
}

// Revaluator invalida y recalcula la valorización de un insumo.
type Revaluator interface {
	Invalidate(ctx context.Context, itemID string) error
	ValuateItem(ctx context.Context, itemID string, method inventory.Method) (*dto.ItemValuationResponse, error)
}

// RevaluationSummary resultado de una corrida.
type RevaluationSummary struct {
	Items         int
	Valuations    int
	Invalid       int
	Shortfalls    int
	Discrepancies int
}

// RevaluationJob recalcula PEPS y UEPS para cada insumo activo.
type RevaluationJob struct {
	items     ItemLister
	valuation Revaluator
	log       *logger.Logger
}

// NewRevaluationJob construye el job.
func NewRevaluationJob(items ItemLister, valuation Revaluator, log *logger.Logger) *RevaluationJob {
	if log == nil {
		log = logger.Nop()
	}
	return &RevaluationJob{items: items, valuation: valuation, log: log.Component("revaluacion")}
}

// Handle procesa TaskInventoryRevaluation. Un payload corrupto no se reintenta.
func (j *RevaluationJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload RevaluationPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("payload de revaluación inválido: %v: %w", err, asynq.SkipRetry)
		}
	}
	summary, err := j.Run(ctx, payload.ItemIDs)
	if err != nil {
		return err
	}
	j.log.Info().
		Int("items", summary.Items).
		Int("valorizaciones", summary.Valuations).
		Int("invalidos", summary.Invalid).
		Int("desabastecimientos", summary.Shortfalls).
		Int("descuadres", summary.Discrepancies).
		Msg("revaluación completada")
	return nil
}

// Run revalúa los insumos indicados (o todos los activos). Un historial inválido se registra
// y se omite; cualquier otro error corta la corrida para que la cola la reintente.
func (j *RevaluationJob) Run(ctx context.Context, itemIDs []string) (RevaluationSummary, error) {
	var summary RevaluationSummary
	items, err := j.items.ListActive(ctx)
	if err != nil {
		return summary, fmt.Errorf("listar insumos activos: %w", err)
	}
	items = filterItems(items, itemIDs)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Items++
		if err := j.valuation.Invalidate(ctx, item.ID); err != nil {
			j.log.Warn().Err(err).Str("item_id", item.ID).Msg("invalidar caché")
		}
		for _, method := range []inventory.Method{inventory.MethodFIFO, inventory.MethodLIFO} {
			v, err := j.valuation.ValuateItem(ctx, item.ID, method)
			if errors.Is(err, domain.ErrInvalidMovement) {
				summary.Invalid++
				j.log.Error().Err(err).Str("item_id", item.ID).Str("code", item.Code).Msg("historial de movimientos inválido")
				break
			}
			if err != nil {
				return summary, fmt.Errorf("valorizar %s (%s): %w", item.Code, method, err)
			}
			summary.Valuations++
			if v.Shortfall.IsPositive() {
				summary.Shortfalls++
				j.log.Warn().
					Str("item_id", item.ID).
					Str("code", item.Code).
					Str("method", string(method)).
					Str("faltante", v.Shortfall.String()).
					Msg("salidas sin stock disponible")
			}
			// El descuadre no depende del método; se reporta una sola vez.
			if method == inventory.MethodFIFO && !v.Discrepancy.IsZero() {
				summary.Discrepancies++
				j.log.Warn().
					Str("item_id", item.ID).
					Str("code", item.Code).
					Str("contador", v.CounterQuantity.String()).
					Str("derivado", v.TotalQuantity.String()).
					Msg("descuadre entre contador y lotes")
			}
		}
	}
	return summary, nil
}

func filterItems(items []*entity.InventoryItem, ids []string) []*entity.InventoryItem {
	if len(ids) == 0 {
		return items
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := items[:0:0]
	for _, it := range items {
		if _, ok := want[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}
