package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/logger"
)

// reportConcurrency máximo de insumos valorizados en paralelo por reporte.
const reportConcurrency = 8

// ValuationOptions parámetros de valorización tomados de la configuración.
type ValuationOptions struct {
	Timeline      inventory.Timeline
	DefaultMethod inventory.Method
	CacheTTL      time.Duration
}

// ValuationUseCase valoriza insumos aplicando el motor PEPS/UEPS sobre su historial de movimientos.
type ValuationUseCase struct {
	itemRepo repository.InventoryItemRepository
	movRepo  repository.InventoryMovementRepository
	snapshot SnapshotReader
	cache    ValuationCache
	opts     ValuationOptions
	log      *logger.Logger
	group    singleflight.Group
	now      func() time.Time

	// generations cuenta las invalidaciones por insumo; un cálculo solo se cachea si no hubo
	// ninguna mientras leía.
	genMu       sync.Mutex
	generations map[string]uint64
}

// NewValuationUseCase construye el caso de uso. cache puede ser nil (sin caché); sin snapshot
// el insumo y sus movimientos se leen con consultas independientes.
func NewValuationUseCase(
	itemRepo repository.InventoryItemRepository,
	movRepo repository.InventoryMovementRepository,
	snapshot SnapshotReader,
	cache ValuationCache,
	opts ValuationOptions,
	log *logger.Logger,
) *ValuationUseCase {
	if opts.Timeline == "" {
		opts.Timeline = inventory.TimelineCausal
	}
	if opts.DefaultMethod == "" {
		opts.DefaultMethod = inventory.MethodFIFO
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ValuationUseCase{
		itemRepo:    itemRepo,
		movRepo:     movRepo,
		snapshot:    snapshot,
		cache:       cache,
		opts:        opts,
		log:         log.Component("valorizacion"),
		now:         time.Now,
		generations: make(map[string]uint64),
	}
}

// DefaultMethod método usado cuando la petición no indica uno.
func (uc *ValuationUseCase) DefaultMethod() inventory.Method { return uc.opts.DefaultMethod }

// ResolveMethod interpreta el método pedido; vacío equivale al método por defecto.
func (uc *ValuationUseCase) ResolveMethod(s string) (inventory.Method, error) {
	if s == "" {
		return uc.opts.DefaultMethod, nil
	}
	return inventory.ParseMethod(s)
}

// CacheKey clave de caché de una valorización.
func CacheKey(itemID string, method inventory.Method, timeline inventory.Timeline) string {
	return fmt.Sprintf("valorizacion:%s:%s:%s", itemID, method, timeline)
}

// ValuateItem valoriza un insumo. Las peticiones idénticas concurrentes comparten un único cálculo
// y el resultado se guarda en caché; una falla de caché nunca hace fallar la petición.
func (uc *ValuationUseCase) ValuateItem(ctx context.Context, itemID string, method inventory.Method) (*dto.ItemValuationResponse, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidInput)
	}
	key := CacheKey(itemID, method, uc.opts.Timeline)
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		} else if cached != nil {
			return cached, nil
		}
	}

	// El cálculo compartido no depende de la cancelación de quien llegó primero.
	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		return uc.compute(shared, key, itemID, method)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.ItemValuationResponse), nil
	}
}

func (uc *ValuationUseCase) compute(ctx context.Context, key, itemID string, method inventory.Method) (*dto.ItemValuationResponse, error) {
	gen := uc.generation(itemID)
	item, movs, err := uc.readHistory(ctx, itemID)
	if err != nil {
		return nil, err
	}
	val, err := inventory.ValuateWithTimeline(movs, method, uc.opts.Timeline)
	if err != nil {
		return nil, err
	}
	out := toValuationResponse(item, val, uc.now())

	if uc.cache != nil && uc.opts.CacheTTL > 0 {
		uc.store(ctx, key, itemID, gen, out)
	}
	return out, nil
}

// readHistory lee el insumo y su historial en la misma instantánea.
func (uc *ValuationUseCase) readHistory(ctx context.Context, itemID string) (*entity.InventoryItem, []entity.InventoryMovement, error) {
	var (
		item *entity.InventoryItem
		movs []entity.InventoryMovement
	)
	read := func(movRepo repository.InventoryMovementRepository, itemRepo repository.InventoryItemRepository) error {
		var err error
		if item, err = itemRepo.GetByID(ctx, itemID); err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		movs, err = movRepo.ListAllByItem(ctx, itemID)
		return err
	}
	var err error
	if uc.snapshot != nil {
		err = uc.snapshot.ReadSnapshot(ctx, read)
	} else {
		err = read(uc.movRepo, uc.itemRepo)
	}
	if err != nil {
		return nil, nil, err
	}
	return item, movs, nil
}

// store cachea el resultado solo si el insumo no fue invalidado desde gen. Si la invalidación
// llega durante el Set, la entrada recién escrita se borra.
func (uc *ValuationUseCase) store(ctx context.Context, key, itemID string, gen uint64, v *dto.ItemValuationResponse) {
	if uc.generation(itemID) != gen {
		uc.log.Debug().Str("key", key).Msg("valorización desactualizada, no se cachea")
		return
	}
	if err := uc.cache.Set(ctx, key, v, uc.opts.CacheTTL); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
		return
	}
	if uc.generation(itemID) != gen {
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo descartar valorización desactualizada")
		}
	}
}

func (uc *ValuationUseCase) generation(itemID string) uint64 {
	uc.genMu.Lock()
	defer uc.genMu.Unlock()
	return uc.generations[itemID]
}

// CompareMethods valoriza el insumo con PEPS y UEPS en paralelo.
func (uc *ValuationUseCase) CompareMethods(ctx context.Context, itemID string) (*dto.MethodComparisonResponse, error) {
	var fifo, lifo *dto.ItemValuationResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := uc.ValuateItem(gctx, itemID, inventory.MethodFIFO)
		fifo = v
		return err
	})
	g.Go(func() error {
		v, err := uc.ValuateItem(gctx, itemID, inventory.MethodLIFO)
		lifo = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.MethodComparisonResponse{
		ItemID:          fifo.ItemID,
		Code:            fifo.Code,
		Name:            fifo.Name,
		FIFO:            *fifo,
		LIFO:            *lifo,
		ValueDifference: fifo.TotalValue.Sub(lifo.TotalValue),
	}, nil
}

// InventoryReport valoriza todos los insumos activos. Un insumo con historial inválido se reporta
// en Failures sin hacer fallar el reporte; los errores de infraestructura sí lo cancelan.
func (uc *ValuationUseCase) InventoryReport(ctx context.Context, method inventory.Method) (*dto.InventoryReportResponse, error) {
	items, err := uc.itemRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*dto.ItemValuationResponse, len(items))
	failures := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reportConcurrency)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			v, err := uc.ValuateItem(gctx, it.ID, method)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidMovement) || errors.Is(err, domain.ErrNotFound) {
					failures[i] = err
					return nil
				}
				return fmt.Errorf("valorizar %s: %w", it.Code, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &dto.InventoryReportResponse{
		Method:      string(method),
		Timeline:    string(uc.opts.Timeline),
		GeneratedAt: uc.now(),
		Items:       make([]dto.ItemValuationResponse, 0, len(items)),
	}
	for i, it := range items {
		if failures[i] != nil {
			uc.log.Warn().Err(failures[i]).Str("item_id", it.ID).Msg("insumo excluido del reporte")
			report.Failures = append(report.Failures, dto.ReportFailure{
				ItemID: it.ID, Code: it.Code, Name: it.Name, Error: failures[i].Error(),
			})
			continue
		}
		v := results[i]
		report.Items = append(report.Items, *v)
		report.TotalValue = report.TotalValue.Add(v.TotalValue)
		report.ActiveLots += v.ActiveLots
	}
	report.ItemCount = len(report.Items)
	return report, nil
}

// Invalidate descarta las valorizaciones cacheadas del insumo (ambos métodos y líneas de tiempo).
func (uc *ValuationUseCase) Invalidate(ctx context.Context, itemID string) error {
	uc.genMu.Lock()
	uc.generations[itemID]++
	uc.genMu.Unlock()
	if uc.cache == nil {
		return nil
	}
	keys := make([]string, 0, 4)
	for _, m := range []inventory.Method{inventory.MethodFIFO, inventory.MethodLIFO} {
		for _, tl := range []inventory.Timeline{inventory.TimelineCausal, inventory.TimelineIndependent} {
			keys = append(keys, CacheKey(itemID, m, tl))
		}
	}
	return uc.cache.Delete(ctx, keys...)
}

// ListMovements devuelve el kardex paginado del insumo, del más reciente al más antiguo.
func (uc *ValuationUseCase) ListMovements(ctx context.Context, itemID string, from, to *time.Time, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByItem(ctx, itemID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.CountByItem(ctx, itemID, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toValuationResponse(item *entity.InventoryItem, v *inventory.Valuation, at time.Time) *dto.ItemValuationResponse {
	lots := make([]dto.LotResponse, 0, len(v.SurvivingLots))
	for _, l := range v.SurvivingLots {
		lots = append(lots, dto.LotResponse{
			MovementID:        l.MovementID,
			Label:             l.Label,
			Date:              l.Date,
			ExpirationDate:    l.ExpirationDate,
			UnitPrice:         l.UnitPrice,
			OriginalQuantity:  l.OriginalQuantity,
			RemainingQuantity: l.RemainingQuantity,
			Value:             l.Value(),
		})
	}
	return &dto.ItemValuationResponse{
		ItemID:          item.ID,
		Code:            item.Code,
		Name:            item.Name,
		Unit:            item.Unit,
		Method:          string(v.Method),
		Timeline:        string(v.Timeline),
		Lots:            lots,
		TotalQuantity:   v.TotalQuantity,
		TotalValue:      v.TotalValue,
		AverageUnitCost: v.AverageUnitCost.Round(4),
		ActiveLots:      v.ActiveLots,
		Shortfall:       v.Shortfall,
		EntryCount:      v.EntryCount,
		CounterQuantity: item.CurrentQuantity,
		Discrepancy:     item.CurrentQuantity.Sub(v.TotalQuantity),
		CalculatedAt:    at,
	}
}
