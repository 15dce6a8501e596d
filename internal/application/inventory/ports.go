package inventory

import (
	"context"
	"time"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre el movimiento y el contador del insumo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}

// SnapshotReader ejecuta lecturas sobre una vista consistente de la BD: todo lo que fn lee
// corresponde al mismo instante aunque otros movimientos se confirmen en paralelo.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}

// ValuationCache guarda valorizaciones ya calculadas. Get devuelve nil, nil si no hay entrada.
type ValuationCache interface {
	Get(ctx context.Context, key string) (*dto.ItemValuationResponse, error)
	Set(ctx context.Context, key string, v *dto.ItemValuationResponse, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheInvalidator descarta valorizaciones cacheadas de un insumo.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, itemID string) error
}

// ValuationPDFGenerator genera el reporte de valorización en PDF.
type ValuationPDFGenerator interface {
	GenerateValuationReport(report *dto.InventoryReportResponse) ([]byte, error)
}

// ValuationSpreadsheetGenerator genera el reporte de valorización como libro XLSX.
type ValuationSpreadsheetGenerator interface {
	GenerateValuationWorkbook(report *dto.InventoryReportResponse) ([]byte, error)
}
