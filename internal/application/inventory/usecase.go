package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/logger"
)

// storedScale decimales que conservan las columnas NUMERIC(18,4) de cantidad y precio.
const storedScale = 4

// RegisterMovementUseCase registra movimientos de inventario (ENTRADA, SALIDA) de forma transaccional
// con bloqueo de fila del insumo (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	invalidator CacheInvalidator
	log         *logger.Logger
	now         func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. invalidator puede ser nil.
func NewRegisterMovementUseCase(txRunner TxRunner, invalidator CacheInvalidator, log *logger.Logger) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		invalidator: invalidator,
		log:         log.Component("movimientos"),
		now:         time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// UnitPrice es obligatorio (>= 0) en ENTRADA; en SALIDA se reemplaza por el costo promedio vigente.
type MovementInputDTO struct {
	ItemID         string
	UserID         string
	Direction      string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	LotLabel       string
	ExpirationDate *time.Time
	Date           *time.Time
	Notes          string
}

// RegisterMovement valida el movimiento con las mismas reglas del motor de costeo, bloquea el insumo,
// actualiza contador y costo promedio, guarda el movimiento y al confirmar invalida la caché.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.MovementResponse, error) {
	if input.ItemID == "" {
		return nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidInput)
	}
	if exceedsScale(input.Quantity) {
		return nil, fmt.Errorf("%w: quantity admite hasta %d decimales", domain.ErrInvalidInput, storedScale)
	}
	if input.Direction == entity.DirectionEntry && exceedsScale(input.UnitPrice) {
		return nil, fmt.Errorf("%w: unit_price admite hasta %d decimales", domain.ErrInvalidInput, storedScale)
	}
	now := uc.now()
	date := now
	if input.Date != nil {
		date = *input.Date
	}
	mov := entity.InventoryMovement{
		ID:        uuid.New().String(),
		ItemID:    input.ItemID,
		Direction: input.Direction,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
		LotLabel:  input.LotLabel,
		Date:      date,
		Notes:     input.Notes,
		CreatedAt: now,
		CreatedBy: input.UserID,
	}
	if mov.IsEntry() {
		mov.ExpirationDate = input.ExpirationDate
	}
	if err := inventory.ValidateMovements([]entity.InventoryMovement{mov}); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		// Bloquea la fila del insumo para serializar movimientos concurrentes
		item, err := itemRepo.GetForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !item.IsActive() {
			return fmt.Errorf("%w: el insumo %s está inactivo", domain.ErrConflict, item.Code)
		}

		newQty := item.CurrentQuantity
		newCost := item.AverageCost
		switch {
		case mov.IsEntry():
			newCost = inventory.CostCalculator(item.CurrentQuantity, item.AverageCost, mov.Quantity, mov.UnitPrice)
			newQty = item.CurrentQuantity.Add(mov.Quantity)
		case mov.IsWithdrawal():
			if item.CurrentQuantity.LessThan(mov.Quantity) {
				return domain.ErrInsufficientStock
			}
			// la salida queda registrada al costo promedio vigente (auditoría)
			mov.UnitPrice = item.AverageCost
			newQty = item.CurrentQuantity.Sub(mov.Quantity)
		}

		if err := itemRepo.UpdateStock(ctx, item.ID, newQty, newCost); err != nil {
			return err
		}
		return movRepo.Create(ctx, &mov)
	})
	if err != nil {
		return nil, err
	}

	if uc.invalidator != nil {
		if err := uc.invalidator.Invalidate(ctx, input.ItemID); err != nil {
			uc.log.Warn().Err(err).Str("item_id", input.ItemID).Msg("no se pudo invalidar la caché de valorización")
		}
	}
	uc.log.Info().
		Str("item_id", mov.ItemID).
		Str("direction", mov.Direction).
		Str("quantity", mov.Quantity.String()).
		Str("user_id", mov.CreatedBy).
		Msg("movimiento registrado")
	return toMovementResponse(&mov), nil
}

func exceedsScale(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(storedScale))
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		Direction:      m.Direction,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		TotalCost:      m.Quantity.Mul(m.UnitPrice),
		LotLabel:       m.LotLabel,
		ExpirationDate: m.ExpirationDate,
		Date:           m.Date,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
