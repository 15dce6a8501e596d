package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/logger"
)

// ItemUseCase casos de uso CRUD para insumos. Stock y costo promedio se manejan vía movimientos.
type ItemUseCase struct {
	repo        repository.InventoryItemRepository
	invalidator CacheInvalidator
	log         *logger.Logger
}

// NewItemUseCase construye el caso de uso. invalidator puede ser nil.
func NewItemUseCase(repo repository.InventoryItemRepository, invalidator CacheInvalidator, log *logger.Logger) *ItemUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{repo: repo, invalidator: invalidator, log: log.Component("insumos")}
}

// Create crea un nuevo insumo con stock y costo en cero.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.MinStock.IsNegative() {
		return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.InventoryItem{
		ID:              uuid.New().String(),
		Code:            code,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Unit:            in.Unit,
		Category:        in.Category,
		MinStock:        in.MinStock,
		CurrentQuantity: decimal.Zero,
		AverageCost:     decimal.Zero,
		Status:          domain.StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un insumo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualiza datos descriptivos del insumo.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
		}
		item.MinStock = *in.MinStock
	}
	if in.Status != nil {
		item.Status = *in.Status
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	// las valorizaciones cacheadas llevan código, nombre y unidad del insumo
	if uc.invalidator != nil {
		if err := uc.invalidator.Invalidate(ctx, item.ID); err != nil {
			uc.log.Warn().Err(err).Str("item_id", item.ID).Msg("no se pudo invalidar la caché de valorización")
		}
	}
	return toItemResponse(item), nil
}

// List lista insumos con búsqueda por código o nombre y paginación.
func (uc *ItemUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Deactivate marca el insumo como inactivo. Su historial se conserva y deja de admitir movimientos.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) error {
	status := domain.StatusInactive
	_, err := uc.Update(ctx, id, dto.UpdateItemRequest{Status: &status})
	return err
}

func toItemResponse(i *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:              i.ID,
		Code:            i.Code,
		Name:            i.Name,
		Description:     i.Description,
		Unit:            i.Unit,
		Category:        i.Category,
		MinStock:        i.MinStock,
		CurrentQuantity: i.CurrentQuantity,
		AverageCost:     i.AverageCost,
		Status:          i.Status,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}
