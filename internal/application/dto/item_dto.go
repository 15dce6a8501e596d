package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un insumo.
type CreateItemRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Unit        string          `json:"unit" validate:"required,max=30"`
	Category    string          `json:"category" validate:"max=100"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// UpdateItemRequest entrada para actualizar un insumo (sin stock ni costo).
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Unit        *string          `json:"unit" validate:"omitempty,min=1,max=30"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Status      *string          `json:"status" validate:"omitempty,oneof=activo inactivo"`
}

// ItemResponse salida de un insumo.
type ItemResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit"`
	Category        string          `json:"category"`
	MinStock        decimal.Decimal `json:"min_stock"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de insumos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
