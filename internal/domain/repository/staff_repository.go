package repository

import (
	"context"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
)

// StaffRepository define el puerto de persistencia para el personal.
type StaffRepository interface {
	Create(ctx context.Context, s *entity.Staff) error
	GetByID(ctx context.Context, id string) (*entity.Staff, error)
	GetByDocument(ctx context.Context, documentNumber string) (*entity.Staff, error)
	Update(ctx context.Context, s *entity.Staff) error
	List(ctx context.Context, search, position string, limit, offset int) ([]*entity.Staff, error)
}
