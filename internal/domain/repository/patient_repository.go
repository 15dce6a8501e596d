package repository

import (
	"context"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
)

// PatientRepository define el puerto de persistencia para Patient.
type PatientRepository interface {
	Create(ctx context.Context, p *entity.Patient) error
	GetByID(ctx context.Context, id string) (*entity.Patient, error)
	GetByDocument(ctx context.Context, documentNumber string) (*entity.Patient, error)
	Update(ctx context.Context, p *entity.Patient) error
	// List filtra por nombre o documento cuando search no está vacío.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Patient, error)
}
