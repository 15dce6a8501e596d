package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

// PatientUseCase casos de uso de la ficha de pacientes.
type PatientUseCase struct {
	repo repository.PatientRepository
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(repo repository.PatientRepository) *PatientUseCase {
	return &PatientUseCase{repo: repo}
}

// Create registra un paciente. El número de documento es único.
func (uc *PatientUseCase) Create(ctx context.Context, in dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	doc := strings.TrimSpace(in.DocumentNumber)
	existing, err := uc.repo.GetByDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Patient{
		ID:             uuid.New().String(),
		DocumentNumber: doc,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		BirthDate:      in.BirthDate,
		Gender:         in.Gender,
		Phone:          in.Phone,
		Email:          in.Email,
		Address:        in.Address,
		BloodType:      in.BloodType,
		Allergies:      in.Allergies,
		Status:         domain.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// GetByID obtiene un paciente.
func (uc *PatientUseCase) GetByID(ctx context.Context, id string) (*dto.PatientResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPatientResponse(p), nil
}

// List busca pacientes por nombre o documento.
func (uc *PatientUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.PatientListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PatientResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPatientResponse(p))
	}
	return &dto.PatientListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Update modifica los datos del paciente; el documento no cambia.
func (uc *PatientUseCase) Update(ctx context.Context, id string, in dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	setString(&p.FirstName, in.FirstName)
	setString(&p.LastName, in.LastName)
	setString(&p.Gender, in.Gender)
	setString(&p.Phone, in.Phone)
	setString(&p.Email, in.Email)
	setString(&p.Address, in.Address)
	setString(&p.BloodType, in.BloodType)
	setString(&p.Allergies, in.Allergies)
	setString(&p.Status, in.Status)
	if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// Deactivate marca al paciente como inactivo; la ficha no se elimina.
func (uc *PatientUseCase) Deactivate(ctx context.Context, id string) error {
	status := domain.StatusInactive
	_, err := uc.Update(ctx, id, dto.UpdatePatientRequest{Status: &status})
	return err
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func toPatientResponse(p *entity.Patient) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:             p.ID,
		DocumentNumber: p.DocumentNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		FullName:       p.FullName(),
		BirthDate:      p.BirthDate,
		Gender:         p.Gender,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		BloodType:      p.BloodType,
		Allergies:      p.Allergies,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
