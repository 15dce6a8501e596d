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

// StaffUseCase casos de uso del personal de la clínica.
type StaffUseCase struct {
	repo repository.StaffRepository
}

// NewStaffUseCase construye el caso de uso.
func NewStaffUseCase(repo repository.StaffRepository) *StaffUseCase {
	return &StaffUseCase{repo: repo}
}

// Create registra a un miembro del personal.
func (uc *StaffUseCase) Create(ctx context.Context, in dto.CreateStaffRequest) (*dto.StaffResponse, error) {
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
	s := &entity.Staff{
		ID:             uuid.New().String(),
		DocumentNumber: doc,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Position:       in.Position,
		Specialty:      in.Specialty,
		LicenseNumber:  in.LicenseNumber,
		Phone:          in.Phone,
		Email:          in.Email,
		HireDate:       in.HireDate,
		Status:         domain.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toStaffResponse(s), nil
}

// GetByID obtiene un miembro del personal.
func (uc *StaffUseCase) GetByID(ctx context.Context, id string) (*dto.StaffResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toStaffResponse(s), nil
}

// List busca personal por nombre o documento, opcionalmente filtrando por cargo.
func (uc *StaffUseCase) List(ctx context.Context, search, position string, page dto.PageRequest) (*dto.StaffListResponse, error) {
	if position != "" && !entity.ValidPosition(position) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), position, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StaffResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStaffResponse(s))
	}
	return &dto.StaffListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Update modifica los datos del personal.
func (uc *StaffUseCase) Update(ctx context.Context, id string, in dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	setString(&s.FirstName, in.FirstName)
	setString(&s.LastName, in.LastName)
	setString(&s.Position, in.Position)
	setString(&s.Specialty, in.Specialty)
	setString(&s.LicenseNumber, in.LicenseNumber)
	setString(&s.Phone, in.Phone)
	setString(&s.Email, in.Email)
	setString(&s.Status, in.Status)
	if in.HireDate != nil {
		s.HireDate = in.HireDate
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toStaffResponse(s), nil
}

// Deactivate marca al miembro del personal como inactivo.
func (uc *StaffUseCase) Deactivate(ctx context.Context, id string) error {
	status := domain.StatusInactive
	_, err := uc.Update(ctx, id, dto.UpdateStaffRequest{Status: &status})
	return err
}

func toStaffResponse(s *entity.Staff) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:             s.ID,
		DocumentNumber: s.DocumentNumber,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Position:       s.Position,
		Specialty:      s.Specialty,
		LicenseNumber:  s.LicenseNumber,
		Phone:          s.Phone,
		Email:          s.Email,
		HireDate:       s.HireDate,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
