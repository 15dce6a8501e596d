package dto

import "time"

// CreateStaffRequest entrada para registrar personal.
type CreateStaffRequest struct {
	DocumentNumber string     `json:"document_number" validate:"required,min=4,max=20"`
	FirstName      string     `json:"first_name" validate:"required,max=100"`
	LastName       string     `json:"last_name" validate:"required,max=100"`
	Position       string     `json:"position" validate:"required,oneof=medico enfermero tecnico administrativo"`
	Specialty      string     `json:"specialty" validate:"max=100"`
	LicenseNumber  string     `json:"license_number" validate:"max=30"`
	Phone          string     `json:"phone" validate:"max=30"`
	Email          string     `json:"email" validate:"omitempty,email"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
}

// UpdateStaffRequest campos editables del personal.
type UpdateStaffRequest struct {
	FirstName     *string    `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName      *string    `json:"last_name" validate:"omitempty,min=1,max=100"`
	Position      *string    `json:"position" validate:"omitempty,oneof=medico enfermero tecnico administrativo"`
	Specialty     *string    `json:"specialty" validate:"omitempty,max=100"`
	LicenseNumber *string    `json:"license_number" validate:"omitempty,max=30"`
	Phone         *string    `json:"phone" validate:"omitempty,max=30"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	HireDate      *time.Time `json:"hire_date,omitempty"`
	Status        *string    `json:"status" validate:"omitempty,oneof=activo inactivo"`
}

// StaffResponse salida de un miembro del personal.
type StaffResponse struct {
	ID             string     `json:"id"`
	DocumentNumber string     `json:"document_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Position       string     `json:"position"`
	Specialty      string     `json:"specialty,omitempty"`
	LicenseNumber  string     `json:"license_number,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StaffListResponse lista paginada de personal.
type StaffListResponse struct {
	Items []StaffResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
