package dto

import "time"

// CreatePatientRequest entrada para registrar un paciente.
type CreatePatientRequest struct {
	DocumentNumber string     `json:"document_number" validate:"required,min=4,max=20"`
	FirstName      string     `json:"first_name" validate:"required,max=100"`
	LastName       string     `json:"last_name" validate:"required,max=100"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Gender         string     `json:"gender" validate:"omitempty,oneof=M F O"`
	Phone          string     `json:"phone" validate:"max=30"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Address        string     `json:"address" validate:"max=300"`
	BloodType      string     `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies      string     `json:"allergies" validate:"max=1000"`
}

// UpdatePatientRequest campos editables de un paciente.
type UpdatePatientRequest struct {
	FirstName *string    `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string    `json:"last_name" validate:"omitempty,min=1,max=100"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    *string    `json:"gender" validate:"omitempty,oneof=M F O"`
	Phone     *string    `json:"phone" validate:"omitempty,max=30"`
	Email     *string    `json:"email" validate:"omitempty,email"`
	Address   *string    `json:"address" validate:"omitempty,max=300"`
	BloodType *string    `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies *string    `json:"allergies" validate:"omitempty,max=1000"`
	Status    *string    `json:"status" validate:"omitempty,oneof=activo inactivo"`
}

// PatientResponse salida de un paciente.
type PatientResponse struct {
	ID             string     `json:"id"`
	DocumentNumber string     `json:"document_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Address        string     `json:"address,omitempty"`
	BloodType      string     `json:"blood_type,omitempty"`
	Allergies      string     `json:"allergies,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PatientListResponse lista paginada de pacientes.
type PatientListResponse struct {
	Items []PatientResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
