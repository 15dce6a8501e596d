package entity

import "time"

// Cargos del personal.
const (
	PositionMedico         = "medico"
	PositionEnfermero      = "enfermero"
	PositionTecnico        = "tecnico"
	PositionAdministrativo = "administrativo"
)

// Staff representa a un miembro del personal de la clínica.
type Staff struct {
	ID             string
	DocumentNumber string
	FirstName      string
	LastName       string
	Position       string
	Specialty      string
	LicenseNumber  string // colegiatura, opcional
	Phone          string
	Email          string
	HireDate       *time.Time
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidPosition indica si p es un cargo conocido.
func ValidPosition(p string) bool {
	switch p {
	case PositionMedico, PositionEnfermero, PositionTecnico, PositionAdministrativo:
		return true
	}
	return false
}
