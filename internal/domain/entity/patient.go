package entity

import "time"

// Patient representa la ficha de un paciente.
type Patient struct {
	ID             string
	DocumentNumber string // DNI u otro documento, único
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	Gender         string // M, F, O
	Phone          string
	Email          string
	Address        string
	BloodType      string
	Allergies      string
	Status         string // activo, inactivo
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName devuelve nombre y apellido.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
