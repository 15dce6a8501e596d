package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleMedico    = "medico"
	RoleEnfermero = "enfermero"
	RoleFarmacia  = "farmacia"
)

// ValidRole indica si r es un rol conocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleMedico, RoleEnfermero, RoleFarmacia:
		return true
	}
	return false
}

// User representa una cuenta de acceso al sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca en texto plano
	Name         string
	Role         string // admin, medico, enfermero, farmacia
	Status       string // activo, inactivo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
