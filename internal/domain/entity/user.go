package entity

import "time"

// Perfiles de staff.
const (
	ProfileAdmin      = "admin"
	ProfileOperator   = "operador"
	ProfileSupervisor = "supervisor"
)

// Estados de staff.
const (
	UserActive   = "activo"
	UserInactive = "inactivo"
)

// User es un usuario de staff que atiende turnos.
type User struct {
	ID           string
	FirstName    string
	LastName     *string
	Username     string
	PasswordHash string // bcrypt, nunca se expone
	Profile      string
	Status       string
	FunctionID   *string
	CompanyID    *string
	BranchID     *string
	UpdatedAt    *time.Time
}

// Client es un usuario final de la app móvil.
type Client struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
