package entity

import "time"

// Location es un puesto de atención (ventanilla, módulo) dentro de una sede.
type Location struct {
	ID          string
	BranchID    string
	Name        string
	Description *string
	UpdatedAt   *time.Time
}

// Function agrupa servicios que un usuario de staff puede atender.
type Function struct {
	ID          string
	BranchID    string
	Name        string
	Description *string
	ServiceIDs  []string
}
