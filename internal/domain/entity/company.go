package entity

import "time"

// Company representa una empresa (tenant) que opera una o varias sedes.
type Company struct {
	ID          string
	Name        string
	Description *string
	Address     *string
	BranchCount int // mantenido al crear/eliminar sedes
	UserCount   int // mantenido al crear/eliminar usuarios
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Branch representa una sede de una empresa.
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   *string
	City      *string
	Phone     *string
	UpdatedAt *time.Time
}
