package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa. Sin id se genera uno.
type CreateCompanyRequest struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Direccion   *string `json:"direccion"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Nombre           *string `json:"nombre"`
	Descripcion      *string `json:"descripcion"`
	Direccion        *string `json:"direccion"`
	CantidadSedes    *int    `json:"cantidad_sedes"`
	CantidadUsuarios *int    `json:"cantidad_usuarios"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID               string     `json:"id"`
	Nombre           string     `json:"nombre"`
	Descripcion      *string    `json:"descripcion"`
	Direccion        *string    `json:"direccion"`
	CantidadSedes    int        `json:"cantidad_sedes"`
	CantidadUsuarios int        `json:"cantidad_usuarios"`
	FechaCreacion    time.Time  `json:"fecha_creacion"`
	Actualizacion    *time.Time `json:"ultima_actualizacion"`
}

// BranchRequest entrada para crear o actualizar una sede.
type BranchRequest struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Direccion *string `json:"direccion"`
	Ciudad    *string `json:"ciudad"`
	Telefono  *string `json:"telefono"`
	EmpresaID string  `json:"empresa_id"`
}

// BranchResponse salida de una sede.
type BranchResponse struct {
	ID            string     `json:"id"`
	Nombre        string     `json:"nombre"`
	Direccion     *string    `json:"direccion"`
	Ciudad        *string    `json:"ciudad"`
	Telefono      *string    `json:"telefono"`
	EmpresaID     string     `json:"empresa_id"`
	Actualizacion *time.Time `json:"ultima_actualizacion"`
}
