package dto

import "time"

// CreateServiceRequest entrada para crear un servicio con su rango de numeración.
type CreateServiceRequest struct {
	ID                 string  `json:"id"`
	Nombre             string  `json:"nombre"`
	Descripcion        *string `json:"descripcion"`
	SedeID             string  `json:"sede_id"`
	IdentificadorLetra string  `json:"identificador_letra"`
	RangoInicio        int     `json:"rango_inicio"`
	RangoFin           int     `json:"rango_fin"`
}

// ServiceResponse salida de un servicio con el estado de su contador.
type ServiceResponse struct {
	ID                 string     `json:"id"`
	Nombre             string     `json:"nombre"`
	Descripcion        *string    `json:"descripcion"`
	SedeID             string     `json:"sede_id"`
	IdentificadorLetra string     `json:"identificador_letra"`
	RangoInicio        int        `json:"rango_inicio"`
	RangoFin           int        `json:"rango_fin"`
	ContadorActual     int        `json:"contador_actual"`
	UltimaGeneracion   *time.Time `json:"ultima_generacion"`
	Activo             bool       `json:"activo"`
}

// TurnoResponse resultado de generar_turno.
type TurnoResponse struct {
	Turno  string `json:"turno"`
	Numero int    `json:"numero"`
	Letra  string `json:"letra"`
}

// FunctionRequest entrada para crear o actualizar una función.
type FunctionRequest struct {
	ID          string   `json:"id"`
	Nombre      string   `json:"nombre"`
	Descripcion *string  `json:"descripcion"`
	SedeID      string   `json:"sede_id"`
	Servicios   []string `json:"servicios"`
}

// FunctionResponse salida de una función con los ids de sus servicios.
type FunctionResponse struct {
	ID          string   `json:"id"`
	Nombre      string   `json:"nombre"`
	Descripcion *string  `json:"descripcion"`
	SedeID      string   `json:"sede_id"`
	Servicios   []string `json:"servicios"`
}

// LocationRequest entrada para crear o actualizar una locación (puesto).
type LocationRequest struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	SedeID      string  `json:"sede_id"`
}

// LocationResponse salida de una locación.
type LocationResponse struct {
	ID            string     `json:"id"`
	Nombre        string     `json:"nombre"`
	Descripcion   *string    `json:"descripcion"`
	SedeID        string     `json:"sede_id"`
	Actualizacion *time.Time `json:"ultima_actualizacion"`
}
