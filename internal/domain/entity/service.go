package entity

import "time"

// Límites permitidos para el rango de numeración de un servicio.
const (
	MinRange = 1
	MaxRange = 999
)

// Service es un servicio ofrecido en una sede. Posee el contador de turnos.
//
// Invariante: RangeStart <= Current <= RangeEnd desde su creación.
type Service struct {
	ID          string
	BranchID    string
	Name        string
	Description *string
	Letter      string // identificador_letra
	RangeStart  int
	RangeEnd    int
	Current     int        // contador_actual: próximo número a emitir
	LastIssued  *time.Time // ultima_generacion: marca para el reinicio diario
	Active      bool
}
