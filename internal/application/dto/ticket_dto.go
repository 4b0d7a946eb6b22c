package dto

import "time"

// CreateTicketRequest entrada para emitir un ticket.
type CreateTicketRequest struct {
	ServicioID string  `json:"servicio_id"`
	Notas      *string `json:"notas"`
	SedeID     string  `json:"sede_id"`
}

// CallTicketRequest cuerpo opcional de llamar: el puesto que atiende.
type CallTicketRequest struct {
	PuestoID *string `json:"puesto_id"`
}

// TicketResponse forma pública de un ticket, con servicio y puesto resueltos.
type TicketResponse struct {
	ID             string     `json:"id"`
	Codigo         string     `json:"codigo"`
	ServicioID     string     `json:"servicio_id"`
	ServicioNombre string     `json:"servicio_nombre"`
	Notas          *string    `json:"notas"`
	Estado         string     `json:"estado"`
	HoraCreacion   time.Time  `json:"hora_creacion"`
	HoraLlamado    *time.Time `json:"hora_llamado"`
	HoraCierre     *time.Time `json:"hora_cierre"`
	SedeID         string     `json:"sede_id"`
	PuestoNombre   string     `json:"puesto_nombre"`
}

// TicketNotFoundMessage se envía por el canal en vivo cuando el ticket no existe.
type TicketNotFoundMessage struct {
	Error string `json:"error"`
}
