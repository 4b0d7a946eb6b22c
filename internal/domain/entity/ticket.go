package entity

import (
	"time"

	"github.com/jhoicas/turnos-api/internal/domain"
)

// Estados de un ticket.
const (
	TicketPending = "pendiente"
	TicketCalled  = "llamado"
	TicketClosed  = "cerrado"
)

// Acciones del ciclo de vida.
const (
	ActionCall  = "llamar"
	ActionClose = "cerrar"
)

// DeskPlaceholder se muestra cuando el ticket no tiene puesto asignado.
const DeskPlaceholder = "No asignado"

var transitionMap = map[string][]string{
	ActionCall:  {TicketPending},
	ActionClose: {TicketPending, TicketCalled},
}

// ValidTransition indica si action puede aplicarse a un ticket en estado from.
func ValidTransition(action, from string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// ValidStatus indica si s es un estado conocido.
func ValidStatus(s string) bool {
	return s == TicketPending || s == TicketCalled || s == TicketClosed
}

// Ticket es un turno emitido para un servicio. Code se congela al crearlo.
type Ticket struct {
	ID        string
	Code      string
	ServiceID string
	BranchID  string
	Notes     *string
	Status    string
	CreatedAt time.Time
	CalledAt  *time.Time
	ClosedAt  *time.Time
	DeskID    *string // puesto (locación) que llamó el ticket
	RequestID *string // Idempotency-Key de la creación
}

// Call pasa el ticket a llamado. Solo desde pendiente.
func (t *Ticket) Call(now time.Time, deskID *string) error {
	if !ValidTransition(ActionCall, t.Status) {
		return domain.ErrInvalidTransition
	}
	t.Status = TicketCalled
	t.CalledAt = &now
	if deskID != nil {
		t.DeskID = deskID
	}
	return nil
}

// Close pasa el ticket a cerrado desde pendiente o llamado.
func (t *Ticket) Close(now time.Time) error {
	if !ValidTransition(ActionClose, t.Status) {
		return domain.ErrInvalidTransition
	}
	t.Status = TicketClosed
	t.ClosedAt = &now
	return nil
}

// TicketView es el ticket con los nombres de servicio y puesto resueltos en lectura.
type TicketView struct {
	Ticket
	ServiceName string
	DeskName    string
}

// Equal compara todos los campos visibles de dos vistas.
func (v TicketView) Equal(o TicketView) bool {
	return v.ID == o.ID &&
		v.Code == o.Code &&
		v.ServiceID == o.ServiceID &&
		v.BranchID == o.BranchID &&
		v.Status == o.Status &&
		v.CreatedAt.Equal(o.CreatedAt) &&
		v.ServiceName == o.ServiceName &&
		v.DeskName == o.DeskName &&
		equalStr(v.Notes, o.Notes) &&
		equalTime(v.CalledAt, o.CalledAt) &&
		equalTime(v.ClosedAt, o.ClosedAt)
}

func equalStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
