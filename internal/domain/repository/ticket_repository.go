package repository

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// TicketRepository define el puerto de persistencia para tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Ticket, error)
	GetByRequestID(ctx context.Context, requestID string) (*entity.Ticket, error)
	// GetView devuelve el ticket con el nombre del servicio y del puesto resueltos.
	GetView(ctx context.Context, id string) (*entity.TicketView, error)
	// ListViewsByBranch ordena por hora_creacion y luego id, ascendente.
	// status vacío no filtra.
	ListViewsByBranch(ctx context.Context, branchID, status string) ([]*entity.TicketView, error)
	// Update persiste estado, horas y puesto.
	Update(ctx context.Context, t *entity.Ticket) error
	Delete(ctx context.Context, id string) error
}
