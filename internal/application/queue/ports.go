package queue

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una unidad atómica con repositorios atados a ella.
// Las lecturas con GetForUpdate dentro de fn quedan serializadas por fila hasta que fn termina.
type TxRunner interface {
	RunQueue(ctx context.Context, fn func(
		services repository.ServiceRepository,
		tickets repository.TicketRepository,
	) error) error
}

// Notifier recibe el id de cada ticket que cambia.
type Notifier interface {
	Publish(ticketID string)
}

// ViewSource lee la vista actual de un ticket; (nil, nil) si no existe.
type ViewSource interface {
	GetView(ctx context.Context, id string) (*entity.TicketView, error)
}
