package queue

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/counter"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/logger"
	"github.com/jhoicas/turnos-api/pkg/sanitize"
	"github.com/jhoicas/turnos-api/pkg/telemetry"
)

// TicketUseCase gestiona la emisión de turnos y el ciclo de vida de los tickets.
type TicketUseCase struct {
	tx        TxRunner
	tickets   repository.TicketRepository
	locations repository.LocationRepository
	notifier  Notifier
	clock     clock.Clock
	log       *logger.Logger
	tracer    trace.Tracer
}

// NewTicketUseCase construye el caso de uso. tickets y locations se usan fuera de
// transacción (lecturas y borrado); las emisiones y transiciones pasan por tx.
func NewTicketUseCase(
	tx TxRunner,
	tickets repository.TicketRepository,
	locations repository.LocationRepository,
	notifier Notifier,
	clk clock.Clock,
	log *logger.Logger,
) *TicketUseCase {
	return &TicketUseCase{
		tx:        tx,
		tickets:   tickets,
		locations: locations,
		notifier:  notifier,
		clock:     clk,
		log:       log.Component("queue"),
		tracer:    telemetry.Tracer(),
	}
}

// Create emite un ticket para el servicio: reinicio diario, número actual y avance del contador
// en una misma transacción con el servicio bloqueado.
// Con idempotencyKey no vacío, una segunda llamada con la misma clave devuelve el ticket original;
// si la clave ya se usó con otro servicio o sede devuelve domain.ErrIdempotencyReuse.
//
// Errores: domain.ErrServiceNotFound, domain.ErrServiceInactive, domain.ErrBranchMismatch,
// domain.ErrIdempotencyReuse, domain.ErrInvalidInput.
func (uc *TicketUseCase) Create(ctx context.Context, in dto.CreateTicketRequest, idempotencyKey string) (*dto.TicketResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "queue.CreateTicket", trace.WithAttributes(
		attribute.String("servicio_id", in.ServicioID),
		attribute.String("sede_id", in.SedeID),
	))
	defer span.End()

	if strings.TrimSpace(in.ServicioID) == "" || strings.TrimSpace(in.SedeID) == "" {
		return nil, fail(span, domain.Invalid("servicio_id y sede_id son obligatorios"))
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" {
		if prior, err := uc.replay(ctx, idempotencyKey, in); err != nil || prior != nil {
			return prior, fail(span, err)
		}
	}

	notes := sanitize.Optional(in.Notas)
	var (
		created     *entity.Ticket
		serviceName string
	)
	err := uc.tx.RunQueue(ctx, func(services repository.ServiceRepository, tickets repository.TicketRepository) error {
		svc, err := services.GetForUpdate(ctx, in.ServicioID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.ErrServiceNotFound
		}
		if svc.BranchID != in.SedeID {
			return domain.ErrBranchMismatch
		}

		now := uc.clock.Now()
		n, err := counter.Advance(svc, now)
		if err != nil {
			return err
		}
		if err := services.SaveCounter(ctx, svc); err != nil {
			return err
		}

		t := &entity.Ticket{
			ID:        uuid.New().String(),
			Code:      counter.TicketCode(svc.Letter, n),
			ServiceID: svc.ID,
			BranchID:  svc.BranchID,
			Notes:     notes,
			Status:    entity.TicketPending,
			CreatedAt: now,
		}
		if idempotencyKey != "" {
			t.RequestID = &idempotencyKey
		}
		if err := tickets.Create(ctx, t); err != nil {
			return err
		}
		created, serviceName = t, svc.Name
		return nil
	})
	if err != nil {
		if idempotencyKey != "" && errors.Is(err, domain.ErrDuplicate) {
			// otra petición con la misma clave confirmó primero
			prior, rerr := uc.replay(ctx, idempotencyKey, in)
			if rerr != nil {
				return nil, fail(span, rerr)
			}
			if prior != nil {
				return prior, nil
			}
		}
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.String("ticket_id", created.ID), attribute.String("codigo", created.Code))
	uc.notifier.Publish(created.ID)
	uc.log.Info().
		Str("ticket_id", created.ID).
		Str("codigo", created.Code).
		Str("servicio_id", created.ServiceID).
		Str("sede_id", created.BranchID).
		Msg("ticket creado")

	return ToTicketResponse(&entity.TicketView{
		Ticket:      *created,
		ServiceName: serviceName,
		DeskName:    entity.DeskPlaceholder,
	}), nil
}

func (uc *TicketUseCase) replay(ctx context.Context, key string, in dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	prior, err := uc.tickets.GetByRequestID(ctx, key)
	if err != nil || prior == nil {
		return nil, err
	}
	if prior.ServiceID != in.ServicioID || prior.BranchID != in.SedeID {
		return nil, domain.ErrIdempotencyReuse
	}
	view, err := uc.tickets.GetView(ctx, prior.ID)
	if err != nil || view == nil {
		return nil, err
	}
	uc.log.Debug().Str("ticket_id", prior.ID).Str("idempotency_key", key).Msg("ticket repetido por clave de idempotencia")
	return ToTicketResponse(view), nil
}

// Get devuelve la vista de un ticket.
func (uc *TicketUseCase) Get(ctx context.Context, id string) (*dto.TicketResponse, error) {
	view, err := uc.tickets.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrTicketNotFound
	}
	return ToTicketResponse(view), nil
}

// Call pasa el ticket de pendiente a llamado y registra hora_llamado.
// deskID, si viene, asigna el puesto que atiende; debe ser una locación de la misma sede.
func (uc *TicketUseCase) Call(ctx context.Context, id string, deskID *string) (*dto.TicketResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "queue.CallTicket", trace.WithAttributes(attribute.String("ticket_id", id)))
	defer span.End()

	var desk *entity.Location
	if deskID != nil && strings.TrimSpace(*deskID) != "" {
		loc, err := uc.locations.GetByID(ctx, *deskID)
		if err != nil {
			return nil, fail(span, err)
		}
		if loc == nil {
			return nil, fail(span, domain.ErrLocationNotFound)
		}
		desk = loc
	}

	err := uc.transition(ctx, id, func(t *entity.Ticket) error {
		var assigned *string
		if desk != nil {
			if desk.BranchID != t.BranchID {
				return domain.Invalid("el puesto no pertenece a la sede del ticket")
			}
			assigned = &desk.ID
		}
		return t.Call(uc.clock.Now(), assigned)
	})
	if err != nil {
		return nil, fail(span, err)
	}
	return uc.afterTransition(ctx, id, "ticket llamado")
}

// Close pasa el ticket a cerrado (desde pendiente o llamado) y registra hora_cierre.
func (uc *TicketUseCase) Close(ctx context.Context, id string) (*dto.TicketResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "queue.CloseTicket", trace.WithAttributes(attribute.String("ticket_id", id)))
	defer span.End()

	err := uc.transition(ctx, id, func(t *entity.Ticket) error {
		return t.Close(uc.clock.Now())
	})
	if err != nil {
		return nil, fail(span, err)
	}
	return uc.afterTransition(ctx, id, "ticket cerrado")
}

func (uc *TicketUseCase) transition(ctx context.Context, id string, apply func(*entity.Ticket) error) error {
	return uc.tx.RunQueue(ctx, func(_ repository.ServiceRepository, tickets repository.TicketRepository) error {
		t, err := tickets.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrTicketNotFound
		}
		if err := apply(t); err != nil {
			return err
		}
		return tickets.Update(ctx, t)
	})
}

func (uc *TicketUseCase) afterTransition(ctx context.Context, id, msg string) (*dto.TicketResponse, error) {
	uc.notifier.Publish(id)
	view, err := uc.tickets.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrTicketNotFound
	}
	uc.log.Info().Str("ticket_id", id).Str("codigo", view.Code).Str("estado", view.Status).Msg(msg)
	return ToTicketResponse(view), nil
}

// Delete elimina el ticket sin importar su estado.
func (uc *TicketUseCase) Delete(ctx context.Context, id string) error {
	ctx, span := uc.tracer.Start(ctx, "queue.DeleteTicket", trace.WithAttributes(attribute.String("ticket_id", id)))
	defer span.End()

	if err := uc.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(span, domain.ErrTicketNotFound)
		}
		return fail(span, err)
	}
	uc.notifier.Publish(id)
	uc.log.Info().Str("ticket_id", id).Msg("ticket eliminado")
	return nil
}

// ListByBranch devuelve la cola de la sede en orden de creación. status vacío no filtra.
func (uc *TicketUseCase) ListByBranch(ctx context.Context, branchID, status string) ([]dto.TicketResponse, error) {
	if status != "" && !entity.ValidStatus(status) {
		return nil, domain.Invalid("estado debe ser pendiente, llamado o cerrado")
	}
	views, err := uc.tickets.ListViewsByBranch(ctx, branchID, status)
	if err != nil {
		return nil, err
	}
	return toTicketResponses(views), nil
}

// GenerateTurno emite un número del servicio sin crear ticket y lo devuelve como vista previa
// con relleno a tres dígitos. Usa la misma regla que Create y persiste el avance.
func (uc *TicketUseCase) GenerateTurno(ctx context.Context, serviceID string) (*dto.TurnoResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "queue.GenerateTurno", trace.WithAttributes(attribute.String("servicio_id", serviceID)))
	defer span.End()

	var out *dto.TurnoResponse
	err := uc.tx.RunQueue(ctx, func(services repository.ServiceRepository, _ repository.TicketRepository) error {
		svc, err := services.GetForUpdate(ctx, serviceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.ErrServiceNotFound
		}
		n, err := counter.Advance(svc, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := services.SaveCounter(ctx, svc); err != nil {
			return err
		}
		out = &dto.TurnoResponse{Turno: counter.TurnoCode(svc.Letter, n), Numero: n, Letra: svc.Letter}
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}
	uc.log.Info().Str("servicio_id", serviceID).Str("turno", out.Turno).Msg("turno generado")
	return out, nil
}

func fail(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
