package queue

import (
	"context"
	"time"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// FeedMessage es lo que el canal en vivo entrega al suscriptor: la vista del ticket
// o el aviso de que no existe.
type FeedMessage struct {
	View     *entity.TicketView
	NotFound bool
}

// Feed observa un ticket y entrega solo los cambios de su vista.
type Feed struct {
	source   ViewSource
	broker   *Broker
	clock    clock.Clock
	interval time.Duration
	log      *logger.Logger
}

// NewFeed construye el canal. Si el ticket no existe se espera el doble de interval.
// broker puede ser nil: entonces solo se sondea.
func NewFeed(source ViewSource, broker *Broker, clk clock.Clock, interval time.Duration, log *logger.Logger) *Feed {
	return &Feed{
		source:   source,
		broker:   broker,
		clock:    clk,
		interval: interval,
		log:      log.Component("feed"),
	}
}

// Watch corre el ciclo de observación hasta que ctx se cancela o send falla.
// Cada vuelta relee la vista y la envía solo si difiere de la última enviada.
// "No encontrado" cuenta como un estado más: se envía una vez por episodio.
// Los errores de lectura se registran y se reintenta en la siguiente vuelta.
// Devuelve nil al cancelar ctx y el error de send en otro caso.
func (f *Feed) Watch(ctx context.Context, ticketID string, send func(FeedMessage) error) error {
	var signal <-chan struct{}
	if f.broker != nil {
		ch, unsubscribe := f.broker.Subscribe(ticketID)
		defer unsubscribe()
		signal = ch
	}

	var (
		last    *entity.TicketView
		missing bool
	)
	f.log.Debug().Str("ticket_id", ticketID).Msg("suscripción iniciada")
	defer func() {
		f.log.Debug().Str("ticket_id", ticketID).Msg("suscripción terminada")
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		wait := f.interval
		view, err := f.source.GetView(ctx, ticketID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			f.log.Warn().Err(err).Str("ticket_id", ticketID).Msg("lectura fallida, se reintenta")
		case view == nil:
			wait = 2 * f.interval
			if !missing {
				if err := send(FeedMessage{NotFound: true}); err != nil {
					return err
				}
				missing, last = true, nil
			}
		default:
			if last == nil || !last.Equal(*view) {
				if err := send(FeedMessage{View: view}); err != nil {
					return err
				}
				last, missing = view, false
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-signal:
		case <-f.clock.After(wait):
		}
	}
}
