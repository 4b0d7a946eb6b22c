package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// TicketFeedHandler expone el canal en vivo de un ticket por WebSocket.
type TicketFeedHandler struct {
	feed         *queue.Feed
	writeTimeout time.Duration
	log          *logger.Logger
}

// NewTicketFeedHandler construye el handler. writeTimeout acota cada envío al cliente.
func NewTicketFeedHandler(feed *queue.Feed, writeTimeout time.Duration, log *logger.Logger) *TicketFeedHandler {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &TicketFeedHandler{feed: feed, writeTimeout: writeTimeout, log: log.Component("ws")}
}

// Upgrade rechaza con 426 las peticiones que no piden WebSocket.
func (h *TicketFeedHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Watch godoc
// @Summary      Canal en vivo de un ticket
// @Description  Envía la vista del ticket cada vez que cambia; {"error":"Ticket no encontrado"} si no existe.
// @Tags         tickets
// @Param        id   path  string  true  "ID del ticket"
// @Router       /tickets/ws/ticket/{id} [get]
func (h *TicketFeedHandler) Watch() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id := conn.Params("id")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// El cliente no envía nada: leer solo sirve para detectar el cierre.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		err := h.feed.Watch(ctx, id, func(m queue.FeedMessage) error {
			if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
				return err
			}
			if m.NotFound {
				return conn.WriteJSON(dto.TicketNotFoundMessage{Error: "Ticket no encontrado"})
			}
			return conn.WriteJSON(queue.ToTicketResponse(m.View))
		})
		if err != nil {
			h.log.Debug().Err(err).Str("ticket_id", id).Msg("cliente desconectado")
		}
	})
}
