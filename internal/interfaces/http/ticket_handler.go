package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// IdempotencyHeader permite reintentar POST /tickets/crear sin emitir otro número.
const IdempotencyHeader = "Idempotency-Key"

// TicketHandler maneja la emisión, transición y consulta de tickets.
type TicketHandler struct {
	uc   *queue.TicketUseCase
	docs *queue.DocumentUseCase
	errs errorResponder
}

// NewTicketHandler construye el handler.
func NewTicketHandler(uc *queue.TicketUseCase, docs *queue.DocumentUseCase, log *logger.Logger) *TicketHandler {
	return &TicketHandler{uc: uc, docs: docs, errs: errorResponder{log: log}}
}

// Create godoc
// @Summary      Emitir ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        body             body    dto.CreateTicketRequest  true   "Servicio y sede"
// @Param        Idempotency-Key  header  string                   false  "Clave de reintento"
// @Success      201  {object}  dto.TicketResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /tickets/crear [post]
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in, utils.CopyString(strings.TrimSpace(c.Get(IdempotencyHeader))))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ticket
// @Tags         tickets
// @Produce      json
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {object}  dto.TicketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tickets/{id} [get]
func (h *TicketHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ListByBranch godoc
// @Summary      Cola de una sede
// @Description  Orden FIFO por hora de creación; el filtro de estado es opcional.
// @Tags         tickets
// @Produce      json
// @Param        sede_id  path  string  true   "ID de la sede"
// @Param        estado   path  string  false  "pendiente | llamado | cerrado"
// @Success      200  {array}   dto.TicketResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /tickets/sede/{sede_id} [get]
// @Router       /tickets/sede/{sede_id}/estado/{estado} [get]
func (h *TicketHandler) ListByBranch(c *fiber.Ctx) error {
	out, err := h.uc.ListByBranch(c.UserContext(), c.Params("sede_id"), c.Params("estado"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Call godoc
// @Summary      Llamar ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del ticket"
// @Param        body  body  dto.CallTicketRequest  false  "Puesto que llama"
// @Success      200  {object}  dto.TicketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /tickets/llamar/{id} [put]
func (h *TicketHandler) Call(c *fiber.Ctx) error {
	var in dto.CallTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Call(c.UserContext(), c.Params("id"), in.PuestoID)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar ticket
// @Tags         tickets
// @Produce      json
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {object}  dto.TicketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /tickets/cerrar/{id} [put]
func (h *TicketHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.Close(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ticket
// @Tags         tickets
// @Produce      json
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tickets/eliminar/{id} [delete]
func (h *TicketHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.MessageResponse{Mensaje: "Ticket eliminado correctamente"})
}

// Receipt godoc
// @Summary      Comprobante imprimible
// @Description  PDF con el código del turno y un QR al canal en vivo del ticket.
// @Tags         tickets
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tickets/{id}/comprobante [get]
func (h *TicketHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.docs.Receipt(c.UserContext(), id, trackURL(c, id))
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket-`+id+`.pdf"`)
	return c.Send(pdf)
}

// Export godoc
// @Summary      Exportar cola de una sede
// @Tags         tickets
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        sede_id  path   string  true   "ID de la sede"
// @Param        estado   query  string  false  "pendiente | llamado | cerrado"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tickets/sede/{sede_id}/export [get]
func (h *TicketHandler) Export(c *fiber.Ctx) error {
	branchID := c.Params("sede_id")
	xlsx, err := h.docs.Export(c.UserContext(), branchID, c.Query("estado"))
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cola-`+branchID+`.xlsx"`)
	return c.Send(xlsx)
}

// trackURL arma la URL del canal en vivo a partir del host de la petición.
func trackURL(c *fiber.Ctx, id string) string {
	base := c.BaseURL()
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/tickets/ws/ticket/" + id
}
