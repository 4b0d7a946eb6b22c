package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// ServiceHandler maneja los servicios de una sede y su numeración.
type ServiceHandler struct {
	uc      *usecase.ServiceUseCase
	tickets *queue.TicketUseCase
	errs    errorResponder
}

// NewServiceHandler construye el handler. tickets provee generar_turno.
func NewServiceHandler(uc *usecase.ServiceUseCase, tickets *queue.TicketUseCase, log *logger.Logger) *ServiceHandler {
	return &ServiceHandler{uc: uc, tickets: tickets, errs: errorResponder{log: log}}
}

// Create godoc
// @Summary      Crear servicio
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServiceRequest  true  "Servicio y rango"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /servicios [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener servicio
// @Tags         servicios
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /servicios/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar servicios
// @Tags         servicios
// @Produce      json
// @Param        sede_id  query  string  false  "Filtrar por sede"
// @Success      200  {array}  dto.ServiceResponse
// @Router       /servicios [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("sede_id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ListByBranch godoc
// @Summary      Servicios de una sede
// @Tags         servicios
// @Produce      json
// @Param        id   path  string  true  "ID de la sede"
// @Success      200  {array}  dto.ServiceResponse
// @Router       /servicios/sede/{id} [get]
func (h *ServiceHandler) ListByBranch(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Activar o desactivar servicio
// @Tags         servicios
// @Produce      json
// @Param        id      path   string  true  "ID del servicio"
// @Param        activo  query  bool    true  "Nuevo estado"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /servicios/{id} [put]
func (h *ServiceHandler) SetActive(c *fiber.Ctx) error {
	active, err := strconv.ParseBool(c.Query("activo"))
	if err != nil {
		return h.errs.write(c, domain.Invalid("activo debe ser true o false"))
	}
	out, err := h.uc.SetActive(c.UserContext(), c.Params("id"), active)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar servicio
// @Tags         servicios
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /servicios/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.MessageResponse{Mensaje: "Servicio eliminado"})
}

// GenerateTurno godoc
// @Summary      Generar turno
// @Description  Avanza el contador del servicio sin crear ticket. Formato {letra}{numero:03d}.
// @Tags         servicios
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.TurnoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /servicios/{id}/generar_turno [post]
func (h *ServiceHandler) GenerateTurno(c *fiber.Ctx) error {
	out, err := h.tickets.GenerateTurno(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
