package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// LocationHandler maneja las locaciones (puestos de atención).
type LocationHandler struct {
	uc   *usecase.LocationUseCase
	errs errorResponder
}

func NewLocationHandler(uc *usecase.LocationUseCase, log *logger.Logger) *LocationHandler {
	return &LocationHandler{uc: uc, errs: errorResponder{log: log}}
}

// Create godoc
// @Summary      Crear locación
// @Tags         locaciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LocationRequest  true  "Datos del puesto"
// @Success      201   {object}  dto.LocationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /locaciones [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.LocationRequest
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
// @Summary      Obtener locación
// @Tags         locaciones
// @Produce      json
// @Param        id   path  string  true  "ID de la locación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /locaciones/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar locaciones
// @Tags         locaciones
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /locaciones [get]
// @Router       /locaciones/sede/{id} [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar locación
// @Tags         locaciones
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la locación"
// @Param        body  body  dto.LocationRequest  true  "Datos del puesto"
// @Success      200   {object}  dto.LocationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /locaciones/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.LocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar locación
// @Tags         locaciones
// @Param        id   path  string  true  "ID de la locación"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /locaciones/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.MessageResponse{Mensaje: "Locación eliminada correctamente"})
}

// FunctionHandler maneja las funciones y sus servicios asociados.
type FunctionHandler struct {
	uc   *usecase.FunctionUseCase
	errs errorResponder
}

func NewFunctionHandler(uc *usecase.FunctionUseCase, log *logger.Logger) *FunctionHandler {
	return &FunctionHandler{uc: uc, errs: errorResponder{log: log}}
}

// Create godoc
// @Summary      Crear función
// @Tags         funciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FunctionRequest  true  "Función y servicios"
// @Success      201   {object}  dto.FunctionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /funciones [post]
func (h *FunctionHandler) Create(c *fiber.Ctx) error {
	var in dto.FunctionRequest
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
// @Summary      Obtener función
// @Tags         funciones
// @Produce      json
// @Param        id   path  string  true  "ID de la función"
// @Success      200  {object}  dto.FunctionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /funciones/{id} [get]
func (h *FunctionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar funciones
// @Tags         funciones
// @Produce      json
// @Success      200  {array}  dto.FunctionResponse
// @Router       /funciones [get]
func (h *FunctionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar función
// @Description  Reemplaza la lista de servicios asociados.
// @Tags         funciones
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la función"
// @Param        body  body  dto.FunctionRequest  true  "Función y servicios"
// @Success      200   {object}  dto.FunctionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /funciones/{id} [put]
func (h *FunctionHandler) Update(c *fiber.Ctx) error {
	var in dto.FunctionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar función
// @Tags         funciones
// @Param        id   path  string  true  "ID de la función"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /funciones/{id} [delete]
func (h *FunctionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.MessageResponse{Mensaje: "Función eliminada"})
}
