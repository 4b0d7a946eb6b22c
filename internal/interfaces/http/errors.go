package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

type errorKind struct {
	target error
	status int
	code   string
}

// errorKinds en orden: el primero que coincide con errors.Is decide el status.
var errorKinds = []errorKind{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrTransient, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
}

// errorResponder traduce errores de dominio a respuestas JSON.
type errorResponder struct {
	log *logger.Logger
}

func (r errorResponder) write(c *fiber.Ctx, err error) error {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			msg := publicMessage(err, k.target)
			if k.status == fiber.StatusServiceUnavailable {
				r.log.Warn().Err(err).Str("path", c.Path()).Msg("almacenamiento no disponible")
			}
			return c.Status(k.status).JSON(dto.ErrorResponse{Code: k.code, Message: msg, Detail: msg})
		}
	}
	r.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: "error interno", Detail: "error interno",
	})
}

// publicMessage usa el mensaje del *domain.Error más externo; los errores de
// infraestructura envueltos muestran solo el de su categoría.
func publicMessage(err, kind error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return kind.Error()
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "cuerpo inválido", Detail: "cuerpo inválido",
	})
}

// FiberErrorHandler responde con dto.ErrorResponse también para errores de fiber (404 de ruta, 405...).
func FiberErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	r := errorResponder{log: log}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP", Message: fe.Message, Detail: fe.Message})
		}
		return r.write(c, err)
	}
}
