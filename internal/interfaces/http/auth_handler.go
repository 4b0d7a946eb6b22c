package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// AuthHandler maneja el login del staff.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	errs errorResponder
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, errs: errorResponder{log: log}}
}

// Login godoc
// @Summary      Iniciar sesión (staff)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Username == "" || in.Password == "" {
		return h.errs.write(c, domain.Invalid("username y password son requeridos"))
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ClientHandler maneja el registro y login de clientes de la app.
type ClientHandler struct {
	uc   *auth.ClientUseCase
	errs errorResponder
}

// NewClientHandler construye el handler de clientes.
func NewClientHandler(uc *auth.ClientUseCase, log *logger.Logger) *ClientHandler {
	return &ClientHandler{uc: uc, errs: errorResponder{log: log}}
}

// Register godoc
// @Summary      Registrar cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterClientRequest  true  "nombre, email, password"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /clientes [post]
func (h *ClientHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión (cliente)
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientLoginRequest  true  "email, password"
// @Success      200   {object}  dto.ClientResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *ClientHandler) Login(c *fiber.Ctx) error {
	var in dto.ClientLoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Cliente autenticado
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ClientResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /clientes/me [get]
func (h *ClientHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
