package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/pkg/jwt"
)

// Locals keys para el sujeto del token en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalKind      = "kind"
)

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg, Detail: msg})
}

// AuthMiddleware valida el Bearer Token JWT y deja el sujeto en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		sub, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalUserID, sub.ID)
		c.Locals(LocalCompanyID, sub.CompanyID)
		c.Locals(LocalRole, sub.Role)
		c.Locals(LocalKind, sub.Kind)
		return c.Next()
	}
}

// RequireKind restringe la ruta a tokens del tipo indicado (usuario o cliente).
func RequireKind(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetKind(c) != kind {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: "FORBIDDEN", Message: "tipo de token no permitido", Detail: "tipo de token no permitido",
			})
		}
		return c.Next()
	}
}

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el id del sujeto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetCompanyID devuelve la empresa del usuario de staff.
func GetCompanyID(c *fiber.Ctx) string { return local(c, LocalCompanyID) }

// GetRole devuelve el perfil del usuario de staff.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

// GetKind devuelve el tipo de sujeto del token.
func GetKind(c *fiber.Ctx) string { return local(c, LocalKind) }
