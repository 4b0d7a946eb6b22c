package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/pkg/jwt"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	BranchUC   *usecase.BranchUseCase
	ServiceUC  *usecase.ServiceUseCase
	LocationUC *usecase.LocationUseCase
	FunctionUC *usecase.FunctionUseCase
	UserUC     *usecase.UserUseCase
	TicketUC   *queue.TicketUseCase
	DocumentUC *queue.DocumentUseCase
	Feed       *queue.Feed
	AuthUC     *auth.AuthUseCase
	ClientUC   *auth.ClientUseCase

	JWTSecret        string
	FeedWriteTimeout time.Duration
	AppName          string
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, log)
	app.Post("/auth/login", authHandler.Login)

	// Clientes (app móvil)
	clientHandler := NewClientHandler(deps.ClientUC, log)
	app.Post("/clientes", clientHandler.Register)
	app.Post("/login", clientHandler.Login)
	app.Get("/clientes/me", AuthMiddleware(deps.JWTSecret), RequireKind(jwt.KindClient), clientHandler.Me)

	// Empresas
	companies := app.Group("/empresas")
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	// Sedes
	branches := app.Group("/sedes")
	branchHandler := NewBranchHandler(deps.BranchUC, log)
	branches.Get("/", branchHandler.List)
	branches.Post("/", branchHandler.Create)
	branches.Get("/empresa/:empresa_id", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Delete)

	// Servicios
	services := app.Group("/servicios")
	serviceHandler := NewServiceHandler(deps.ServiceUC, deps.TicketUC, log)
	services.Get("/", serviceHandler.List)
	services.Post("/", serviceHandler.Create)
	services.Get("/sede/:id", serviceHandler.ListByBranch)
	services.Get("/:id", serviceHandler.GetByID)
	services.Put("/:id", serviceHandler.SetActive)
	services.Delete("/:id", serviceHandler.Delete)
	services.Post("/:id/generar_turno", serviceHandler.GenerateTurno)

	// Funciones
	functions := app.Group("/funciones")
	functionHandler := NewFunctionHandler(deps.FunctionUC, log)
	functions.Get("/", functionHandler.List)
	functions.Post("/", functionHandler.Create)
	functions.Get("/:id", functionHandler.GetByID)
	functions.Put("/:id", functionHandler.Update)
	functions.Delete("/:id", functionHandler.Delete)

	// Locaciones (puestos)
	locations := app.Group("/locaciones")
	locationHandler := NewLocationHandler(deps.LocationUC, log)
	locations.Get("/", locationHandler.List)
	locations.Post("/", locationHandler.Create)
	locations.Get("/sede/:id", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Usuarios (staff)
	users := app.Group("/usuarios")
	userHandler := NewUserHandler(deps.UserUC, log)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/sede/:id", userHandler.ListByBranch)
	users.Get("/empresa/:id", userHandler.ListByCompany)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Tickets: las rutas con prefijo fijo van antes de /:id
	tickets := app.Group("/tickets")
	ticketHandler := NewTicketHandler(deps.TicketUC, deps.DocumentUC, log)
	feedHandler := NewTicketFeedHandler(deps.Feed, deps.FeedWriteTimeout, log)
	tickets.Post("/crear", ticketHandler.Create)
	tickets.Get("/sede/:sede_id", ticketHandler.ListByBranch)
	tickets.Get("/sede/:sede_id/estado/:estado", ticketHandler.ListByBranch)
	tickets.Get("/sede/:sede_id/export", ticketHandler.Export)
	tickets.Put("/llamar/:id", ticketHandler.Call)
	tickets.Put("/cerrar/:id", ticketHandler.Close)
	tickets.Delete("/eliminar/:id", ticketHandler.Delete)
	tickets.Get("/ws/ticket/:id", feedHandler.Upgrade, feedHandler.Watch())
	tickets.Get("/:id/comprobante", ticketHandler.Receipt)
	tickets.Get("/:id", ticketHandler.GetByID)
}
