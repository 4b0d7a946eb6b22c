package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/internal/infrastructure/export"
	"github.com/jhoicas/turnos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/turnos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/turnos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/turnos-api/internal/interfaces/http"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/logger"
	"github.com/jhoicas/turnos-api/pkg/telemetry"
)

// backend reúne la persistencia elegida por STORE_DRIVER.
type backend struct {
	tx interface {
		queue.TxRunner
		usecase.CatalogTxRunner
	}
	companies repository.CompanyRepository
	branches  repository.BranchRepository
	services  repository.ServiceRepository
	tickets   repository.TicketRepository
	locations repository.LocationRepository
	functions repository.FunctionRepository
	users     repository.UserRepository
	clients   repository.ClientRepository
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == "memory" {
		store := memory.NewStore()
		r := store.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return &backend{
			tx: store, companies: r.Companies, branches: r.Branches, services: r.Services,
			tickets: r.Tickets, locations: r.Locations, functions: r.Functions,
			users: r.Users, clients: r.Clients, close: func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if len(applied) > 0 {
		log.Info().Strs("migraciones", applied).Msg("esquema actualizado")
	}
	opt := postgres.Options{OpTimeout: cfg.DB.OpTimeout, ReadRetries: cfg.DB.ReadRetries}
	r := postgres.NewRepos(pool, opt)
	return &backend{
		tx: postgres.NewTxRunner(pool, opt), companies: r.Companies, branches: r.Branches,
		services: r.Services, tickets: r.Tickets, locations: r.Locations, functions: r.Functions,
		users: r.Users, clients: r.Clients, close: pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	ctx := context.Background()
	shutdownTracing := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Name, log)

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer be.close()

	loc := cfg.App.Location()
	clk := clock.Real(loc)
	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}

	if jwtCfg.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: el login de usuarios y clientes fallará")
	}

	broker := queue.NewBroker()
	ticketUC := queue.NewTicketUseCase(be.tx, be.tickets, be.locations, broker, clk, log)
	deps := httpRouter.RouterDeps{
		CompanyUC:        usecase.NewCompanyUseCase(be.companies, clk),
		BranchUC:         usecase.NewBranchUseCase(be.tx, be.branches, be.companies, clk),
		ServiceUC:        usecase.NewServiceUseCase(be.services, be.branches),
		LocationUC:       usecase.NewLocationUseCase(be.locations, be.branches, clk),
		FunctionUC:       usecase.NewFunctionUseCase(be.functions, be.branches),
		UserUC:           usecase.NewUserUseCase(be.tx, be.users, clk),
		TicketUC:         ticketUC,
		DocumentUC:       queue.NewDocumentUseCase(be.tickets, be.branches, infrapdf.NewReceiptGenerator(), export.NewSheetExporter(), loc),
		Feed:             queue.NewFeed(be.tickets, broker, clk, cfg.Feed.PollInterval, log),
		AuthUC:           auth.NewAuthUseCase(be.users, jwtCfg),
		ClientUC:         auth.NewClientUseCase(be.clients, jwtCfg, clk),
		JWTSecret:        cfg.JWT.Secret,
		FeedWriteTimeout: cfg.Feed.WriteTimeout,
		AppName:          cfg.App.Name,
		Log:              log,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		// Los ids de ruta y cabeceras llegan a los repositorios; sin esto apuntan al buffer de fasthttp.
		Immutable:    true,
		ErrorHandler: httpRouter.FiberErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.IdempotencyHeader,
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions}, ","),
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Turnos API",
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("apagando servidor...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown otel")
	}
}
