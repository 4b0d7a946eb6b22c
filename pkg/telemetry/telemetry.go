package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/turnos-api/pkg/config"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// TracerName es el nombre de instrumentación de la API.
const TracerName = "github.com/jhoicas/turnos-api"

// Setup instala un TracerProvider con exportador OTLP/gRPC cuando hay endpoint configurado.
// Sin endpoint devuelve un shutdown vacío y se mantiene el provider no-op global.
func Setup(ctx context.Context, cfg config.TelemetryConfig, serviceName string, log *logger.Logger) func(context.Context) error {
	if cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		log.Warn().Err(err).Msg("otel: no se pudo crear el exportador")
		return func(context.Context) error { return nil }
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		log.Warn().Err(err).Msg("otel: error creando resource")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	log.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("otel: trazado activo")

	return provider.Shutdown
}

// Tracer devuelve el tracer de la API desde el provider global.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
