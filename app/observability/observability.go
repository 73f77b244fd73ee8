// Package observability builds the logger, tracer and metrics shared by the
// leaderboard modules.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/rock-destroyer/app/observability/leaderboardmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls observability setup.
type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	LogLevel       string
	MetricsEnabled bool

	// TracingEndpoint is an OTLP/gRPC collector address (host:port). Spans are
	// dropped when empty.
	TracingEndpoint string
	TracingInsecure bool
	// TraceSampleRate is the fraction of root spans kept; 0 means 1.
	TraceSampleRate float64
}

// Provider holds process-wide telemetry backends.
type Provider struct {
	Logger             *slog.Logger
	TracerProvider     trace.TracerProvider
	PrometheusRegistry *prometheus.Registry

	shutdown func(context.Context) error
}

// Shutdown flushes buffered spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdown == nil {
		return nil
	}
	return p.shutdown(ctx)
}

// Registry holds per-domain instruments.
type Registry struct {
	Tracer             trace.Tracer
	LeaderboardMetrics leaderboardmetrics.LeaderboardMetrics
}

// Observability bundles Provider and Registry.
type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Init builds observability from cfg. When metrics are disabled the registry is
// nil and the leaderboard metrics are a noop.
func Init(ctx context.Context, cfg Config) (Observability, error) {
	logger := NewLogger(os.Stdout, cfg)

	tp, shutdown, err := newTracerProvider(ctx, cfg)
	if err != nil {
		return Observability{}, err
	}

	var (
		reg     *prometheus.Registry
		metrics = leaderboardmetrics.NewNoop()
	)
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := leaderboardmetrics.NewPrometheus(reg)
		if err != nil {
			_ = shutdown(ctx)
			return Observability{}, fmt.Errorf("failed to register leaderboard metrics: %w", err)
		}
		metrics = m
	}

	logger.InfoContext(ctx, "Observability initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled),
		slog.String("tracing_endpoint", cfg.TracingEndpoint),
	)

	return Observability{
		Provider: &Provider{
			Logger:             logger,
			TracerProvider:     tp,
			PrometheusRegistry: reg,
			shutdown:           shutdown,
		},
		Registry: &Registry{
			Tracer:             tp.Tracer(cfg.ServiceName),
			LeaderboardMetrics: metrics,
		},
	}, nil
}

// newTracerProvider exports spans over OTLP/gRPC when an endpoint is set and
// installs the provider globally. Without an endpoint it returns a noop provider.
func newTracerProvider(ctx context.Context, cfg Config) (trace.TracerProvider, func(context.Context) error, error) {
	if cfg.TracingEndpoint == "" {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.TracingEndpoint)}
	if cfg.TracingInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.Version),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		_ = exporter.Shutdown(ctx)
		return nil, nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	ratio := cfg.TraceSampleRate
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, tp.Shutdown, nil
}

// NewLogger returns a JSON slog logger tagged with service metadata.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	logger := slog.New(h)
	if cfg.ServiceName != "" {
		logger = logger.With(slog.String("service", cfg.ServiceName))
	}
	if cfg.Environment != "" {
		logger = logger.With(slog.String("environment", cfg.Environment))
	}
	if cfg.Version != "" {
		logger = logger.With(slog.String("version", cfg.Version))
	}
	return logger
}

// NewNoop returns observability that discards logs, spans and metrics. Used by tests.
func NewNoop() Observability {
	tp := noop.NewTracerProvider()
	return Observability{
		Provider: &Provider{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			TracerProvider: tp,
		},
		Registry: &Registry{
			Tracer:             tp.Tracer("noop"),
			LeaderboardMetrics: leaderboardmetrics.NewNoop(),
		},
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
