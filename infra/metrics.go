package infra

import (
	"context"
	"log"
	"time"

	"github.com/cloudstore-app/cloudstore-service/config"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// MetricsClient exports Go runtime metrics over OTLP. Disabled (all no-op)
// when no endpoint is configured.
type MetricsClient struct {
	provider *sdkmetric.MeterProvider
}

func InitMetricsClient(cfg *config.EnvConfig) *MetricsClient {
	if cfg.Telemetry.OTLPEndpoint == "" {
		return &MetricsClient{}
	}

	ctx := context.Background()
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		log.Printf("OTLP metric exporter failed (%v), metrics disabled", err)
		return &MetricsClient{}
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.Telemetry.ServiceName),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	if err := runtime.Start(runtime.WithMeterProvider(provider)); err != nil {
		log.Printf("Runtime instrumentation failed: %v", err)
	}

	return &MetricsClient{provider: provider}
}

func (m *MetricsClient) Shutdown(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
