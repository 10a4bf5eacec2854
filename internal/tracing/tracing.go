package tracing

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	lambdadetector "go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "gpuautoscalr"

// InitOtelXrayTracer sends spans to the X-Ray daemon over UDP. In Lambda the
// function's resource attributes are attached to every span.
func InitOtelXrayTracer(ctx context.Context, logger *slog.Logger, isLambda bool) *trace.TracerProvider {
	res := serviceResource()

	if isLambda {
		detector := lambdadetector.NewResourceDetector()
		lambdaResource, err := detector.Detect(ctx)
		if err != nil {
			logger.Error("failed to detect lambda resource attributes", "error", err)
			os.Exit(1)
		}

		if res, err = resource.Merge(res, lambdaResource); err != nil {
			logger.Error("failed to merge lambda resource attributes", "error", err)
			os.Exit(1)
		}
	}

	udpExporter, err := xrayudp.NewSpanExporter(ctx)
	if err != nil {
		logger.Error("failed to initialize xray exporter", "error", err)
		os.Exit(1)
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSpanProcessor(trace.NewSimpleSpanProcessor(udpExporter)),
		trace.WithIDGenerator(xray.NewIDGenerator()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})

	return tp
}

// InitStdoutTracer prints spans to stderr, for running the autoscaler by hand.
func InitStdoutTracer(logger *slog.Logger) *trace.TracerProvider {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	if err != nil {
		logger.Error("failed to initialize stdout exporter", "error", err)
		os.Exit(1)
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(serviceResource()),
		trace.WithSyncer(exporter),
	)

	otel.SetTracerProvider(tp)

	return tp
}

func serviceResource() *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", serviceName))
}
