package main

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	cmdinternal "github.com/spacelift-io/gpuautoscalr/cmd/internal"
	"github.com/spacelift-io/gpuautoscalr/internal"
	"github.com/spacelift-io/gpuautoscalr/internal/tracing"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	var cfg internal.RuntimeConfig
	if err := cfg.Parse(internal.PlatformAWS); err != nil {
		logger.Error("failed to parse configuration", "error", err)
		os.Exit(1)
	}

	tp := tracing.InitStdoutTracer(logger)
	defer func(ctx context.Context) {
		err := tp.Shutdown(ctx)
		if err != nil {
			logger.Error("error shutting down tracer provider", "error", err)
		}
	}(ctx)

	t := otel.Tracer("local")
	ctx, span := t.Start(ctx, "autoscaling")
	defer span.End()

	if err := cmdinternal.Handle(ctx, logger, &cfg, internal.PlatformAWS, nil); err != nil {
		logger.With("msg", err.Error()).Error("could not handle request")
		span.RecordError(err)
		span.SetStatus(codes.Error, "")
		span.End()
		os.Exit(1)
	}
}
