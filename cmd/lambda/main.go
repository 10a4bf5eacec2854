package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/propagators/aws/xray"

	cmdinternal "github.com/spacelift-io/gpuautoscalr/cmd/internal"
	"github.com/spacelift-io/gpuautoscalr/internal"
	"github.com/spacelift-io/gpuautoscalr/internal/tracing"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	// Parse config at startup - fail fast on misconfiguration
	var cfg internal.RuntimeConfig
	if err := cfg.Parse(internal.PlatformAWS); err != nil {
		logger.Error("failed to parse configuration", "error", err)
		os.Exit(1)
	}

	tp := tracing.InitOtelXrayTracer(ctx, logger, true)
	defer func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("error shutting down tracer provider", "error", err)
		}
	}(ctx)

	registry, err := internal.NewDynamoDBRegistry(ctx, &cfg)
	if err != nil {
		logger.Error("failed to create worker registry", "error", err)
		os.Exit(1)
	}

	pings := &cmdinternal.PingHandler{Registry: registry, Token: cfg.WorkerPingToken, Logger: logger}

	// The schedule invokes the function with an EventBridge event; workers
	// send heartbeats through its function URL.
	handler := func(ctx context.Context, payload json.RawMessage) (any, error) {
		logger := logger

		if lc, ok := lambdacontext.FromContext(ctx); ok {
			logger = logger.With("aws_request_id", lc.AwsRequestID)
		}

		if response, ok := pings.FunctionURLPing(ctx, payload); ok {
			return response, nil
		}

		return nil, cmdinternal.Handle(ctx, logger, &cfg, internal.PlatformAWS, nil)
	}

	lambda.Start(otellambda.InstrumentHandler(
		handler,
		otellambda.WithTracerProvider(tp),
		otellambda.WithFlusher(tp),
		otellambda.WithPropagator(xray.Propagator{}),
	))
}
