package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacelift-io/gpuautoscalr/internal"
	"github.com/spacelift-io/gpuautoscalr/internal/metrics"
)

// Handle runs a single scaling cycle. Metrics may be nil.
func Handle(ctx context.Context, logger *slog.Logger, cfg *internal.RuntimeConfig, platform internal.Platform, m *metrics.Metrics) error {
	secrets, err := internal.NewSecretSource(ctx, cfg, platform)
	if err != nil {
		return fmt.Errorf("could not create secret source: %w", err)
	}
	defer func() {
		if err := secrets.Close(); err != nil {
			logger.Warn("could not close secret source", "error", err)
		}
	}()

	apiKey, err := internal.ResolveRunPodAPIKey(ctx, cfg, secrets)
	if err != nil {
		return err
	}

	controller, err := internal.NewController(cfg, apiKey)
	if err != nil {
		return fmt.Errorf("could not create RunPod controller: %w", err)
	}

	registry, err := internal.NewDynamoDBRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not create worker registry: %w", err)
	}

	target, err := internal.NewTargetSource(cfg)
	if err != nil {
		return fmt.Errorf("could not create target source: %w", err)
	}

	logger.Info("Using RunPod controller", "gpu_type_id", cfg.RunPodGPUTypeID, "platform", platform)

	return internal.NewAutoScaler(controller, registry, target, logger).WithMetrics(m).Scale(ctx, *cfg)
}
