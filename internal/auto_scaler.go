package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacelift-io/gpuautoscalr/internal/engine"
	"github.com/spacelift-io/gpuautoscalr/internal/metrics"
)

//go:generate mockery --output ./ --name ControllerInterface --filename mock_controller_test.go --outpkg internal_test
type ControllerInterface interface {
	GetOffers(ctx context.Context) (offers []engine.GpuOffer, err error)
	CreatePod(ctx context.Context, name, gpuTypeID string, gpuCount int) (podID string, err error)
	TerminatePod(ctx context.Context, podID string) (err error)
	ListPods(ctx context.Context) (pods []Pod, err error)
}

type AutoScaler struct {
	controller ControllerInterface
	registry   Registry
	target     TargetSource
	clock      engine.Clock
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewAutoScaler(controller ControllerInterface, registry Registry, target TargetSource, logger *slog.Logger) *AutoScaler {
	return &AutoScaler{
		controller: controller,
		registry:   registry,
		target:     target,
		clock:      engine.SystemClock{},
		logger:     logger,
	}
}

// WithClock replaces the wall clock, mostly for testing.
func (s *AutoScaler) WithClock(clock engine.Clock) *AutoScaler {
	s.clock = clock
	return s
}

func (s *AutoScaler) WithMetrics(m *metrics.Metrics) *AutoScaler {
	s.metrics = m
	return s
}

// Scale runs a single scaling cycle.
func (s *AutoScaler) Scale(ctx context.Context, cfg RuntimeConfig) error {
	logger := s.logger.With(
		"gpu_type_id", cfg.RunPodGPUTypeID,
		"fleet_table", cfg.FleetTableName,
	)

	workers, err := s.registry.ListWorkers(ctx)
	if err != nil {
		return fmt.Errorf("could not list workers: %w", err)
	}

	lastScaling, err := s.registry.LastScaling(ctx)
	if err != nil {
		return fmt.Errorf("could not get last scaling time: %w", err)
	}

	targetGPUs, err := s.target.TargetGPUs(ctx)
	if err != nil {
		return fmt.Errorf("could not get target capacity: %w", err)
	}

	// Without offers the engine can still reap dead workers and scale down,
	// so a market outage only disables scaling up.
	offers, err := s.controller.GetOffers(ctx)
	if err != nil {
		logger.Warn("could not get GPU offers, scaling up is disabled for this cycle", "error", err)
		offers = nil
	}

	decision := engine.Plan(workers, offers, targetGPUs, lastScaling, s.clock)
	s.metrics.ObserveDecision(decision)

	logger = logger.With(
		"workers", len(workers),
		"offers", len(offers),
		"capacity_gpus", decision.CurrentGPUs,
		"target_gpus", decision.TargetGPUs,
		"planned_gpus", decision.PlannedGPUs,
	)

	logger.Info("scaling decision made", "comments", decision.Comments, "operations", len(decision.Operations))

	if cfg.AutoscalingDryRun {
		for _, operation := range decision.Operations {
			logger.Info("dry run, not applying operation", "operation", operation.String())
		}

		return nil
	}

	var applyErr error

	if len(decision.Operations) > 0 {
		executor := &Executor{
			Controller: s.controller,
			Registry:   s.registry,
			Clock:      s.clock,
			Metrics:    s.metrics,
			PodPrefix:  cfg.RunPodPodPrefix,
			MaxCreate:  cfg.AutoscalingMaxCreate,
			MaxKill:    cfg.AutoscalingMaxKill,
		}

		execution, err := executor.Apply(ctx, logger, decision.Operations)

		logger.Info(
			"scaling operations applied",
			"created", execution.Created,
			"destroyed", execution.Destroyed,
			"failed", execution.Failed,
			"skipped", execution.Skipped,
		)

		if err != nil {
			applyErr = fmt.Errorf("could not apply scaling operations: %w", err)
		}
	}

	if err := s.terminateOrphanedPod(ctx, logger, cfg.RunPodPodPrefix); err != nil {
		logger.Warn("could not clean up orphaned pods", "error", err)
	}

	return applyErr
}

// terminateOrphanedPod terminates a fleet pod which has no worker record,
// which happens when registering the pod failed or its record was reaped
// before the pod was provisioned. We don't want to kill too many pods at once,
// so at most one is terminated per cycle.
func (s *AutoScaler) terminateOrphanedPod(ctx context.Context, logger *slog.Logger, prefix string) error {
	pods, err := s.controller.ListPods(ctx)
	if err != nil {
		return err
	}

	var candidates []Pod

	for _, pod := range pods {
		if pod.DesiredStatus == "TERMINATED" {
			continue
		}

		if _, ok := WorkerIDFromPodName(prefix, pod.Name); ok {
			candidates = append(candidates, pod)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	// Listed after the pods, so that a worker registered in between is not
	// mistaken for an orphan.
	workers, err := s.registry.ListWorkers(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(workers))
	for _, worker := range workers {
		known[worker.ID] = struct{}{}
	}

	for _, pod := range candidates {
		workerID, _ := WorkerIDFromPodName(prefix, pod.Name)

		if _, ok := known[workerID]; ok {
			continue
		}

		podLogger := logger.With("pod_id", pod.ID, "worker_id", workerID)
		podLogger.Warn("pod has no corresponding worker record, terminating")

		if err := s.controller.TerminatePod(ctx, pod.ID); err != nil {
			return fmt.Errorf("could not terminate orphaned pod: %w", err)
		}

		podLogger.Info("orphaned pod terminated")

		return nil
	}

	return nil
}
