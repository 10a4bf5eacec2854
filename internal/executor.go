package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spacelift-io/gpuautoscalr/internal/engine"
	"github.com/spacelift-io/gpuautoscalr/internal/metrics"
)

// Execution summarizes what an Executor did with a list of operations.
type Execution struct {
	Created   int
	Destroyed int
	Failed    int
	Skipped   int
}

// Executor applies scaling operations against RunPod and the registry. A
// failed operation does not stop the others; it is reported and left for the
// next cycle to reconsider.
type Executor struct {
	Controller ControllerInterface
	Registry   Registry
	Clock      engine.Clock
	Metrics    *metrics.Metrics

	// PodPrefix is prepended to worker IDs to form pod names.
	PodPrefix string

	// MaxCreate and MaxKill cap the non-forced creates and destroys applied
	// in a single cycle. Zero means no limit.
	MaxCreate int
	MaxKill   int

	// NewWorkerID generates worker IDs. Defaults to random UUIDs.
	NewWorkerID func() string
}

// Apply runs the operations, forced destroys first.
func (e *Executor) Apply(ctx context.Context, logger *slog.Logger, operations []engine.ScalingOperation) (out Execution, err error) {
	var errs []error
	var created, killed int

	scaled := false

	for _, operation := range orderOperations(operations) {
		opLogger := logger.With("operation", operation.Kind, "target_id", operation.TargetID, "forced", operation.Forced)

		var opErr error

		switch {
		case operation.Kind == engine.OperationCreate:
			if e.MaxCreate > 0 && created >= e.MaxCreate {
				opLogger.Warn("create limit reached, skipping")
				out.Skipped++
				continue
			}
			created++

			opErr = e.create(ctx, opLogger.With("gpu_count", operation.GPUCount), operation)

		case operation.Forced:
			opLogger.Warn("worker timed out, destroying")
			opErr = e.destroy(ctx, opLogger, operation)

		default:
			if e.MaxKill > 0 && killed >= e.MaxKill {
				opLogger.Warn("kill limit reached, skipping")
				out.Skipped++
				continue
			}
			killed++

			opErr = e.destroy(ctx, opLogger, operation)
		}

		if opErr != nil {
			opLogger.Error("scaling operation failed", "error", opErr)
			e.Metrics.OperationFailed(operation)

			out.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", operation, opErr))

			continue
		}

		e.Metrics.OperationApplied(operation)

		if operation.Kind == engine.OperationCreate {
			out.Created++
		} else {
			out.Destroyed++
		}

		if !operation.Forced {
			scaled = true
		}
	}

	if scaled {
		if err := e.Registry.SetLastScaling(ctx, e.Clock.Now()); err != nil {
			errs = append(errs, err)
		}
	}

	return out, errors.Join(errs...)
}

// orderOperations moves forced destroys to the front, keeping the order of
// everything else.
func orderOperations(operations []engine.ScalingOperation) []engine.ScalingOperation {
	out := make([]engine.ScalingOperation, 0, len(operations))

	for _, operation := range operations {
		if operation.Forced {
			out = append(out, operation)
		}
	}

	for _, operation := range operations {
		if !operation.Forced {
			out = append(out, operation)
		}
	}

	return out
}

func (e *Executor) create(ctx context.Context, logger *slog.Logger, operation engine.ScalingOperation) error {
	newID := e.NewWorkerID
	if newID == nil {
		newID = uuid.NewString
	}

	record := WorkerRecord{
		ID:        newID(),
		OfferID:   operation.TargetID,
		CreatedAt: e.Clock.Now(),
	}

	logger = logger.With("worker_id", record.ID)

	if err := e.Registry.RegisterWorker(ctx, record); err != nil {
		return err
	}

	podID, err := e.Controller.CreatePod(ctx, PodName(e.PodPrefix, record.ID), operation.TargetID, operation.GPUCount)
	if err != nil {
		// Without a pod the record would only count towards the timeout.
		return errors.Join(err, e.Registry.DeleteWorker(ctx, record.ID))
	}

	logger = logger.With("pod_id", podID)

	if err := e.Registry.MarkProvisioned(ctx, record.ID, podID, operation.GPUCount); err != nil {
		return err
	}

	logger.Info("worker created")

	return nil
}

func (e *Executor) destroy(ctx context.Context, logger *slog.Logger, operation engine.ScalingOperation) error {
	record, err := e.Registry.GetWorker(ctx, operation.TargetID)
	if err != nil {
		return err
	}

	if record == nil {
		logger.Warn("worker record already gone")
		return nil
	}

	if record.Provisioned() {
		logger = logger.With("pod_id", record.PodID)

		if err := e.Controller.TerminatePod(ctx, record.PodID); err != nil {
			return err
		}
	}

	if err := e.Registry.DeleteWorker(ctx, record.ID); err != nil {
		return err
	}

	logger.Info("worker destroyed")

	return nil
}
