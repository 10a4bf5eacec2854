// Package engine computes the create and destroy operations needed to bring
// the GPU fleet to its target capacity. It performs no I/O: every input is a
// snapshot supplied by the caller, and the output is a recommendation valid
// only for that snapshot.
package engine

import (
	"fmt"
	"time"
)

// Decision is the outcome of a single planning cycle.
type Decision struct {
	Operations []ScalingOperation

	// CurrentGPUs is the capacity of the live (not timed out) workers.
	CurrentGPUs int

	// PlannedGPUs is the capacity once all operations have been applied.
	PlannedGPUs int

	TargetGPUs int
	TimedOut   int
	Comments   []string
}

// CalculateScalingOperations returns the operations needed to converge the
// fleet to targetGPUs.
func CalculateScalingOperations(workers []Worker, offers []GpuOffer, targetGPUs int, lastScaling time.Time, clock Clock) []ScalingOperation {
	return Plan(workers, offers, targetGPUs, lastScaling, clock).Operations
}

// Plan is CalculateScalingOperations with the reasoning attached.
func Plan(workers []Worker, offers []GpuOffer, targetGPUs int, lastScaling time.Time, clock Clock) Decision {
	now := clock.Now()

	live, operations := detectTimeouts(workers, now)

	decision := Decision{
		TargetGPUs: targetGPUs,
		TimedOut:   len(operations),
	}

	for _, worker := range live {
		decision.CurrentGPUs += worker.Capacity()
	}

	if decision.TimedOut > 0 {
		decision.Comments = append(decision.Comments, fmt.Sprintf("%d workers timed out", decision.TimedOut))
	}

	var planned []ScalingOperation
	capacity := decision.CurrentGPUs

	switch {
	case capacity == targetGPUs:
		decision.Comments = append(decision.Comments, "fleet exactly at the target capacity")

	case capacity > targetGPUs:
		if sinceLast := now.Sub(lastScaling); sinceLast < ScaleDownCooldown {
			decision.Comments = append(decision.Comments, fmt.Sprintf(
				"%d GPUs over target, but last scaling was %s ago",
				capacity-targetGPUs, sinceLast.Round(time.Second),
			))
			break
		}

		planned, capacity = scaleDown(live, capacity, targetGPUs)

		if capacity > targetGPUs {
			decision.Comments = append(decision.Comments, fmt.Sprintf(
				"%d GPUs over target can't be removed without undershooting",
				capacity-targetGPUs,
			))
		}

		if len(planned) > 0 {
			decision.Comments = append(decision.Comments, "removing workers")
		}

	default:
		if len(offers) == 0 {
			decision.Comments = append(decision.Comments, "below target, but there are no GPU offers")
			break
		}

		planned, capacity = scaleUp(offers, capacity, targetGPUs)

		if len(planned) > 0 {
			decision.Comments = append(decision.Comments, "adding workers")
		}

		if capacity < targetGPUs {
			decision.Comments = append(decision.Comments, fmt.Sprintf(
				"market stock exhausted %d GPUs short of the target",
				targetGPUs-capacity,
			))
		}
	}

	decision.Operations = append(operations, planned...)
	decision.PlannedGPUs = capacity

	return decision
}

// detectTimeouts splits the fleet into live workers and forced destroys for
// the ones that stopped responding.
func detectTimeouts(workers []Worker, now time.Time) (live []Worker, operations []ScalingOperation) {
	seen := make(map[string]struct{}, len(workers))

	for _, worker := range workers {
		if _, ok := seen[worker.ID]; ok {
			continue
		}
		seen[worker.ID] = struct{}{}

		if now.Sub(worker.LastSeen()) > WorkerTimeout {
			operations = append(operations, ScalingOperation{
				TargetID: worker.ID,
				Kind:     OperationDestroy,
				Forced:   true,
			})
			continue
		}

		live = append(live, worker)
	}

	return live, operations
}
