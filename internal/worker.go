package internal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spacelift-io/gpuautoscalr/internal/engine"
)

// WorkerRecord is the persistent record of a single fleet worker. A record is
// registered before its pod is requested, so PodID and GPUCount stay empty
// until the pod has been provisioned.
type WorkerRecord struct {
	ID        string     `dynamodbav:"id" json:"id"`
	PodID     string     `dynamodbav:"pod_id,omitempty" json:"podId,omitempty"`
	OfferID   string     `dynamodbav:"offer_id,omitempty" json:"offerId,omitempty"`
	GPUCount  *int       `dynamodbav:"gpu_count,omitempty" json:"gpuCount,omitempty"`
	CreatedAt time.Time  `dynamodbav:"created_at" json:"createdAt"`
	LastPing  *time.Time `dynamodbav:"last_ping,omitempty" json:"lastPing,omitempty"`
}

// Provisioned tells whether the worker's pod exists.
func (w *WorkerRecord) Provisioned() bool {
	return w.PodID != ""
}

func (w *WorkerRecord) Engine() engine.Worker {
	return engine.Worker{
		ID:        w.ID,
		GPUCount:  w.GPUCount,
		CreatedAt: w.CreatedAt,
		LastPing:  w.LastPing,
	}
}

// PodName is the RunPod pod name of a fleet worker.
func PodName(prefix, workerID string) string {
	return prefix + "-" + workerID
}

// WorkerIDFromPodName reverses PodName. It returns false for pods which don't
// belong to the fleet. Worker IDs are always canonical UUIDs, so a pod of
// another fleet whose prefix merely starts with ours ("gpufleet-eu-<uuid>")
// is not mistaken for one of our workers.
func WorkerIDFromPodName(prefix, podName string) (string, bool) {
	workerID, ok := strings.CutPrefix(podName, prefix+"-")
	if !ok {
		return "", false
	}

	parsed, err := uuid.Parse(workerID)
	if err != nil || parsed.String() != workerID {
		return "", false
	}

	return workerID, true
}
