package engine

import (
	"fmt"
	"time"
)

const (
	// WorkerTimeout is how long a worker may go without a ping (or, if it
	// never pinged, since its creation) before it is considered dead.
	WorkerTimeout = 10 * time.Minute

	// ScaleDownCooldown is the minimum time between the last scaling action
	// and a scale-down.
	ScaleDownCooldown = 10 * time.Minute
)

// Worker is a single rented GPU pod, as far as the engine is concerned.
type Worker struct {
	ID string

	// GPUCount is nil until the pod has been provisioned.
	GPUCount *int

	CreatedAt time.Time
	LastPing  *time.Time
}

// Capacity returns the number of GPUs the worker contributes to the fleet.
func (w Worker) Capacity() int {
	if w.GPUCount == nil {
		return 0
	}

	return *w.GPUCount
}

// LastSeen is the last moment the worker was known to be alive.
func (w Worker) LastSeen() time.Time {
	if w.LastPing != nil {
		return *w.LastPing
	}

	return w.CreatedAt
}

// StockStatus is the coarse availability signal reported by the provider.
type StockStatus int

const (
	StockUnavailable StockStatus = iota
	StockLow
	StockMedium
	StockHigh
)

// ParseStockStatus maps the provider's status strings. Anything it does not
// recognise, including an empty string, is StockUnavailable.
func ParseStockStatus(s string) StockStatus {
	switch s {
	case "Low":
		return StockLow
	case "Medium":
		return StockMedium
	case "High":
		return StockHigh
	default:
		return StockUnavailable
	}
}

func (s StockStatus) String() string {
	switch s {
	case StockLow:
		return "Low"
	case StockMedium:
		return "Medium"
	case StockHigh:
		return "High"
	default:
		return "Unavailable"
	}
}

// Budget is the number of units of a size tier we are willing to request for
// a given stock status. The provider reports Low, Medium and High for roughly
// 1-5, 6-15 and 16-30+ machines, so the mapping is deliberately pessimistic.
func (s StockStatus) Budget() int {
	switch s {
	case StockLow:
		return 1
	case StockMedium:
		return 5
	case StockHigh:
		return 15
	default:
		return 0
	}
}

// GpuOffer is one purchasable GPU configuration in the current market
// snapshot.
type GpuOffer struct {
	SizeTier    int
	StockStatus StockStatus
	OfferID     string
}

type OperationKind string

const (
	OperationCreate  OperationKind = "create"
	OperationDestroy OperationKind = "destroy"
)

// ScalingOperation is a single recommendation for the executor. TargetID is
// the worker ID for Destroy and the offer ID for Create.
type ScalingOperation struct {
	TargetID string
	Kind     OperationKind
	GPUCount int
	Forced   bool
}

func (o ScalingOperation) String() string {
	if o.Kind == OperationCreate {
		return fmt.Sprintf("create %s x%d", o.TargetID, o.GPUCount)
	}

	if o.Forced {
		return fmt.Sprintf("destroy %s (forced)", o.TargetID)
	}

	return fmt.Sprintf("destroy %s", o.TargetID)
}
