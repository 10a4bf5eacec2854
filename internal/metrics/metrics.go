// Package metrics exposes the autoscaler's decisions as Prometheus metrics.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacelift-io/gpuautoscalr/internal/engine"
)

const namespace = "gpufleet"

type Metrics struct {
	registry *prometheus.Registry

	capacity   prometheus.Gauge
	planned    prometheus.Gauge
	target     prometheus.Gauge
	timedOut   prometheus.Gauge
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "capacity_gpus",
			Help:      "GPUs provided by live workers at the start of the last cycle.",
		}),
		planned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "planned_capacity_gpus",
			Help:      "GPUs the fleet will have once the last cycle's operations are applied.",
		}),
		target: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "target_gpus",
			Help:      "Capacity target of the last cycle.",
		}),
		timedOut: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timed_out_workers",
			Help:      "Workers found unresponsive in the last cycle.",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scaling_operations_total",
			Help:      "Scaling operations applied successfully.",
		}, []string{"kind", "forced"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Scaling operations which failed to apply.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(m.capacity, m.planned, m.target, m.timedOut, m.operations, m.failures)

	return m
}

// Registry returns the registry holding the autoscaler metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveDecision(decision engine.Decision) {
	if m == nil {
		return
	}

	m.capacity.Set(float64(decision.CurrentGPUs))
	m.planned.Set(float64(decision.PlannedGPUs))
	m.target.Set(float64(decision.TargetGPUs))
	m.timedOut.Set(float64(decision.TimedOut))
}

func (m *Metrics) OperationApplied(operation engine.ScalingOperation) {
	if m == nil {
		return
	}

	m.operations.WithLabelValues(string(operation.Kind), strconv.FormatBool(operation.Forced)).Inc()
}

func (m *Metrics) OperationFailed(operation engine.ScalingOperation) {
	if m == nil {
		return
	}

	m.failures.WithLabelValues(string(operation.Kind)).Inc()
}
