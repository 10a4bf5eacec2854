package internal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spacelift-io/gpuautoscalr/internal/ifaces"
)

// TargetSource supplies the number of GPUs the fleet should have.
//
//go:generate mockery --output ./ --name TargetSource --filename mock_target_source_test.go --outpkg internal_test
type TargetSource interface {
	TargetGPUs(ctx context.Context) (int, error)
}

// StaticTarget is a fixed capacity target.
type StaticTarget int

func (t StaticTarget) TargetGPUs(context.Context) (int, error) {
	return int(t), nil
}

// PrometheusTarget evaluates a PromQL expression and rounds the result up.
// The expression must produce a scalar or a single-sample vector.
type PrometheusTarget struct {
	API    ifaces.Prometheus
	Query  string
	Tracer trace.Tracer

	// Now is the evaluation time. Defaults to time.Now.
	Now func() time.Time
}

func (t *PrometheusTarget) TargetGPUs(ctx context.Context) (int, error) {
	ctx, span := t.Tracer.Start(ctx, "prometheus.target.query")
	defer span.End()

	span.SetAttributes(attribute.String("query", t.Query))

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	value, _, err := t.API.Query(ctx, t.Query, now())
	if err != nil {
		return 0, fmt.Errorf("could not query target capacity: %w", err)
	}

	if value == nil {
		return 0, errors.New("target capacity query returned no value")
	}

	var sample float64

	switch v := value.(type) {
	case *model.Scalar:
		sample = float64(v.Value)
	case model.Vector:
		if len(v) != 1 {
			return 0, fmt.Errorf("target capacity query returned %d samples, expected 1", len(v))
		}
		sample = float64(v[0].Value)
	default:
		return 0, fmt.Errorf("target capacity query returned unsupported type %s", value.Type())
	}

	if math.IsNaN(sample) || math.IsInf(sample, 0) {
		return 0, errors.New("target capacity query returned a non-finite value")
	}

	span.SetAttributes(attribute.Float64("value", sample))

	// Saturate before converting so out-of-range results still clamp.
	sample = math.Min(math.Max(math.Ceil(sample), math.MinInt32), math.MaxInt32)

	return int(sample), nil
}

// clampedTarget keeps the target of another source within bounds.
type clampedTarget struct {
	source   TargetSource
	min, max int
}

func (t clampedTarget) TargetGPUs(ctx context.Context) (int, error) {
	target, err := t.source.TargetGPUs(ctx)
	if err != nil {
		return 0, err
	}

	return min(max(target, t.min), t.max), nil
}

// ClampTarget bounds the target of source to [minGPUs, maxGPUs].
func ClampTarget(source TargetSource, minGPUs, maxGPUs int) TargetSource {
	return clampedTarget{source: source, min: minGPUs, max: maxGPUs}
}

// NewTargetSource creates the target source described by the configuration.
func NewTargetSource(cfg *RuntimeConfig) (TargetSource, error) {
	if cfg.AutoscalingTargetQuery == "" {
		return ClampTarget(StaticTarget(cfg.AutoscalingTargetGPUs), cfg.AutoscalingMinGPUs, cfg.AutoscalingMaxGPUs), nil
	}

	client, err := api.NewClient(api.Config{
		Address:      cfg.PrometheusAddress,
		RoundTripper: otelhttp.NewTransport(api.DefaultRoundTripper),
	})

	if err != nil {
		return nil, fmt.Errorf("could not create Prometheus client: %w", err)
	}

	return ClampTarget(&PrometheusTarget{
		API:    v1.NewAPI(client),
		Query:  cfg.AutoscalingTargetQuery,
		Tracer: otel.Tracer("github.com/spacelift-io/gpuautoscalr/internal/target"),
	}, cfg.AutoscalingMinGPUs, cfg.AutoscalingMaxGPUs), nil
}
