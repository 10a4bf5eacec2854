package ifaces

import (
	"context"
	"time"

	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// Prometheus is the subset of the Prometheus HTTP API used to read the
// capacity target.
//
//go:generate mockery --inpackage --name Prometheus --filename mock_prometheus.go
type Prometheus interface {
	Query(ctx context.Context, query string, ts time.Time, opts ...v1.Option) (model.Value, v1.Warnings, error)
}
