package internal_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/spacelift-io/gpuautoscalr/internal"
	"github.com/spacelift-io/gpuautoscalr/internal/ifaces"
)

const targetQuery = `sum(gpu_jobs_queued) / 4`

var targetNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupPrometheusTarget() (*internal.PrometheusTarget, *ifaces.MockPrometheus) {
	mockPrometheus := &ifaces.MockPrometheus{}

	tp := trace.NewTracerProvider(
		trace.WithSpanProcessor(trace.NewSimpleSpanProcessor(tracetest.NewNoopExporter())),
	)

	return &internal.PrometheusTarget{
		API:    mockPrometheus,
		Query:  targetQuery,
		Tracer: tp.Tracer("unittest"),
		Now:    func() time.Time { return targetNow },
	}, mockPrometheus
}

func TestPrometheusTarget_Scalar_RoundsUp(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()
	defer mockPrometheus.AssertExpectations(t)

	mockPrometheus.On("Query", mock.Anything, targetQuery, targetNow, mock.Anything).
		Return(&model.Scalar{Value: 6.25}, nil, nil)

	target, err := sut.TargetGPUs(t.Context())

	require.NoError(t, err)
	require.Equal(t, 7, target)
}

func TestPrometheusTarget_SingleSampleVector(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.Vector{{Value: 12}}, nil, nil)

	target, err := sut.TargetGPUs(t.Context())

	require.NoError(t, err)
	require.Equal(t, 12, target)
}

func TestPrometheusTarget_MultipleSamples_ReturnsError(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.Vector{{Value: 1}, {Value: 2}}, nil, nil)

	_, err := sut.TargetGPUs(t.Context())

	require.EqualError(t, err, "target capacity query returned 2 samples, expected 1")
}

func TestPrometheusTarget_NaN_ReturnsError(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.Scalar{Value: model.SampleValue(math.NaN())}, nil, nil)

	_, err := sut.TargetGPUs(t.Context())

	require.EqualError(t, err, "target capacity query returned a non-finite value")
}

func TestPrometheusTarget_HugeValue_ClampsToMaximum(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.Scalar{Value: 1e20}, nil, nil)

	target, err := internal.ClampTarget(sut, 0, 64).TargetGPUs(t.Context())

	require.NoError(t, err)
	require.Equal(t, 64, target)
}

func TestPrometheusTarget_HugeNegativeValue_ClampsToMinimum(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.Scalar{Value: -1e20}, nil, nil)

	target, err := internal.ClampTarget(sut, 2, 64).TargetGPUs(t.Context())

	require.NoError(t, err)
	require.Equal(t, 2, target)
}

func TestPrometheusTarget_NoValue_ReturnsError(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, nil)

	_, err := sut.TargetGPUs(t.Context())

	require.EqualError(t, err, "target capacity query returned no value")
}

func TestPrometheusTarget_Matrix_ReturnsError(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.Matrix{}, nil, nil)

	_, err := sut.TargetGPUs(t.Context())

	require.EqualError(t, err, "target capacity query returned unsupported type matrix")
}

func TestPrometheusTarget_APICallFails_ReturnsError(t *testing.T) {
	sut, mockPrometheus := setupPrometheusTarget()

	mockPrometheus.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, errors.New("bacon"))

	_, err := sut.TargetGPUs(t.Context())

	require.EqualError(t, err, "could not query target capacity: bacon")
}

func TestClampTarget(t *testing.T) {
	for _, tc := range []struct {
		name   string
		target int
		want   int
	}{
		{name: "below minimum", target: 1, want: 2},
		{name: "within bounds", target: 5, want: 5},
		{name: "above maximum", target: 100, want: 16},
	} {
		t.Run(tc.name, func(t *testing.T) {
			target, err := internal.ClampTarget(internal.StaticTarget(tc.target), 2, 16).TargetGPUs(t.Context())

			require.NoError(t, err)
			require.Equal(t, tc.want, target)
		})
	}
}

func TestClampTarget_PropagatesErrors(t *testing.T) {
	source := new(MockTargetSource)
	source.On("TargetGPUs", mock.Anything).Return(0, errors.New("bacon"))

	_, err := internal.ClampTarget(source, 0, 10).TargetGPUs(t.Context())

	require.EqualError(t, err, "bacon")
}

func TestNewTargetSource_Static(t *testing.T) {
	source, err := internal.NewTargetSource(&internal.RuntimeConfig{
		AutoscalingTargetGPUs: 8,
		AutoscalingMaxGPUs:    4,
	})
	require.NoError(t, err)

	target, err := source.TargetGPUs(t.Context())

	require.NoError(t, err)
	require.Equal(t, 4, target)
}
