package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/shurcooL/graphql"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spacelift-io/gpuautoscalr/internal/engine"
	"github.com/spacelift-io/gpuautoscalr/internal/ifaces"
)

// PodSpec describes the pods rented for the fleet, apart from their GPU
// count.
type PodSpec struct {
	CloudType         string
	TemplateID        string
	ImageName         string
	ContainerDiskInGb int
	VolumeInGb        int
	MinVcpuCount      int
	MinMemoryInGb     int
	Env               map[string]string
}

// Controller is responsible for handling interactions with the RunPod API so
// that the autoscaler can focus on the core logic.
type Controller struct {
	// Clients.
	RunPod ifaces.RunPod

	// Configuration.
	GPUTypeID string
	GPUCounts []int
	PodSpec   PodSpec

	// Telemetry.
	Tracer trace.Tracer
}

// NewController creates a controller talking to the RunPod GraphQL API.
func NewController(cfg *RuntimeConfig, apiKey string) (*Controller, error) {
	runPod, err := newRunPodClient(cfg.RunPodAPIEndpoint, apiKey)
	if err != nil {
		return nil, err
	}

	return &Controller{
		RunPod:    runPod,
		GPUTypeID: cfg.RunPodGPUTypeID,
		GPUCounts: cfg.RunPodGPUCounts,
		PodSpec: PodSpec{
			CloudType:         cfg.RunPodCloudType,
			TemplateID:        cfg.RunPodTemplateID,
			ImageName:         cfg.RunPodImageName,
			ContainerDiskInGb: cfg.RunPodContainerDiskGB,
			VolumeInGb:        cfg.RunPodVolumeGB,
			MinVcpuCount:      cfg.RunPodMinVCPU,
			MinMemoryInGb:     cfg.RunPodMinMemoryGB,
			Env:               cfg.RunPodWorkerEnv,
		},
		Tracer: otel.Tracer("github.com/spacelift-io/gpuautoscalr/internal/controller"),
	}, nil
}

func newRunPodClient(endpoint, apiKey string) (ifaces.RunPod, error) {
	if apiKey == "" {
		return nil, errors.New("RunPod API key is empty")
	}

	endpointURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("could not parse RunPod API endpoint: %w", err)
	}

	// RunPod authenticates GraphQL requests with a query parameter.
	query := endpointURL.Query()
	query.Set("api_key", apiKey)
	endpointURL.RawQuery = query.Encode()

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(
			http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Host
			}),
		),
	}

	return graphql.NewClient(endpointURL.String(), httpClient), nil
}

// GetOffers returns the current market snapshot for the configured GPU type,
// one offer per GPU count, sorted by GPU count.
func (c *Controller) GetOffers(ctx context.Context) (offers []engine.GpuOffer, err error) {
	ctx, span := c.Tracer.Start(ctx, "runpod.gputypes.get")
	defer span.End()

	span.SetAttributes(attribute.String("gpu_type_id", c.GPUTypeID))

	for _, gpuCount := range c.GPUCounts {
		var offer *engine.GpuOffer

		if offer, err = c.getOffer(ctx, gpuCount); err != nil {
			return nil, err
		}

		if offer != nil {
			offers = append(offers, *offer)
		}
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].SizeTier < offers[j].SizeTier
	})

	span.SetAttributes(attribute.Int("offers", len(offers)))

	return offers, nil
}

func (c *Controller) getOffer(ctx context.Context, gpuCount int) (*engine.GpuOffer, error) {
	var query GpuTypesQuery

	variables := map[string]any{
		"gpuTypesInput": GpuTypeFilter{ID: graphql.String(c.GPUTypeID)},
		"lowestPriceInput": GpuLowestPriceInput{
			GpuCount:      graphql.Int(gpuCount),
			MinVcpuCount:  graphql.Int(c.PodSpec.MinVcpuCount),
			MinMemoryInGb: graphql.Int(c.PodSpec.MinMemoryInGb),
			SecureCloud:   graphql.Boolean(c.PodSpec.CloudType == "SECURE"),
		},
	}

	if err := c.RunPod.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("could not get RunPod GPU types for %d GPUs: %w", gpuCount, err)
	}

	for _, gpuType := range query.GpuTypes {
		if gpuType.ID != c.GPUTypeID {
			continue
		}

		if int(gpuType.MaxGpuCount) < gpuCount {
			return nil, nil
		}

		offer := &engine.GpuOffer{SizeTier: gpuCount, OfferID: gpuType.ID}

		if gpuType.LowestPrice != nil && gpuType.LowestPrice.StockStatus != nil {
			offer.StockStatus = engine.ParseStockStatus(*gpuType.LowestPrice.StockStatus)
		}

		return offer, nil
	}

	return nil, nil
}

// CreatePod rents a new on-demand pod and returns its ID.
func (c *Controller) CreatePod(ctx context.Context, name, gpuTypeID string, gpuCount int) (podID string, err error) {
	ctx, span := c.Tracer.Start(ctx, "runpod.pod.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("pod_name", name),
		attribute.String("gpu_type_id", gpuTypeID),
		attribute.Int("gpu_count", gpuCount),
	)

	input := PodFindAndDeployOnDemandInput{
		CloudType:         c.PodSpec.CloudType,
		GpuCount:          gpuCount,
		GpuTypeID:         gpuTypeID,
		Name:              name,
		VolumeInGb:        c.PodSpec.VolumeInGb,
		ContainerDiskInGb: c.PodSpec.ContainerDiskInGb,
		MinVcpuCount:      c.PodSpec.MinVcpuCount,
		MinMemoryInGb:     c.PodSpec.MinMemoryInGb,
		ImageName:         c.PodSpec.ImageName,
		TemplateID:        c.PodSpec.TemplateID,
	}

	keys := make([]string, 0, len(c.PodSpec.Env))
	for key := range c.PodSpec.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		input.Env = append(input.Env, EnvironmentVariableInput{Key: key, Value: c.PodSpec.Env[key]})
	}

	var mutation PodFindAndDeployOnDemand

	if err = c.RunPod.Mutate(ctx, &mutation, map[string]any{"input": input}); err != nil {
		err = fmt.Errorf("could not create pod: %w", err)
		return "", err
	}

	if mutation.Pod.ID == "" {
		err = errors.New("could not create pod: no machine available")
		return "", err
	}

	span.SetAttributes(
		attribute.String("pod_id", mutation.Pod.ID),
		attribute.String("machine_id", mutation.Pod.MachineID),
	)

	return mutation.Pod.ID, nil
}

// TerminatePod terminates a pod. Terminated pods are not billed.
func (c *Controller) TerminatePod(ctx context.Context, podID string) (err error) {
	ctx, span := c.Tracer.Start(ctx, "runpod.pod.terminate")
	defer span.End()

	span.SetAttributes(attribute.String("pod_id", podID))

	var mutation PodTerminate

	if err = c.RunPod.Mutate(ctx, &mutation, map[string]any{"input": PodTerminateInput{PodID: podID}}); err != nil {
		err = fmt.Errorf("could not terminate pod: %w", err)
		return err
	}

	return nil
}

// ListPods returns all the pods visible to the API key.
func (c *Controller) ListPods(ctx context.Context) (pods []Pod, err error) {
	ctx, span := c.Tracer.Start(ctx, "runpod.pods.list")
	defer span.End()

	var query PodsQuery

	if err = c.RunPod.Query(ctx, &query, nil); err != nil {
		err = fmt.Errorf("could not list RunPod pods: %w", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("pods", len(query.Myself.Pods)))

	return query.Myself.Pods, nil
}
