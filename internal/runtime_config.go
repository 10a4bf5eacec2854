package internal

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Platform represents the cloud platform the autoscaler runs on. It decides
// where the RunPod API key is read from.
type Platform string

const (
	PlatformAWS   Platform = "aws"
	PlatformAzure Platform = "azure"
	PlatformGCP   Platform = "gcp"
)

type RuntimeConfig struct {
	// RunPod API access.
	RunPodAPIEndpoint      string `env:"RUNPOD_API_ENDPOINT" envDefault:"https://api.runpod.io/graphql"`
	RunPodAPIKey           string `env:"RUNPOD_API_KEY"`
	RunPodAPIKeySecretName string `env:"RUNPOD_API_KEY_SECRET_NAME"`

	// Pods rented for the fleet.
	RunPodGPUTypeID       string            `env:"RUNPOD_GPU_TYPE_ID,notEmpty"`
	RunPodGPUCounts       []int             `env:"RUNPOD_GPU_COUNTS" envDefault:"1,2,4,8"`
	RunPodCloudType       string            `env:"RUNPOD_CLOUD_TYPE" envDefault:"COMMUNITY"`
	RunPodTemplateID      string            `env:"RUNPOD_TEMPLATE_ID"`
	RunPodImageName       string            `env:"RUNPOD_IMAGE_NAME"`
	RunPodContainerDiskGB int               `env:"RUNPOD_CONTAINER_DISK_GB" envDefault:"20"`
	RunPodVolumeGB        int               `env:"RUNPOD_VOLUME_GB" envDefault:"0"`
	RunPodMinVCPU         int               `env:"RUNPOD_MIN_VCPU" envDefault:"2"`
	RunPodMinMemoryGB     int               `env:"RUNPOD_MIN_MEMORY_GB" envDefault:"15"`
	RunPodWorkerEnv       map[string]string `env:"RUNPOD_WORKER_ENV"`
	RunPodPodPrefix       string            `env:"RUNPOD_POD_PREFIX" envDefault:"gpufleet"`

	// Worker registry.
	FleetTableName   string `env:"FLEET_TABLE_NAME,notEmpty"`
	FleetTableRegion string `env:"FLEET_TABLE_REGION"`

	// Bearer token required on worker heartbeats. Empty disables the check.
	WorkerPingToken string `env:"WORKER_PING_TOKEN"`

	// Capacity target.
	AutoscalingTargetGPUs  int    `env:"AUTOSCALING_TARGET_GPUS" envDefault:"0"`
	AutoscalingTargetQuery string `env:"AUTOSCALING_TARGET_QUERY"`
	PrometheusAddress      string `env:"PROMETHEUS_ADDRESS"`
	AutoscalingMinGPUs     int    `env:"AUTOSCALING_MIN_GPUS" envDefault:"0"`
	AutoscalingMaxGPUs     int    `env:"AUTOSCALING_MAX_GPUS" envDefault:"64"`

	// Execution limits.
	AutoscalingMaxCreate int  `env:"AUTOSCALING_MAX_CREATE" envDefault:"0"`
	AutoscalingMaxKill   int  `env:"AUTOSCALING_MAX_KILL" envDefault:"0"`
	AutoscalingDryRun    bool `env:"AUTOSCALING_DRY_RUN" envDefault:"false"`

	// AWS-specific fields - use awsEnv tag
	AWSRegion string `awsEnv:"RUNPOD_API_KEY_SECRET_REGION"`

	// GCP-specific fields - use gcpEnv tag
	GCPSecretManagerEndpoint string `gcpEnv:"GCP_SECRET_MANAGER_ENDPOINT"`

	// Azure-specific fields - use azEnv tag
	AzureKeyVaultName string `azEnv:"AZURE_KEY_VAULT_NAME,notEmpty"`
}

// Parse parses environment variables into the config for the specified
// platform and validates the result.
func (r *RuntimeConfig) Parse(platform Platform) error {
	var allErrors env.AggregateError

	if err := env.Parse(r); err != nil {
		allErrors.Errors = append(allErrors.Errors, unwrapAggregate(err)...)
	}

	var tag string

	switch platform {
	case PlatformAWS:
		tag = "awsEnv"
	case PlatformGCP:
		tag = "gcpEnv"
	case PlatformAzure:
		tag = "azEnv"
	default:
		return fmt.Errorf("unknown platform %q", platform)
	}

	// Defaults were applied by the first pass; a second pass with defaults
	// enabled would overwrite the parsed values of untagged fields.
	opts := env.Options{TagName: tag, DefaultValueTagName: "platformDefault"}
	if err := env.ParseWithOptions(r, opts); err != nil {
		allErrors.Errors = append(allErrors.Errors, unwrapAggregate(err)...)
	}

	if len(allErrors.Errors) > 0 {
		return allErrors
	}

	return r.Validate()
}

func unwrapAggregate(err error) []error {
	var aggErr env.AggregateError
	if errors.As(err, &aggErr) {
		return aggErr.Errors
	}

	return []error{err}
}

// Validate checks the relationships between fields.
func (r *RuntimeConfig) Validate() error {
	var errs []error

	if r.RunPodAPIKey == "" && r.RunPodAPIKeySecretName == "" {
		errs = append(errs, errors.New("one of RUNPOD_API_KEY and RUNPOD_API_KEY_SECRET_NAME must be set"))
	}

	if len(r.RunPodGPUCounts) == 0 {
		errs = append(errs, errors.New("RUNPOD_GPU_COUNTS must not be empty"))
	}

	for _, count := range r.RunPodGPUCounts {
		if count <= 0 {
			errs = append(errs, fmt.Errorf("RUNPOD_GPU_COUNTS must be positive, got %d", count))
		}
	}

	if r.AutoscalingTargetQuery != "" && r.PrometheusAddress == "" {
		errs = append(errs, errors.New("PROMETHEUS_ADDRESS is required with AUTOSCALING_TARGET_QUERY"))
	}

	if r.AutoscalingMinGPUs < 0 {
		errs = append(errs, fmt.Errorf("AUTOSCALING_MIN_GPUS (%d) must not be negative", r.AutoscalingMinGPUs))
	}

	if r.AutoscalingMaxGPUs < r.AutoscalingMinGPUs {
		errs = append(errs, fmt.Errorf("AUTOSCALING_MAX_GPUS (%d) must be greater than or equal to AUTOSCALING_MIN_GPUS (%d)",
			r.AutoscalingMaxGPUs, r.AutoscalingMinGPUs))
	}

	if r.AutoscalingMaxCreate < 0 || r.AutoscalingMaxKill < 0 {
		errs = append(errs, errors.New("AUTOSCALING_MAX_CREATE and AUTOSCALING_MAX_KILL must not be negative"))
	}

	return errors.Join(errs...)
}
