package internal

import "github.com/shurcooL/graphql"

// GpuTypesQuery lists a GPU type together with its lowest price for a given
// number of GPUs per pod.
//
// gpuTypes(input: GpuTypeFilter) { ... lowestPrice(input: GpuLowestPriceInput) { ... } }
type GpuTypesQuery struct {
	GpuTypes []GpuType `graphql:"gpuTypes(input: $gpuTypesInput)"`
}

type GpuType struct {
	ID          string          `graphql:"id" json:"id"`
	DisplayName string          `graphql:"displayName" json:"displayName"`
	MaxGpuCount int32           `graphql:"maxGpuCount" json:"maxGpuCount"`
	LowestPrice *GpuLowestPrice `graphql:"lowestPrice(input: $lowestPriceInput)" json:"lowestPrice"`
}

type GpuLowestPrice struct {
	StockStatus          *string `graphql:"stockStatus" json:"stockStatus"`
	UninterruptablePrice float64 `graphql:"uninterruptablePrice" json:"uninterruptablePrice"`
}

// GpuTypeFilter and GpuLowestPriceInput are named after the RunPod input
// types, since the GraphQL client derives variable types from Go type names.
type GpuTypeFilter struct {
	ID graphql.String `json:"id"`
}

type GpuLowestPriceInput struct {
	GpuCount      graphql.Int     `json:"gpuCount"`
	MinVcpuCount  graphql.Int     `json:"minVcpuCount"`
	MinMemoryInGb graphql.Int     `json:"minMemoryInGb"`
	SecureCloud   graphql.Boolean `json:"secureCloud"`
}

// PodsQuery lists all the pods belonging to the API key owner.
type PodsQuery struct {
	Myself struct {
		Pods []Pod `graphql:"pods" json:"pods"`
	} `graphql:"myself" json:"myself"`
}

type Pod struct {
	ID            string `graphql:"id" json:"id"`
	Name          string `graphql:"name" json:"name"`
	DesiredStatus string `graphql:"desiredStatus" json:"desiredStatus"`
}

// PodFindAndDeployOnDemand rents a new on-demand pod.
type PodFindAndDeployOnDemand struct {
	Pod struct {
		ID        string `graphql:"id" json:"id"`
		MachineID string `graphql:"machineId" json:"machineId"`
	} `graphql:"podFindAndDeployOnDemand(input: $input)"`
}

type PodFindAndDeployOnDemandInput struct {
	CloudType         string                     `json:"cloudType"`
	GpuCount          int                        `json:"gpuCount"`
	GpuTypeID         string                     `json:"gpuTypeId"`
	Name              string                     `json:"name"`
	VolumeInGb        int                        `json:"volumeInGb"`
	ContainerDiskInGb int                        `json:"containerDiskInGb"`
	MinVcpuCount      int                        `json:"minVcpuCount"`
	MinMemoryInGb     int                        `json:"minMemoryInGb"`
	ImageName         string                     `json:"imageName,omitempty"`
	TemplateID        string                     `json:"templateId,omitempty"`
	Env               []EnvironmentVariableInput `json:"env,omitempty"`
}

type EnvironmentVariableInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PodTerminate terminates a pod. The mutation returns no data.
type PodTerminate struct {
	PodTerminate *string `graphql:"podTerminate(input: $input)"`
}

type PodTerminateInput struct {
	PodID string `json:"podId"`
}
