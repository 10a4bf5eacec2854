package ifaces

import (
	"context"

	"github.com/shurcooL/graphql"
)

// RunPod is an interface which mocks the subset of the GraphQL client that we
// use to talk to the RunPod API.
//
//go:generate mockery --inpackage --name RunPod --filename mock_runpod.go
type RunPod interface {
	Query(context.Context, interface{}, map[string]interface{}, ...graphql.RequestOption) error
	Mutate(context.Context, interface{}, map[string]interface{}, ...graphql.RequestOption) error
}
