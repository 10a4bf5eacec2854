package ifaces

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// The secret stores the RunPod API key can be read from, one per platform.

// SSM is the subset of the SSM client used to read SecureString parameters.
//
//go:generate mockery --inpackage --name SSM --filename mock_ssm.go
type SSM interface {
	GetParameter(context.Context, *ssm.GetParameterInput, ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// GCPSecretManager hides the protobuf request and response types of the GCP
// Secret Manager client.
//
//go:generate mockery --output ./ --name GCPSecretManager --filename mock_gcp_secret_manager.go --outpkg ifaces --structname MockGCPSecretManager
type GCPSecretManager interface {
	// AccessSecretVersion returns the payload of a secret version, named by
	// its full resource name, e.g.
	// projects/{project}/secrets/{secret}/versions/latest.
	AccessSecretVersion(ctx context.Context, name string) ([]byte, error)

	Close() error
}

// AzureKeyVault reads the latest version of a Key Vault secret.
//
//go:generate mockery --output ./ --name AzureKeyVault --filename mock_azure_keyvault.go --outpkg ifaces --structname MockAzureKeyVault
type AzureKeyVault interface {
	GetSecret(ctx context.Context, secretName string) (azsecrets.GetSecretResponse, error)
}
