package internal

import (
	"context"
	"errors"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"google.golang.org/api/option"

	"github.com/spacelift-io/gpuautoscalr/internal/ifaces"
)

// SecretSource reads secrets from the platform's secret store.
type SecretSource interface {
	Secret(ctx context.Context, name string) (string, error)
	Close() error
}

// SSMSecrets reads SecureString parameters from AWS SSM Parameter Store.
type SSMSecrets struct {
	SSM ifaces.SSM
}

func (s *SSMSecrets) Secret(ctx context.Context, name string) (string, error) {
	output, err := s.SSM.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})

	if err != nil {
		return "", fmt.Errorf("could not get secret from SSM: %w", err)
	} else if output.Parameter == nil {
		return "", errors.New("could not find secret in SSM")
	} else if output.Parameter.Value == nil {
		return "", errors.New("could not find secret value in SSM")
	}

	return *output.Parameter.Value, nil
}

func (s *SSMSecrets) Close() error { return nil }

// GCPSecrets reads secret versions from GCP Secret Manager. Names are full
// resource names of secret versions.
type GCPSecrets struct {
	SecretManager ifaces.GCPSecretManager
}

func (s *GCPSecrets) Secret(ctx context.Context, name string) (string, error) {
	data, err := s.SecretManager.AccessSecretVersion(ctx, name)
	if err != nil {
		return "", fmt.Errorf("could not get secret from Secret Manager: %w", err)
	}

	if len(data) == 0 {
		return "", errors.New("could not find secret value in Secret Manager")
	}

	return string(data), nil
}

func (s *GCPSecrets) Close() error {
	return s.SecretManager.Close()
}

// AzureSecrets reads secrets from an Azure Key Vault.
type AzureSecrets struct {
	KeyVault ifaces.AzureKeyVault
}

func (s *AzureSecrets) Secret(ctx context.Context, name string) (string, error) {
	secret, err := s.KeyVault.GetSecret(ctx, name)
	if err != nil {
		return "", fmt.Errorf("could not get secret from Key Vault: %w", err)
	}

	if secret.Value == nil {
		return "", errors.New("could not find secret value in Key Vault")
	}

	return *secret.Value, nil
}

func (s *AzureSecrets) Close() error { return nil }

// gcpSecretManagerClient wraps the GCP Secret Manager SDK client to implement
// the GCPSecretManager interface.
type gcpSecretManagerClient struct {
	client *secretmanager.Client
}

func (c *gcpSecretManagerClient) AccessSecretVersion(ctx context.Context, name string) ([]byte, error) {
	resp, err := c.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, err
	}

	if resp.Payload == nil {
		return nil, nil
	}

	return resp.Payload.Data, nil
}

func (c *gcpSecretManagerClient) Close() error {
	return c.client.Close()
}

// azureKeyVaultClient wraps the Azure Key Vault SDK client to implement the
// AzureKeyVault interface.
type azureKeyVaultClient struct {
	client *azsecrets.Client
}

func (c *azureKeyVaultClient) GetSecret(ctx context.Context, secretName string) (azsecrets.GetSecretResponse, error) {
	return c.client.GetSecret(ctx, secretName, "", nil)
}

func newAzureKeyVault(vaultName string, cred azcore.TokenCredential) (ifaces.AzureKeyVault, error) {
	client, err := azsecrets.NewClient(fmt.Sprintf("https://%s.vault.azure.net/", vaultName), cred, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create Key Vault client: %w", err)
	}

	return &azureKeyVaultClient{client: client}, nil
}

// NewSecretSource creates the secret store client for the platform.
func NewSecretSource(ctx context.Context, cfg *RuntimeConfig, platform Platform) (SecretSource, error) {
	switch platform {
	case PlatformGCP:
		var opts []option.ClientOption
		if cfg.GCPSecretManagerEndpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.GCPSecretManagerEndpoint))
		}

		client, err := secretmanager.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("could not create GCP Secret Manager client: %w", err)
		}

		return &GCPSecrets{SecretManager: &gcpSecretManagerClient{client: client}}, nil

	case PlatformAzure:
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("could not create Azure credential: %w", err)
		}

		keyVault, err := newAzureKeyVault(cfg.AzureKeyVaultName, cred)
		if err != nil {
			return nil, err
		}

		return &AzureSecrets{KeyVault: keyVault}, nil

	default:
		var opts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			opts = append(opts, config.WithRegion(cfg.AWSRegion))
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("could not load AWS configuration: %w", err)
		}

		otelaws.AppendMiddlewares(&awsConfig.APIOptions)

		return &SSMSecrets{SSM: ssm.NewFromConfig(awsConfig)}, nil
	}
}

// ResolveRunPodAPIKey returns the RunPod API key, either straight from the
// configuration or from the secret store.
func ResolveRunPodAPIKey(ctx context.Context, cfg *RuntimeConfig, secrets SecretSource) (string, error) {
	if cfg.RunPodAPIKey != "" {
		return cfg.RunPodAPIKey, nil
	}

	if cfg.RunPodAPIKeySecretName == "" {
		return "", errors.New("neither RUNPOD_API_KEY nor RUNPOD_API_KEY_SECRET_NAME is set")
	}

	apiKey, err := secrets.Secret(ctx, cfg.RunPodAPIKeySecretName)
	if err != nil {
		return "", fmt.Errorf("could not get RunPod API key: %w", err)
	}

	return apiKey, nil
}
