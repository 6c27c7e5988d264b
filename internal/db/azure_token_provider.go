package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// azureCredentialProvider adapts any azcore.TokenCredential to TokenProvider.
type azureCredentialProvider struct {
	credential  azcore.TokenCredential
	description string
}

func (p *azureCredentialProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AzurePostgreSQLScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *azureCredentialProvider) String() string {
	return p.description
}

// NewAzureServicePrincipalProvider creates a token provider for Service Principal auth.
// All three parameters are required; the secret comes from $AZURE_CLIENT_SECRET.
func NewAzureServicePrincipalProvider(tenantID, clientID, clientSecret string) (TokenProvider, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("azure service principal requires tenantID, clientID, and clientSecret")
	}

	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	return &azureCredentialProvider{
		credential:  cred,
		description: fmt.Sprintf("AzureServicePrincipal(tenant=%s, client=%s)", tenantID, clientID),
	}, nil
}

// NewAzureDefaultCredentialProvider uses Azure's DefaultAzureCredential chain:
// environment variables, workload identity, managed identity, then the Azure CLI.
func NewAzureDefaultCredentialProvider() (TokenProvider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}

	return &azureCredentialProvider{
		credential:  cred,
		description: "AzureDefaultCredential",
	}, nil
}
