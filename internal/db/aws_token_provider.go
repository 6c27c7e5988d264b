package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
)

// AWSIAMTokenProvider acquires IAM authentication tokens for RDS.
// Credentials come from the default AWS chain (environment, shared config,
// instance roles) unless set explicitly with WithCredentials.
type AWSIAMTokenProvider struct {
	endpoint    string // host:port
	region      string
	username    string
	credentials aws.CredentialsProvider
}

// NewAWSIAMTokenProvider creates a token provider for AWS RDS IAM authentication.
// endpoint is the RDS endpoint in host:port format.
func NewAWSIAMTokenProvider(endpoint, region, username string) (*AWSIAMTokenProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("AWS IAM auth requires endpoint (host:port)")
	}
	if region == "" {
		return nil, fmt.Errorf("AWS IAM auth requires region (use --aws-region or $AWS_REGION)")
	}
	if username == "" {
		return nil, fmt.Errorf("AWS IAM auth requires database username")
	}

	return &AWSIAMTokenProvider{
		endpoint: endpoint,
		region:   region,
		username: username,
	}, nil
}

// WithCredentials pins the credentials used to sign tokens.
func (p *AWSIAMTokenProvider) WithCredentials(creds aws.CredentialsProvider) *AWSIAMTokenProvider {
	p.credentials = creds
	return p
}

// GetToken signs an IAM authentication token for the configured endpoint and user.
func (p *AWSIAMTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	creds := p.credentials
	if creds == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		creds = cfg.Credentials
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, creds)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}

	return token, time.Now().Add(rdsTokenLifetime), nil
}

// String returns a human-readable representation of the provider.
func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWSIAMTokenProvider(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}
