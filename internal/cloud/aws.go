// Package cloud builds the shared AWS configuration used by the object store
// and face service clients.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kozaktomas/face-orchestrator/internal/config"
)

// NewHTTPClient returns the pooled HTTP client shared by every AWS client and
// by URL image downloads. It is created once per process.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// LoadAWSConfig resolves region and credentials once at start-up.
// Static keys are used when both are configured; otherwise the default
// credential chain (environment, shared config, instance role) applies.
// Retries are disabled: every remote failure surfaces to the caller as is.
func LoadAWSConfig(ctx context.Context, cfg *config.AWSConfig, httpClient *http.Client) (aws.Config, error) {
	if cfg == nil || cfg.Region == "" {
		return aws.Config{}, errors.New("AWS region is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return aws.Config{}, errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if httpClient != nil {
		opts = append(opts, awsconfig.WithHTTPClient(httpClient))
	}
	if cfg.HasStaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// NewS3Client builds the object store client. An endpoint override points it
// at an S3-compatible store such as MinIO or LocalStack.
func NewS3Client(awsCfg aws.Config, cfg *config.AWSConfig) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
}

// NewRekognitionClient builds the face service client.
func NewRekognitionClient(awsCfg aws.Config) *rekognition.Client {
	return rekognition.NewFromConfig(awsCfg)
}
