package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// AWSConfig is shared by the SQS and S3 clients. A non-empty Endpoint points
// every client at LocalStack with static credentials.
type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func loadAWSConfig(endpointKey string) AWSConfig {
	return AWSConfig{
		Region:          getEnvWithDefault("AWS_REGION", "ap-northeast-1"),
		Endpoint:        getEnvWithDefault(endpointKey, getEnvWithDefault("AWS_ENDPOINT_URL", "")),
		AccessKeyID:     getEnvWithDefault("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnvWithDefault("AWS_SECRET_ACCESS_KEY", ""),
	}
}

// Local reports whether clients should talk to an emulator.
func (c AWSConfig) Local() bool {
	return c.Endpoint != ""
}

// load builds the SDK config for serviceID.
func (c AWSConfig) load(ctx context.Context, serviceID string) (aws.Config, error) {
	options := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.Region)}

	if c.Local() {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == serviceID {
				return aws.Endpoint{PartitionID: "aws", URL: c.Endpoint, SigningRegion: c.Region}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		options = append(options, awsconfig.WithEndpointResolverWithOptions(resolver))
	}
	if c.AccessKeyID != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config for %s: %w", serviceID, err)
	}
	return cfg, nil
}
