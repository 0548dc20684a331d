package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config points at the bucket that receives archived billing events.
type S3Config struct {
	AWSConfig
	BucketName string
}

func DefaultS3Config() *S3Config {
	return &S3Config{
		AWSConfig:  loadAWSConfig("AWS_S3_ENDPOINT"),
		BucketName: getEnvWithDefault("S3_ARCHIVE_BUCKET", "tagorder-billing-archives"),
	}
}

func (c *S3Config) GetClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := c.load(ctx, s3.ServiceID)
	if err != nil {
		return nil, err
	}
	// LocalStack serves buckets by path, not by virtual host.
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = c.Local()
	}), nil
}
