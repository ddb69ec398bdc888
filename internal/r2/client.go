package r2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/HaiFongPan/fpick/internal/config"
)

// S3API is the subset of the S3 client used to browse a bucket, so tests
// can substitute a mock
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client wraps the S3 client for an R2 or S3 compatible bucket
type Client struct {
	s3Client S3API
	bucket   string
}

// NewClient creates a new bucket client from configuration
func NewClient(ctx context.Context, cfg *appconfig.S3Config) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := Endpoint(cfg)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3Client: s3Client,
		bucket:   cfg.BucketName,
	}, nil
}

// NewClientWithAPI wraps an existing S3 implementation
func NewClientWithAPI(api S3API, bucket string) *Client {
	return &Client{s3Client: api, bucket: bucket}
}

// Endpoint returns the base endpoint for cfg. "auto" means the Cloudflare
// R2 endpoint of the account, "aws" or an empty value the AWS default.
func Endpoint(cfg *appconfig.S3Config) string {
	switch cfg.Endpoint {
	case "auto":
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	case "", "aws":
		return ""
	default:
		return cfg.Endpoint
	}
}

// GetS3Client returns the underlying S3 client
func (c *Client) GetS3Client() S3API {
	return c.s3Client
}

// GetBucketName returns the configured bucket name
func (c *Client) GetBucketName() string {
	return c.bucket
}
