// S3 poster storage.
//
// Environment:
//   - AWS_S3_REGION / AWS_S3_BUCKET_NAME
//   - APP_AWS_ACCESS_KEY / APP_AWS_SECRET_ACCESS_KEY
package client

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/movietrack/backend/internal/config"
)

type StorageClient struct {
	client *s3.Client
	bucket string
	region string
}

func NewStorageClient(ctx context.Context, cfg config.StorageConfig) (*StorageClient, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("storage config incomplete: AWS_S3_BUCKET_NAME and AWS_S3_REGION are required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &StorageClient{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// UploadPoster stores the file under a random key, keeping the original
// extension, and returns the public object URL.
func (c *StorageClient) UploadPoster(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := uuid.New().String() + path.Ext(filename)

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload poster: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key), nil
}
