package config

import (
	"context"

	"foodgram-backend/logger"
	"foodgram-backend/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client loads AWS credentials from the environment or shared config.
// A custom endpoint (MinIO, LocalStack) switches to path-style addressing.
func NewS3Client(ctx context.Context, cfg *Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewImageStore picks S3 when a bucket is configured, local disk otherwise.
func NewImageStore(ctx context.Context, cfg *Config) (storage.ImageStore, error) {
	if cfg.S3Bucket != "" {
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("using S3 image storage", "bucket", cfg.S3Bucket, "region", cfg.AWSRegion)
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.S3BaseURL), nil
	}

	logger.Info("using local image storage", "root", cfg.MediaRoot)
	return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaBaseURL())
}
