package storage

import (
	"alcyxob/trainer-planner/internal/config"
	"alcyxob/trainer-planner/internal/logger"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Storage serves exercise media from an S3-compatible bucket.
type s3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	log     *logger.Logger
}

// NewS3Storage builds the bucket client. Static credentials are used only when
// an access key is configured; otherwise the default AWS chain applies.
func NewS3Storage(ctx context.Context, cfg config.S3Config, log *logger.Logger) (FileStorage, error) {
	opts := []func(*awsCfg.LoadOptions) error{awsCfg.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	sdkCfg, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Error("Failed to load AWS SDK config", "error", err)
		return nil, err
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		// MinIO and Spaces need the endpoint override plus path-style addressing.
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	scoped := log.With("bucket", cfg.BucketName)
	scoped.Info("S3 media storage ready", "endpoint", cfg.Endpoint, "region", cfg.Region)

	return &s3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.BucketName,
		log:     scoped,
	}, nil
}

func expiry(d time.Duration) func(*s3.PresignOptions) {
	if d <= 0 {
		d = DefaultPresignedURLExpiry
	}
	return s3.WithPresignExpires(d)
}

// GeneratePresignedUploadURL signs a PUT. The uploader must send the same Content-Type.
func (s *s3Storage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, expiry(expires))
	if err != nil {
		s.log.Error("Presign PUT failed", "key", objectKey, "error", err)
		return "", err
	}
	return req.URL, nil
}

func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, expiry(expires))
	if err != nil {
		s.log.Error("Presign GET failed", "key", objectKey, "error", err)
		return "", err
	}
	return req.URL, nil
}

func (s *s3Storage) DeleteObject(ctx context.Context, objectKey string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		s.log.Error("Delete object failed", "key", objectKey, "error", err)
		return err
	}
	s.log.Debug("Deleted object", "key", objectKey)
	return nil
}
