package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"eventconsole/internal/domain"
)

// S3Config holds configuration for the S3 asset store.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// StoreConfig holds configuration for creating an object store.
type StoreConfig struct {
	Provider string
	S3       S3Config
}

// NewStore creates an object store from config. Provider "s3" uploads to
// AWS S3; "noop" or unknown returns a store that fabricates URLs without
// uploading, for development.
func NewStore(config StoreConfig, logger *slog.Logger) (domain.ObjectStore, error) {
	switch config.Provider {
	case "s3":
		if config.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 object store requires a bucket")
		}
		awsCfg := aws.Config{
			Region: config.S3.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					config.S3.AccessKeyID,
					config.S3.SecretAccessKey,
					"",
				),
			),
		}
		baseURL := config.S3.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.S3.Bucket, config.S3.Region)
		}
		return &s3Store{
			client:  s3.NewFromConfig(awsCfg),
			bucket:  config.S3.Bucket,
			baseURL: strings.TrimSuffix(baseURL, "/"),
			logger:  logger,
		}, nil
	case "noop":
		return &noopStore{logger: logger}, nil
	default:
		logger.Warn("unknown asset provider, using noop", "provider", config.Provider)
		return &noopStore{logger: logger}, nil
	}
}

type s3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func (s *s3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	url := s.baseURL + "/" + key
	s.logger.Info("asset uploaded", "bucket", s.bucket, "key", key)
	return url, nil
}

type noopStore struct {
	logger *slog.Logger
}

func (n *noopStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	// Drain the body so multipart uploads complete normally.
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	n.logger.Info("asset upload skipped (noop)", "key", key, "size", size)
	return "https://assets.invalid/" + key, nil
}
