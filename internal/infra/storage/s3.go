package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/GreenvaleServices/lawn-portal/internal/config"
)

// PhotoStore uploads processed photo bytes to an S3-compatible bucket
// (AWS S3 or MinIO) and hands back the public HTTPS URL. Only the URL is
// ever persisted.
type PhotoStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewPhotoStore(cfg *config.Config) *PhotoStore {
	opts := s3.Options{
		Region: cfg.S3Region,
	}

	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)
	}

	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		if cfg.S3Endpoint != "" {
			publicURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.S3Endpoint, "/"), cfg.S3Bucket)
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
		}
	}

	return &PhotoStore{
		client:    s3.New(opts),
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *PhotoStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := "webp"
	if contentType == "image/jpeg" {
		ext = "jpg"
	}

	key := fmt.Sprintf("photos/%s.%s", uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
