package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	appconfig "github.com/c-victorino/dishcord-web-app/internal/config"
	"github.com/c-victorino/dishcord-web-app/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageUploader stores feature images in an S3-compatible bucket
// (MinIO in development) and hands back a public URL for the object.
type ImageUploader struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewImageUploader(ctx context.Context, cfg appconfig.S3Config) (*ImageUploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageUploader{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// objectKey spreads uploads across date prefixes so buckets stay
// listable.
func objectKey() string {
	d := time.Now()
	return fmt.Sprintf("posts/%d/%02d/%02d/%v", d.Year(), int(d.Month()), d.Day(), uuid.New())
}

// Upload stores the image bytes and returns the URL to serve them from.
// A transport or remote failure surfaces as service.ErrUpload; callers
// abort post creation rather than fall back to no image.
func (u *ImageUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	key := objectKey()
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrUpload, err)
	}
	return fmt.Sprintf("%s/%s/%s", u.publicBase, u.bucket, key), nil
}
