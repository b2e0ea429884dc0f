package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-recruit/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores objects in an S3-compatible bucket (AWS, R2, MinIO).
type S3 struct {
	client  objectPutter
	bucket  string
	baseURL string
}

func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3, error) {
	if strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, errors.New("s3 bucket not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ep := strings.TrimSpace(cfg.S3Endpoint); ep != "" {
			o.BaseEndpoint = aws.String(ep)
			o.UsePathStyle = true
		}
	})

	return newS3WithClient(client, cfg.S3Bucket, cfg.PublicBaseURL), nil
}

func newS3WithClient(client objectPutter, bucket, baseURL string) *S3 {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "/uploads"
	}
	return &S3{client: client, bucket: bucket, baseURL: baseURL}
}

func (s *S3) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return publicURL(s.baseURL, key), nil
}
