package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"geekseek/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter ist der Teil des S3-Clients, den der Uploader braucht.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client erstellt einen S3-Client für einen S3-kompatiblen Endpunkt.
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.S3URL,
				SigningRegion:     cfg.S3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// S3Uploader lädt Exporte in einen festen Bucket.
type S3Uploader struct {
	Client  ObjectPutter
	Bucket  string
	BaseURL string
}

// NewS3Uploader verbindet Client und Bucket aus der Konfiguration.
func NewS3Uploader(cfg *config.Config) (*S3Uploader, error) {
	client, err := NewS3Client(cfg)
	if err != nil {
		return nil, err
	}
	return &S3Uploader{Client: client, Bucket: cfg.S3Bucket, BaseURL: cfg.S3URL}, nil
}

// Upload lädt data unter key hoch und gibt den Link zurück.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", u.Bucket, key, err)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.BaseURL, "/"), u.Bucket, key), nil
}
