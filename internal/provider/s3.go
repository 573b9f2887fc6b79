package provider

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pyqhub/mcp-server/internal/config"
)

// objectGetter is the part of the S3 client the provider uses.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Provider reads files stored as objects under a bucket prefix.
type s3Provider struct {
	client  objectGetter
	bucket  string
	prefix  string
	maxSize int64
}

// NewS3 creates an S3-backed Provider.
func NewS3(ctx context.Context, cfg config.S3) (Provider, error) {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		// Use explicit credentials
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		// Use default credentials (from environment, IAM role, etc.)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3Provider(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func newS3Provider(client objectGetter, bucket, prefix string) *s3Provider {
	return &s3Provider{client: client, bucket: bucket, prefix: prefix, maxSize: maxFileSize}
}

func (p *s3Provider) key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// ReadFile downloads the object for name.
func (p *s3Provider) ReadFile(ctx context.Context, name string) ([]byte, error) {
	result, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(name)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to download %s from S3: %w", name, err)
	}
	defer result.Body.Close()

	data, err := readLimited(result.Body, name, p.maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from S3: %w", name, err)
	}
	return data, nil
}
