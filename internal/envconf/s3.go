package envconf

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Loader fetches a configuration file from an S3-compatible bucket, for
// deployments that distribute environment config out of band.
type S3Loader struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Loader creates an S3 loader. If endpoint is non-empty, path-style
// addressing is enabled (for MinIO and similar).
func NewS3Loader(ctx context.Context, bucket, key, region, endpoint string) (*S3Loader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Loader{
		client: client,
		bucket: bucket,
		key:    key,
	}, nil
}

// Load downloads the configured object.
func (l *S3Loader) Load(ctx context.Context) ([][]byte, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read object body: %w", err)
	}
	return [][]byte{data}, nil
}
