package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source is where the rides extract is read from
type Source interface {
	// Name identifies the source in logs and errors
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a local CSV file
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

// Open implements Source.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// ObjectGetter is the subset of the S3 client used by S3Source
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the extract from an S3 (or S3-compatible) object
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// S3Options configures the client built by OpenSource
type S3Options struct {
	Region   string
	Endpoint string // Custom endpoint for S3-compatible stores; enables path-style addressing
}

// NewS3Source creates a source for bucket/key using the given client
func NewS3Source(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

// Open implements Source.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// OpenSource resolves a location to a Source. Locations of the form
// s3://bucket/key use the default AWS credential chain; anything else is a
// local path.
func OpenSource(ctx context.Context, location string, opts S3Options) (Source, error) {
	if !strings.HasPrefix(location, "s3://") {
		return FileSource{Path: location}, nil
	}

	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrSourceUnavailable, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Source(client, bucket, key), nil
}

// ParseS3URL splits s3://bucket/key into its parts
func ParseS3URL(location string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(location, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q is not an s3://bucket/key location", ErrSourceUnavailable, location)
	}
	return bucket, key, nil
}
