package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures an S3 store.
type S3Options struct {
	Bucket        string
	Region        string
	Prefix        string
	PublicBaseURL string
}

// S3Store stores objects in an S3 bucket under an optional key prefix.
type S3Store struct {
	client s3API
	opts   S3Options
	logger zerolog.Logger
}

// NewS3Store creates an S3 store using the default AWS credential chain.
func NewS3Store(ctx context.Context, opts S3Options, logger zerolog.Logger) (*S3Store, error) {
	logger = logger.With().Str("component", "s3-store").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(opts.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", opts.Bucket).
		Str("region", opts.Region).
		Str("prefix", opts.Prefix).
		Msg("S3 store initialised")

	return newS3Store(s3.NewFromConfig(cfg), opts, logger), nil
}

func newS3Store(client s3API, opts S3Options, logger zerolog.Logger) *S3Store {
	return &S3Store{client: client, opts: opts, logger: logger}
}

// Upload puts body at the prefixed key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	fullKey := s.opts.Prefix + key

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(fullKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.opts.Bucket).
			Str("key", fullKey).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.opts.Bucket, fullKey, err)
	}

	s.logger.Info().
		Str("bucket", s.opts.Bucket).
		Str("key", fullKey).
		Int("bytes", len(body)).
		Msg("object uploaded to S3")

	return s.PublicURL(key), nil
}

// PublicURL returns the configured public base URL joined with the prefixed
// key, or the bucket's virtual-hosted URL when no base is configured.
func (s *S3Store) PublicURL(key string) string {
	fullKey := s.opts.Prefix + key
	if s.opts.PublicBaseURL != "" {
		return joinURL(s.opts.PublicBaseURL, fullKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, fullKey)
}

// Fetch reads the object at the prefixed key.
func (s *S3Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	fullKey := s.opts.Prefix + key

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.opts.Bucket).
			Str("key", fullKey).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.opts.Bucket, fullKey, err)
	}
	defer result.Body.Close()

	return readObject(fullKey, result.Body)
}
