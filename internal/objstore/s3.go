// Package objstore persists solver input bundles to an S3-compatible
// object store.
package objstore

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Store writes JSON documents by key.
type Store interface {
	PutJSON(ctx context.Context, key string, v interface{}) error
}

// S3Store implements Store on an S3 bucket. A custom endpoint switches
// the client to path-style addressing for MinIO-style deployments.
type S3Store struct {
	client *s3.Client
	bucket string
	log    zerolog.Logger
}

// NewS3Store builds the S3 client. Static credentials are used when
// configured; otherwise the default AWS chain applies.
func NewS3Store(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, log zerolog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client: client,
		bucket: bucket,
		log:    log.With().Str("component", "objstore").Logger(),
	}, nil
}

// PutJSON marshals v and uploads it under key.
func (s *S3Store) PutJSON(ctx context.Context, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal object %s", key)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrapf(err, "put object %s", key)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(body)).Msg("bundle uploaded")
	return nil
}
