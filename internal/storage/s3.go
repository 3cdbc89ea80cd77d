// Package storage talks to the S3-compatible bucket holding uploaded site
// assets.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/spec-kit/cms-service/internal/config"
)

// Upload path prefixes per asset kind.
const (
	PathProjectImages   = "projects/images"
	PathTeamImages      = "teams/images"
	PathProfilePictures = "users/profile-pictures"
)

// Visibility prefixes.
const (
	prefixPublic  = "public"
	prefixPrivate = "private"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// IsAllowedImageType reports whether contentType is an accepted image type.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ok
}

// ObjectKey builds a collision-resistant key for an upload under the given
// path prefix.
func ObjectKey(path, filename string, public bool) string {
	folder := prefixPrivate
	if public {
		folder = prefixPublic
	}
	return fmt.Sprintf("%s/%s/%d-%s-%s", folder, path, time.Now().UnixMilli(), uuid.NewString(), filename)
}

// Client wraps the S3 API used by the service: upload on write, signed GET
// URLs, delete by key.
type Client struct {
	s3        *s3.Client
	presign   *s3.PresignClient
	bucket    string
	publicURL string
	signedTTL time.Duration
}

// NewClient builds a client for the configured bucket and endpoint.
func NewClient(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	publicURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicURL == "" && cfg.Endpoint != "" {
		publicURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
	}

	return &Client{
		s3:        client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		signedTTL: cfg.SignedURLTTL(),
	}, nil
}

// Upload writes an object under key with the given content type. Keys under
// the public prefix are world readable.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if strings.HasPrefix(key, prefixPublic+"/") {
		input.ACL = types.ObjectCannedACLPublicRead
	}
	_, err := c.s3.PutObject(ctx, input)
	return err
}

// Delete removes the object stored under key. Empty keys are a no-op so
// callers can release optional assets unconditionally.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}

// SignedURL issues a time-limited GET URL for a private object.
func (c *Client) SignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key is required")
	}
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(c.signedTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PublicURL returns the stable URL of a public object.
func (c *Client) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return c.publicURL + "/" + key
}
