// Package media uploads user images to blob storage and hands back public
// addresses.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/shri1525/Cloudapplication-instagram-clone/internal/config"
)

// ErrUnsupportedType is returned for content types outside the allow-list.
var ErrUnsupportedType = errors.New("unsupported image type")

// PurposePosts is the default upload purpose.
const PurposePosts = "posts"

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Uploader accepts an image stream and returns its public address.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType, ownerID, purpose string) (string, error)
}

// S3Uploader writes images to an S3 bucket with public-read ACL.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	region    string
	publicURL string
	now       func() time.Time
}

// NewS3Uploader creates an uploader from storage configuration. Static
// credentials and a custom endpoint are supported for S3-compatible
// providers.
func NewS3Uploader(ctx context.Context, cfg *config.StorageConfig) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

// Upload validates the declared content type, writes the object under
// {purpose}/{ownerID}/{timestamp}{ext} and returns its public URL. Two
// uploads by the same user within the same second share a key and the later
// one wins; accepted.
func (u *S3Uploader) Upload(ctx context.Context, r io.Reader, filename, contentType, ownerID, purpose string) (string, error) {
	if !allowedTypes[contentType] {
		return "", ErrUnsupportedType
	}
	if purpose == "" {
		purpose = PurposePosts
	}

	key := ObjectKey(ownerID, purpose, filename, u.now())

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	if u.publicURL != "" {
		return u.publicURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}

// ObjectKey derives the deterministic storage key for an upload.
func ObjectKey(ownerID, purpose, filename string, now time.Time) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%s/%s%s", purpose, ownerID, now.Format("20060102150405"), ext)
}
