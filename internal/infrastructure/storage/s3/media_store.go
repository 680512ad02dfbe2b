// Package s3 implements the media store against an S3-compatible object
// store (AWS S3 or MinIO). Uploaded objects are publicly readable; the
// bucket policy is expected to allow anonymous GET.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/inkpress/blog-platform/internal/core/ports"
)

// Config captures the settings for the object store client.
type Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string // non-empty for MinIO / custom endpoints
	PublicBaseURL string // base of the public URL objects are served from
}

// MediaStore uploads and deletes media objects. The underlying client is
// safe for concurrent use and built once at startup.
type MediaStore struct {
	client *s3.Client
	cfg    Config
}

// New builds the S3 client from static credentials and an optional custom
// endpoint, then returns the MediaStore.
func New(ctx context.Context, cfg Config) (*MediaStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &MediaStore{client: client, cfg: cfg}, nil
}

// Upload stores the buffer under a fresh key in the requested folder and
// returns the key together with the public URL.
func (m *MediaStore) Upload(ctx context.Context, in ports.UploadInput) (*ports.StoredObject, error) {
	key := objectKey(in.Folder, in.Filename)

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(in.Data),
		ContentType: aws.String(in.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &ports.StoredObject{Key: key, URL: m.publicURL(key)}, nil
}

// Delete removes a previously uploaded object by its key.
func (m *MediaStore) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (m *MediaStore) publicURL(key string) string {
	return strings.TrimSuffix(m.cfg.PublicBaseURL, "/") + "/" + m.cfg.Bucket + "/" + key
}

// objectKey builds <folder>/<uuid><ext>, keeping only the original file
// extension so the served object gets a sensible content hint.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return folder + "/" + uuid.New().String() + ext
}
