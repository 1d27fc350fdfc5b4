// Package assets turns stored branding image references into URLs a browser
// can load. Data URLs and http(s) URLs pass through; s3://key references are
// presigned against the configured bucket. It also hands out presigned PUT
// URLs so operators can upload logos and signatures.
package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const s3Scheme = "s3://"

var (
	ErrNotConfigured   = errors.New("object storage is not configured")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// imageTypes maps the accepted upload content types to key extensions.
var imageTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	newObjectID = uuid.NewString
)

// Config locates the S3-compatible bucket holding branding images.
type Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
	URLExpiry    time.Duration
}

// Resolver presigns s3:// references. The S3 client is built on first use.
type Resolver struct {
	cfg Config

	mu     sync.Mutex
	client *s3.PresignClient
}

func NewResolver(cfg Config) *Resolver {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}
	return &Resolver{cfg: cfg}
}

// IsStored reports whether ref points into object storage.
func IsStored(ref string) bool {
	return strings.HasPrefix(ref, s3Scheme)
}

// Resolve returns a loadable URL for ref.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsStored(ref) {
		return ref, nil
	}
	if r.cfg.Bucket == "" {
		return "", ErrNotConfigured
	}

	pc, err := r.presignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := r.cfg.Bucket
	key := strings.TrimPrefix(ref, s3Scheme)
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(r.cfg.URLExpiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", ref, err)
	}
	return req.URL, nil
}

// Upload is a presigned PUT target and the reference to store once the
// object is written.
type Upload struct {
	Reference string
	URL       string
}

// PresignUpload reserves a fresh key under the owner's prefix and presigns a
// PUT for it. Only image content types are accepted.
func (r *Resolver) PresignUpload(ctx context.Context, ownerID, contentType string) (*Upload, error) {
	ext, ok := imageTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if r.cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	pc, err := r.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := r.cfg.Bucket
	key := fmt.Sprintf("branding/%s/%s%s", ownerID, newObjectID(), ext)
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(r.cfg.URLExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &Upload{Reference: s3Scheme + key, URL: req.URL}, nil
}

func (r *Resolver) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(r.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r.cfg.AccessKey,
			r.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if r.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(r.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	r.client = newS3PresignClient(client)
	return r.client, nil
}
