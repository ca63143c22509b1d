// Package media stores profile avatars on S3 or any S3-compatible service.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/profiles/pkg/idx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig   = errors.New("media: bucket and region are required")
	ErrUnsupportedType = errors.New("media: unsupported image type")
	ErrTooLarge        = errors.New("media: image too large")
	ErrAccessDenied    = errors.New("media: access denied")
	ErrBucketNotFound  = errors.New("media: bucket not found")
	ErrUnavailable     = errors.New("media: storage unavailable")
	ErrTimeout         = errors.New("media: upload timed out")
)

// DefaultMaxBytes caps avatar uploads at 5 MiB.
const DefaultMaxBytes = 5 << 20

// imageTypes maps the sniffed content type to the stored extension.
var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Config is read from MEDIA_* environment variables. Uploads are disabled
// when Bucket is empty.
type Config struct {
	Bucket         string        `env:"MEDIA_S3_BUCKET"`
	Region         string        `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string        `env:"MEDIA_S3_ACCESS_KEY_ID"`
	SecretKey      string        `env:"MEDIA_S3_SECRET_KEY"`
	Endpoint       string        `env:"MEDIA_S3_ENDPOINT"`
	BaseURL        string        `env:"MEDIA_S3_BASE_URL"`
	ForcePathStyle bool          `env:"MEDIA_S3_FORCE_PATH_STYLE"`
	MaxBytes       int64         `env:"MEDIA_MAX_BYTES" envDefault:"5242880"`
	UploadTimeout  time.Duration `env:"MEDIA_UPLOAD_TIMEOUT" envDefault:"30s"`
}

func (c Config) Enabled() bool { return c.Bucket != "" }

// S3Client is the subset of the S3 API the uploader needs.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Avatar is an uploaded image as received from the client. The declared
// content type is ignored; the stored type is sniffed from the bytes.
type Avatar struct {
	Filename string
	Body     io.Reader
}

type Option func(*options)

type options struct {
	client     S3Client
	httpClient *http.Client
}

// WithS3Client sets a pre-configured client. Mostly for tests.
func WithS3Client(client S3Client) Option {
	return func(o *options) { o.client = client }
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// Uploader puts avatars in a bucket and returns their public URL.
type Uploader struct {
	client   S3Client
	bucket   string
	baseURL  string
	maxBytes int64
	timeout  time.Duration
}

func NewUploader(ctx context.Context, cfg Config, opts ...Option) (*Uploader, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("media: load aws config: %w", err)
		}

		client = s3.NewFromConfig(awsConfig, func(so *s3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Uploader{
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  publicBaseURL(cfg),
		maxBytes: maxBytes,
		timeout:  cfg.UploadTimeout,
	}, nil
}

func publicBaseURL(cfg Config) string {
	base := cfg.BaseURL
	switch {
	case base != "":
	case cfg.Endpoint != "":
		base = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// PutAvatar stores a for userID under a fresh key and returns its URL.
func (u *Uploader) PutAvatar(ctx context.Context, userID string, a Avatar) (string, error) {
	if a.Body == nil {
		return "", ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(a.Body, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("media: read avatar: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	key := "avatars/" + userID + "/" + idx.New().String() + ext
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", classifyS3Error(err)
	}

	return u.baseURL + key, nil
}

func classifyS3Error(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorCode())
		case "NoSuchBucket":
			return ErrBucketNotFound
		case "SlowDown", "ServiceUnavailable", "InternalError":
			return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.ErrorCode())
		case "RequestTimeout":
			return fmt.Errorf("%w: %s", ErrTimeout, apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("media: put object: %w", err)
}
