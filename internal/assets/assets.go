// Package assets turns asset names (logo, demo video) into URLs the page can
// link to. Assets are either served from the embedded static directory or
// presigned from an S3-compatible bucket.
package assets

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/config"
	"github.com/thinkai/waitlist/internal/logging"
)

// Resolver maps an asset name to a URL.
type Resolver interface {
	URL(ctx context.Context, name string) (string, error)
}

// Static serves assets from a path prefix on this server.
type Static struct {
	Prefix string
}

func (s Static) URL(_ context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name, nil
	}
	return path.Join(s.Prefix, name), nil
}

type cachedURL struct {
	url     string
	renewAt time.Time
}

// Bucket presigns GET URLs for objects in one bucket. URLs are reused until
// half their lifetime has passed.
type Bucket struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cachedURL
}

// NewBucket creates a presigning resolver from the asset bucket settings.
func NewBucket(ctx context.Context, cfg config.S3, log *zap.Logger) (*Bucket, error) {
	log = logging.Component(log, "assets")
	log.Info("initializing S3 asset client", zap.String("bucket", cfg.Bucket), zap.String("region", cfg.Region))

	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Bucket{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		cache:   make(map[string]cachedURL),
	}, nil
}

func (b *Bucket) URL(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	key := strings.TrimPrefix(name, "/")

	b.mu.Lock()
	c, ok := b.cache[key]
	b.mu.Unlock()
	if ok && b.now().Before(c.renewAt) {
		return c.url, nil
	}

	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = b.ttl
	})
	if err != nil {
		b.log.Warn("failed to presign asset", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	b.mu.Lock()
	b.cache[key] = cachedURL{url: req.URL, renewAt: b.now().Add(b.ttl / 2)}
	b.mu.Unlock()
	return req.URL, nil
}

// New picks the bucket resolver when a bucket is configured and the static
// one otherwise.
func New(ctx context.Context, cfg config.S3, staticPrefix string, log *zap.Logger) (Resolver, error) {
	if !cfg.Enabled() {
		return Static{Prefix: staticPrefix}, nil
	}
	return NewBucket(ctx, cfg, log)
}
