package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Energy1190/autossl/core/certstore"
)

// Compile-time check that Store implements the capability contract.
var _ certstore.Store = (*Store)(nil)

// expiresAtMetadata carries the unix expiry timestamp on objects written with
// a TTL. S3 has no per-object TTL, so expiry is enforced on read.
const expiresAtMetadata = "autossl-expires-at"

// Client is the subset of S3 operations used by Store. Satisfied by
// *s3aws.Client; narrow so tests can substitute a mock.
type Client interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
}

// ListObjectsV2Paginator is the paginated list contract, extracted so mock
// clients can drive pagination in tests.
type ListObjectsV2Paginator interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
}

// Config contains configuration for the S3 store.
type Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION,required"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`                          // For S3-compatible services like MinIO
	Prefix         string `env:"S3_PREFIX" envDefault:"autossl/"`      // Object key prefix shared by all records
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // Required for MinIO and some S3-compatible services
}

// Option configures a Store during initialization.
type Option func(*storeOptions)

type storeOptions struct {
	client           Client
	paginatorFactory func(client Client, params *s3aws.ListObjectsV2Input) ListObjectsV2Paginator
}

// WithClient sets a custom pre-configured S3 client. Primarily used for
// testing with mocks.
func WithClient(client Client) Option {
	return func(o *storeOptions) {
		o.client = client
	}
}

// WithPaginatorFactory sets a custom paginator factory. Essential for testing
// pagination behavior with mock clients.
func WithPaginatorFactory(factory func(client Client, params *s3aws.ListObjectsV2Input) ListObjectsV2Paginator) Option {
	return func(o *storeOptions) {
		o.paginatorFactory = factory
	}
}

// Store is an S3-backed certstore.Store: one object per key under a common
// prefix, expiry carried in object metadata. Works against AWS S3 and
// S3-compatible services.
type Store struct {
	client           Client
	bucket           string
	prefix           string
	paginatorFactory func(client Client, params *s3aws.ListObjectsV2Input) ListObjectsV2Paginator
}

// New creates an S3 store. Supports both AWS S3 and S3-compatible services
// via the Endpoint and ForcePathStyle settings.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	options := &storeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		awsOptions := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(o *s3aws.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	paginatorFactory := options.paginatorFactory
	if paginatorFactory == nil {
		paginatorFactory = func(c Client, params *s3aws.ListObjectsV2Input) ListObjectsV2Paginator {
			if realClient, ok := c.(*s3aws.Client); ok {
				return s3aws.NewListObjectsV2Paginator(realClient, params)
			}
			// Mock clients must provide their own paginator via WithPaginatorFactory
			return nil
		}
	}

	return &Store{
		client:           client,
		bucket:           cfg.Bucket,
		prefix:           cfg.Prefix,
		paginatorFactory: paginatorFactory,
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, certstore.ErrKeyNotFound
		}
		return nil, classifyError(err, "get")
	}
	defer func() { _ = out.Body.Close() }()

	if expiredMetadata(out.Metadata) {
		// Best-effort reap; the object reads as absent either way.
		_, _ = s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.objectKey(key)),
		})
		return nil, certstore.ErrKeyNotFound
	}

	value, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	input := &s3aws.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/octet-stream"),
	}
	if ttl > 0 {
		input.Metadata = map[string]string{
			expiresAtMetadata: strconv.FormatInt(time.Now().Add(ttl).Unix(), 10),
		}
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return classifyError(err, "put")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return classifyError(err, "delete")
	}
	return nil
}

// KeysWithSuffix lists every object under the prefix and filters by suffix.
// Expiry metadata is not consulted here — that would cost one round trip per
// key — so a scan may briefly include keys whose reads report absent.
func (s *Store) KeysWithSuffix(ctx context.Context, suffix string) ([]string, error) {
	paginator := s.paginatorFactory(s.client, &s3aws.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	if paginator == nil {
		return nil, ErrPaginatorNil
	}

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(err, "list")
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if strings.HasSuffix(key, suffix) {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

func (s *Store) objectKey(key string) string {
	return s.prefix + key
}

func expiredMetadata(metadata map[string]string) bool {
	raw, ok := metadata[expiresAtMetadata]
	if !ok {
		return false
	}
	expiresAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return time.Now().Unix() >= expiresAt
}
