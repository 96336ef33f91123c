// Package objectstore wraps the S3 (or S3-compatible) object store: paginated
// key listing, presigned read URLs, bucket creation and whole-object download.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/kozaktomas/face-orchestrator/internal/constants"
	"github.com/kozaktomas/face-orchestrator/internal/metrics"
)

// API is the subset of *s3.Client used by Store.
type API interface {
	s3.ListObjectsV2APIClient
	manager.DownloadAPIClient
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Presigner is the subset of *s3.PresignClient used by Store.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignedURL is a time-limited, credential-free URL for one object.
type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Options configures a Store.
type Options struct {
	Region     string        // used as the location constraint for CreateBucket
	PresignTTL time.Duration // validity window of presigned URLs
	PageSize   int32         // ListObjectsV2 page size hint, 0 lets the service decide
}

// Store is safe for concurrent use; it holds no per-request state.
type Store struct {
	api        API
	presigner  Presigner
	downloader *manager.Downloader
	opts       Options
	now        func() time.Time
}

// New creates a Store over a long-lived S3 client.
func New(client *s3.Client, opts Options) *Store {
	return newStore(client, s3.NewPresignClient(client), opts)
}

func newStore(api API, presigner Presigner, opts Options) *Store {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = constants.DefaultPresignTTL
	}
	return &Store{
		api:        api,
		presigner:  presigner,
		downloader: manager.NewDownloader(api),
		opts:       opts,
		now:        time.Now,
	}
}

// Keys returns a lazy sequence over every object key in bucket, in listing
// order. Each call starts a fresh listing; a sequence cannot be resumed
// mid-stream. Iteration stops at the first error, which is yielded once.
func (s *Store) Keys(ctx context.Context, bucket string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
		if s.opts.PageSize > 0 {
			input.MaxKeys = aws.Int32(s.opts.PageSize)
		}
		paginator := s3.NewListObjectsV2Paginator(s.api, input)

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			metrics.ObserveRemoteCall("s3", "ListObjectsV2", err)
			if err != nil {
				yield("", fmt.Errorf("listing objects in bucket %s: %w", bucket, err))
				return
			}
			for _, obj := range page.Contents {
				if !yield(aws.ToString(obj.Key), nil) {
					return
				}
			}
		}
	}
}

// ListKeys drains Keys into a slice. On error no partial list is returned.
func (s *Store) ListKeys(ctx context.Context, bucket string) ([]string, error) {
	keys := []string{}
	for key, err := range s.Keys(ctx, bucket) {
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// PresignGet returns a GET URL for bucket/key valid for the configured TTL.
// URLs are never cached; each call signs a new one.
func (s *Store) PresignGet(ctx context.Context, bucket, key string) (*PresignedURL, error) {
	issuedAt := s.now()
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.opts.PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("presigning %s/%s: %w", bucket, key, err)
	}
	return &PresignedURL{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: issuedAt.Add(s.opts.PresignTTL),
	}, nil
}

// CreateBucket creates bucket in the configured region.
func (s *Store) CreateBucket(ctx context.Context, bucket string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if s.opts.Region != "" && s.opts.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.opts.Region),
		}
	}

	_, err := s.api.CreateBucket(ctx, input)
	metrics.ObserveRemoteCall("s3", "CreateBucket", err)
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			log.Printf("[objectstore] bucket %s already exists and is owned by this account", bucket)
			return nil
		}
		return fmt.Errorf("creating bucket %s: %w", bucket, err)
	}
	log.Printf("[objectstore] bucket %s created in %s", bucket, s.opts.Region)
	return nil
}

// Download reads the whole object into memory.
func (s *Store) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	metrics.ObserveRemoteCall("s3", "GetObject", err)
	if err != nil {
		return nil, fmt.Errorf("downloading %s/%s: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}
