package gcp

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
)

// Bucket stages audio objects for transcription. Objects are short-lived:
// uploaded before a recognize call and deleted once the transcript is back.
type Bucket interface {
	Upload(ctx context.Context, key string, r io.Reader) (gcsURI string, err error)
	Delete(ctx context.Context, key string) error
	Close() error
}

type bucketService struct {
	log        *logger.Logger
	client     *storage.Client
	bucketName string
}

func NewBucket(log *logger.Logger, bucketName string) (Bucket, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name required")
	}
	slog := log.With("service", "gcp.Bucket")

	ctx := context.Background()
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	return &bucketService{
		log:        slog,
		client:     c,
		bucketName: bucketName,
	}, nil
}

func (bs *bucketService) Close() error {
	if bs == nil || bs.client == nil {
		return nil
	}
	return bs.client.Close()
}

func (bs *bucketService) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	w.ContentType = "audio/wav"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", bs.bucketName, key), nil
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := bs.client.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q: %w", key, err)
	}
	return nil
}
