package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vk/powerspec/internal/ctxlog"
)

// Store is the subset of an object store the publisher needs.
type Store interface {
	EnsureBucket(ctx context.Context, bucket, region string) error
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
}

// Publisher uploads run artifacts under <prefix>/<run id>/.
type Publisher struct {
	store Store
	cfg   Config
}

func NewPublisher(store Store, cfg Config) *Publisher {
	return &Publisher{store: store, cfg: cfg}
}

// Key is the object key of file for runID.
func (p *Publisher) Key(runID, file string) string {
	return path.Join(strings.Trim(p.cfg.Prefix, "/"), runID, filepath.Base(file))
}

// Publish uploads files in order and returns their object keys. It stops at
// the first failure; objects already uploaded are left in place.
func (p *Publisher) Publish(ctx context.Context, runID string, files ...string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	if err := p.store.EnsureBucket(ctx, p.cfg.Bucket, p.cfg.Region); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", p.cfg.Bucket, err)
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := p.Key(runID, file)
		if err := p.upload(ctx, file, key); err != nil {
			return keys, err
		}
		logger.Info("☁️ Published artifact.", "file", file, "bucket", p.cfg.Bucket, "key", key)
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *Publisher) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat artifact %s: %w", file, err)
	}
	if err := p.store.Put(ctx, p.cfg.Bucket, key, f, info.Size(), contentType(file)); err != nil {
		return fmt.Errorf("upload %s to %s/%s: %w", file, p.cfg.Bucket, key, err)
	}
	return nil
}

func contentType(file string) string {
	if strings.HasSuffix(file, ".yaml") {
		return "application/yaml"
	}
	return "application/octet-stream"
}
