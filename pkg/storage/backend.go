// Package storage resolves container locations to local or S3 backends and
// streams their contents.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
)

// Source opens a stored object for sequential reading. A missing key must
// produce an error matching fs.ErrNotExist.
type Source interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Sink creates an object for writing. Parent directories or prefixes are
// created as needed. Nothing is visible at key until the Writer is closed.
type Sink interface {
	Create(ctx context.Context, key string) (Writer, error)
}

// Writer is an object being written. Close commits it in full; Abort
// discards it and leaves any previous object at the key untouched. Once
// either has been called, both are no-ops.
type Writer interface {
	io.WriteCloser
	Abort() error
}

// Store is a backend that can be read, written and listed.
type Store interface {
	Source
	Sink
	List(ctx context.Context, prefix string) ([]string, error)
	// Location renders key the way a user would pass it back on the
	// command line.
	Location(key string) string
}

// Resolve maps a user supplied location to a backend and a key within it.
// "s3://bucket/key" selects S3; everything else is a local path.
func Resolve(ctx context.Context, location string) (Store, string, error) {
	if !strings.HasPrefix(location, "s3://") {
		return NewLocalStore(""), location, nil
	}

	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewS3Store(cfg, bucket), key, nil
}

// ParseS3URL splits "s3://bucket/some/key" into bucket and key.
func ParseS3URL(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", location, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: expected s3://bucket/key", location)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
