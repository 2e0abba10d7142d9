//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/DrSkyle/digraph/pkg/config"
	"github.com/DrSkyle/digraph/pkg/engine"
	"github.com/DrSkyle/digraph/pkg/storage"
)

// GetAWSConfig returns the shared AWS config pointing to LocalStack.
func GetAWSConfig(t *testing.T) aws.Config {
	t.Helper()
	if awsCfg.Region == "" {
		t.Fatal("AWS Config not initialized (TestMain didn't run?)")
	}
	return awsCfg
}

// LocalStack serves buckets by path, not by virtual host.
func newS3Client() *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

// NewBucketStore returns a store on the shared bucket.
func NewBucketStore(t *testing.T) *storage.S3Store {
	t.Helper()
	GetAWSConfig(t)
	return &storage.S3Store{Client: newS3Client(), Bucket: bucketName}
}

// NewEngine returns an engine pinned to store with logs captured.
func NewEngine(t *testing.T, store storage.Store, outDir string) (*engine.Engine, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Telemetry.Disabled = true
	cfg.Output.Dir = outDir

	var logs bytes.Buffer
	e, err := engine.New(context.Background(),
		engine.WithConfig(cfg),
		engine.WithStore(store),
		engine.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
	)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	t.Cleanup(func() { e.Close(context.Background()) })
	return e, &logs
}
