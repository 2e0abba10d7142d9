//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

var (
	awsCfg      aws.Config
	endpointURL string
)

const (
	localstackImage = "localstack/localstack:3.0.2"
	bucketName      = "digraph-e2e"
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	ctr, err := localstack.Run(ctx, localstackImage,
		testcontainers.WithEnv(map[string]string{"SERVICES": "s3"}),
	)
	if err != nil {
		fmt.Printf("Failed to start LocalStack: %v\n", err)
		os.Exit(1)
	}

	code, err := setup(ctx, m, ctr)
	if err != nil {
		fmt.Printf("LocalStack setup failed: %v\n", err)
		code = 1
	}

	if err := testcontainers.TerminateContainer(ctr); err != nil {
		fmt.Printf("Failed to stop LocalStack: %v\n", err)
	}
	os.Exit(code)
}

func setup(ctx context.Context, m *testing.M, ctr *localstack.LocalStackContainer) (int, error) {
	endpoint, err := ctr.PortEndpoint(ctx, "4566/tcp", "http")
	if err != nil {
		return 0, err
	}
	endpointURL = endpoint
	fmt.Printf("LocalStack mapped to %s\n", endpointURL)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		config.WithBaseEndpoint(endpointURL),
	)
	if err != nil {
		return 0, fmt.Errorf("loading aws config: %w", err)
	}
	awsCfg = cfg

	_, err = newS3Client().CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucketName)})
	if err != nil {
		return 0, fmt.Errorf("creating bucket: %w", err)
	}

	return m.Run(), nil
}
