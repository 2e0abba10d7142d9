package storage

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"slices"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 keeps objects in a map and pages listings two keys at a time.
type fakeS3 struct {
	objects map[string][]byte
	getErr  error
	puts    int
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts++
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
				break
			}
		}
	}
	end := min(start+2, len(keys))

	out := &s3.ListObjectsV2Output{}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := &S3Store{Client: &fakeS3{objects: map[string][]byte{}}, Bucket: "graphs"}

	w, err := s.Create(ctx, "snapshots/graph.msgpack")
	require.NoError(t, err)
	_, err = w.Write([]byte("chunk-1"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second close is a no-op")

	r, err := s.Open(ctx, "snapshots/graph.msgpack")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "chunk-1", string(data))
	assert.Equal(t, "s3://graphs/snapshots/graph.msgpack", s.Location("snapshots/graph.msgpack"))
}

func TestS3Store_AbortSkipsUpload(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{"snapshots/graph.msgpack": []byte("old")}}
	s := &S3Store{Client: fake, Bucket: "graphs"}

	w, err := s.Create(ctx, "snapshots/graph.msgpack")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	require.NoError(t, w.Close(), "close after abort is a no-op")

	assert.Zero(t, fake.puts)
	assert.Equal(t, "old", string(fake.objects["snapshots/graph.msgpack"]))
	_, err = w.Write([]byte("more"))
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestS3Store_OpenMissingMapsToNotExist(t *testing.T) {
	s := &S3Store{Client: &fakeS3{objects: map[string][]byte{}}, Bucket: "graphs"}

	_, err := s.Open(context.Background(), "nope.msgpack")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestS3Store_OpenOtherErrorsAreNotNotExist(t *testing.T) {
	s := &S3Store{
		Client: &fakeS3{getErr: &smithy.GenericAPIError{Code: "AccessDenied"}},
		Bucket: "graphs",
	}

	_, err := s.Open(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestS3Store_ListPaginates(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{
		"out/graph_3": nil, "out/graph_1": nil, "out/graph_2": nil,
		"out/graph_5": nil, "out/graph_4": nil, "elsewhere": nil,
	}}
	s := &S3Store{Client: fake, Bucket: "graphs"}

	keys, err := s.List(context.Background(), "out/")
	require.NoError(t, err)
	assert.Equal(t, []string{"out/graph_1", "out/graph_2", "out/graph_3", "out/graph_4", "out/graph_5"}, keys)
}
