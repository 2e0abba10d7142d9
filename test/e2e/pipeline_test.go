//go:build e2e

package e2e

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/digraph/pkg/container"
	"github.com/DrSkyle/digraph/pkg/definition"
)

func TestPipeline_S3(t *testing.T) {
	ctx := context.Background()
	store := NewBucketStore(t)
	e, logs := NewEngine(t, store, "pipeline")

	def := definition.Default()
	g, err := e.BuildFromLists(ctx, def.Vertices, def.Edges)
	require.NoError(t, err)
	whole, err := e.Summarize("lists", g)
	require.NoError(t, err)

	key, err := e.Serialize(ctx, g)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "pipeline/graph_"), key)

	latest, err := e.LatestSnapshot(ctx, "pipeline")
	require.NoError(t, err)
	assert.Equal(t, key, latest)

	loaded, err := e.LoadFile(ctx, latest)
	require.NoError(t, err)
	reloaded, err := e.Summarize("lists", loaded)
	require.NoError(t, err)
	assert.Equal(t, whole, reloaded)

	n, err := e.Split(ctx, key, "pipeline/chunks/graph.msgpack.zst", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	streamed, err := e.StreamSummaryOnePass(ctx, "pipeline/chunks/graph.msgpack.zst")
	require.NoError(t, err)
	assert.Equal(t, whole.VertexCount, streamed.VertexCount)
	assert.Equal(t, whole.EdgeCount, streamed.EdgeCount)
	assert.Equal(t, whole.OutDegrees, streamed.OutDegrees)

	assert.Contains(t, logs.String(), "read the full graph")
}

func TestPipeline_S3MissingContainer(t *testing.T) {
	e, _ := NewEngine(t, NewBucketStore(t), "missing")

	_, err := e.StreamSummary(context.Background(), "missing/mysterious_file.msgpack")
	assert.ErrorIs(t, err, container.ErrContainerNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
