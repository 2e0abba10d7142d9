package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/digraph/pkg/container"
	"github.com/DrSkyle/digraph/pkg/graph"
	"github.com/DrSkyle/digraph/pkg/report"
)

// BuildFromLists builds a graph from declared vertices and edges. Edges
// touching an undeclared vertex are dropped.
func (e *Engine) BuildFromLists(ctx context.Context, vertices []graph.Vertex, edges []graph.Edge) (g *graph.Graph, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.BuildFromLists", trace.WithAttributes(
		attribute.Int("graph.vertices.declared", len(vertices)),
		attribute.Int("graph.edges.declared", len(edges)),
	))
	defer func() { endSpan(span, err) }()
	defer e.recoverPanic(ctx, &err)

	g = graph.New()
	g.BuildFromLists(vertices, edges)

	e.Logger.InfoContext(ctx, "created directed graph from list of vertices and edges",
		"stats", g.DumpStats(),
	)
	return g, nil
}

// LoadFile builds a graph from the first record of the container at path.
func (e *Engine) LoadFile(ctx context.Context, path string) (g *graph.Graph, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.LoadFile", trace.WithAttributes(
		attribute.String("container.path", path),
	))
	defer func() { endSpan(span, err) }()
	defer e.recoverPanic(ctx, &err)

	store, key, err := e.resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	adj, err := container.ReadSnapshot(ctx, store, key)
	if err != nil {
		return nil, err
	}

	g = graph.New()
	g.Load(adj)
	e.Logger.InfoContext(ctx, "created directed graph from serialized adjacency list",
		"path", path,
		"stats", g.DumpStats(),
	)
	return g, nil
}

// LatestSnapshot finds the newest snapshot under dir.
func (e *Engine) LatestSnapshot(ctx context.Context, dir string) (string, error) {
	store, prefix, err := e.resolve(ctx, dir)
	if err != nil {
		return "", err
	}
	keys, err := store.List(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}
	key, ok := container.Latest(keys)
	if !ok {
		return "", fmt.Errorf("%w: no snapshot under %s", container.ErrContainerNotFound, dir)
	}
	if e.store != nil {
		return key, nil
	}
	return store.Location(key), nil
}

// Serialize writes g as a timestamped snapshot under the configured output
// directory and returns where it went.
func (e *Engine) Serialize(ctx context.Context, g *graph.Graph) (location string, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Serialize")
	defer func() { endSpan(span, err) }()
	defer e.recoverPanic(ctx, &err)

	// A nil adjacency reports the graph as not built.
	var adj graph.Adjacency
	if g != nil && g.Built() {
		if adj, err = g.Adjacency(); err != nil {
			return "", err
		}
	}

	store, dir, err := e.resolve(ctx, e.config.Output.Dir)
	if err != nil {
		return "", err
	}
	key, err := container.Serialize(ctx, store, dir, adj, container.Options{
		Compress: e.config.Output.Compress,
		Now:      e.now,
	})
	if err != nil {
		return "", err
	}

	location = key
	if e.store == nil {
		location = store.Location(key)
	}
	span.SetAttributes(attribute.String("container.path", location))
	e.Logger.InfoContext(ctx, "serialized directed graph", "path", location)
	return location, nil
}

// Summarize collects the statistics of a built graph.
func (e *Engine) Summarize(source string, g *graph.Graph) (report.Summary, error) {
	if g == nil {
		g = graph.New()
	}
	return report.FromGraph(source, g)
}

// Split re-chunks the snapshot at in into a multi-record container at out
// with at most chunkSize source vertices per record. It returns the number
// of records written.
func (e *Engine) Split(ctx context.Context, in, out string, chunkSize int) (n int, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Split", trace.WithAttributes(
		attribute.String("container.in", in),
		attribute.String("container.out", out),
		attribute.Int("split.chunk_size", chunkSize),
	))
	defer func() { endSpan(span, err) }()
	defer e.recoverPanic(ctx, &err)

	src, inKey, err := e.resolve(ctx, in)
	if err != nil {
		return 0, err
	}
	adj, err := container.ReadSnapshot(ctx, src, inKey)
	if err != nil {
		return 0, err
	}
	chunks, err := container.Split(adj, chunkSize)
	if err != nil {
		return 0, err
	}

	dst, outKey, err := e.resolve(ctx, out)
	if err != nil {
		return 0, err
	}
	n, err = container.WriteChunks(ctx, dst, outKey, chunks)
	if err != nil {
		return 0, err
	}

	e.Logger.InfoContext(ctx, "split graph into chunks", "in", in, "out", out, "chunks", n)
	return n, nil
}
