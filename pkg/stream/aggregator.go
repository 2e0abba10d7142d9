// Package stream computes graph statistics over a container one record at
// a time, so only a single chunk is held in memory during a pass.
package stream

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/digraph/pkg/container"
	"github.com/DrSkyle/digraph/pkg/graph"
	"github.com/DrSkyle/digraph/pkg/storage"
)

// Statistic names one streaming computation.
type Statistic string

const (
	StatVertexCount Statistic = "vertex_count"
	StatEdgeCount   Statistic = "edge_count"
	StatInDegrees   Statistic = "in_degrees"
	StatOutDegrees  Statistic = "out_degrees"
	StatSummary     Statistic = "summary"
)

// Totals is the result of a single pass computing every statistic.
type Totals struct {
	VertexCount int
	EdgeCount   int
	InDegrees   map[graph.Vertex]int
	OutDegrees  map[graph.Vertex]int
	Chunks      int
}

// Aggregator folds per-chunk statistics across a container. It keeps no
// per-call state; every call opens its own reader.
type Aggregator struct {
	src      storage.Source
	observer Observer
	tracer   trace.Tracer
	chunks   metric.Int64Counter
}

// Option configures an Aggregator.
type Option func(*aggregatorOptions)

type aggregatorOptions struct {
	observer Observer
	tracer   trace.Tracer
	meter    metric.Meter
}

// WithObserver receives progress events.
func WithObserver(o Observer) Option {
	return func(opts *aggregatorOptions) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithTracer sets the tracer used for per-pass spans.
func WithTracer(t trace.Tracer) Option {
	return func(opts *aggregatorOptions) {
		if t != nil {
			opts.tracer = t
		}
	}
}

// WithMeter sets the meter that owns the digraph.stream.chunks counter.
// The default is the global meter, which drops measurements unless the
// embedding program has installed a meter provider.
func WithMeter(m metric.Meter) Option {
	return func(opts *aggregatorOptions) {
		if m != nil {
			opts.meter = m
		}
	}
}

// New returns an Aggregator reading containers from src.
func New(src storage.Source, opts ...Option) *Aggregator {
	o := aggregatorOptions{
		observer: NopObserver{},
		tracer:   otel.Tracer("digraph/stream"),
		meter:    otel.Meter("digraph/stream"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	counter, err := o.meter.Int64Counter("digraph.stream.chunks",
		metric.WithDescription("Container records folded by streaming statistics."),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		counter, _ = noop.NewMeterProvider().Meter("digraph/stream").Int64Counter("digraph.stream.chunks")
	}

	return &Aggregator{
		src:      src,
		observer: o.observer,
		tracer:   o.tracer,
		chunks:   counter,
	}
}

// VertexCount sums the number of keys of every chunk.
func (a *Aggregator) VertexCount(ctx context.Context, path string) (int, error) {
	return fold(ctx, a, StatVertexCount, path, 0,
		func(n int, chunk graph.Adjacency) int { return n + chunk.VertexCount() },
		func(n int) int { return n },
	)
}

// EdgeCount sums the edge counts of every chunk.
func (a *Aggregator) EdgeCount(ctx context.Context, path string) (int, error) {
	return fold(ctx, a, StatEdgeCount, path, 0,
		func(n int, chunk graph.Adjacency) int { return n + chunk.EdgeCount() },
		func(n int) int { return n },
	)
}

// InDegrees merges per-chunk in-degree maps by adding values per key.
// Keys that only ever count zero are kept.
func (a *Aggregator) InDegrees(ctx context.Context, path string) (map[graph.Vertex]int, error) {
	return fold(ctx, a, StatInDegrees, path, map[graph.Vertex]int{},
		func(acc map[graph.Vertex]int, chunk graph.Adjacency) map[graph.Vertex]int {
			return merge(acc, chunk.InDegrees())
		},
		func(acc map[graph.Vertex]int) int { return len(acc) },
	)
}

// OutDegrees merges per-chunk out-degree maps by adding values per key.
func (a *Aggregator) OutDegrees(ctx context.Context, path string) (map[graph.Vertex]int, error) {
	return fold(ctx, a, StatOutDegrees, path, map[graph.Vertex]int{},
		func(acc map[graph.Vertex]int, chunk graph.Adjacency) map[graph.Vertex]int {
			return merge(acc, chunk.OutDegrees())
		},
		func(acc map[graph.Vertex]int) int { return len(acc) },
	)
}

// Summary computes all four statistics in one pass. Its results agree
// with the individual calls.
func (a *Aggregator) Summary(ctx context.Context, path string) (Totals, error) {
	initial := Totals{
		InDegrees:  map[graph.Vertex]int{},
		OutDegrees: map[graph.Vertex]int{},
	}
	return fold(ctx, a, StatSummary, path, initial,
		func(t Totals, chunk graph.Adjacency) Totals {
			t.VertexCount += chunk.VertexCount()
			t.EdgeCount += chunk.EdgeCount()
			t.InDegrees = merge(t.InDegrees, chunk.InDegrees())
			t.OutDegrees = merge(t.OutDegrees, chunk.OutDegrees())
			t.Chunks++
			return t
		},
		func(t Totals) int { return t.VertexCount },
	)
}

// merge adds every entry of src into dst, keeping zero-valued keys.
func merge(dst, src map[graph.Vertex]int) map[graph.Vertex]int {
	for k, v := range src {
		dst[k] += v
	}
	return dst
}

// fold runs one pass over the container at path. The chunk being folded
// lives only inside the loop body. Any failure discards the accumulator
// and returns the zero value of T.
func fold[T any](
	ctx context.Context,
	a *Aggregator,
	stat Statistic,
	path string,
	acc T,
	step func(T, graph.Adjacency) T,
	progress func(T) int,
) (result T, err error) {
	ctx, span := a.tracer.Start(ctx, "stream."+string(stat),
		trace.WithAttributes(attribute.String("container.path", path)),
	)
	defer span.End()

	index := 0
	var r *container.Reader
	defer func() {
		span.SetAttributes(attribute.Int("stream.chunks", index))
		if r != nil {
			span.SetAttributes(attribute.Int("container.labels_shared", r.SharedLabels()))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			a.observer.StreamFailed(ctx, FailureEvent{Statistic: stat, Path: path, Chunks: index, Err: err})
			var zero T
			result = zero
		}
	}()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	r, err = container.Open(ctx, a.src, path)
	if err != nil {
		return result, err
	}
	defer r.Close()

	statAttr := metric.WithAttributes(attribute.String("statistic", string(stat)))
	for chunk, cerr := range r.Chunks() {
		if cerr != nil {
			return result, cerr
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		acc = step(acc, chunk)
		index++
		a.chunks.Add(ctx, 1, statAttr)
		a.observer.ChunkProcessed(ctx, ChunkEvent{
			Statistic: stat,
			Path:      path,
			Index:     index,
			Running:   progress(acc),
		})
	}

	a.observer.StreamCompleted(ctx, CompletionEvent{
		Statistic: stat,
		Path:      path,
		Chunks:    index,
		Result:    progress(acc),
	})
	return acc, nil
}
