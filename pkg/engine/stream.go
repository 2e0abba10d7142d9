package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/digraph/pkg/report"
)

// StreamSummary computes the four statistics of the container at path, one
// full pass per statistic.
func (e *Engine) StreamSummary(ctx context.Context, path string) (s report.Summary, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.StreamSummary", trace.WithAttributes(
		attribute.String("container.path", path),
	))
	defer func() { endSpan(span, err) }()
	defer e.recoverPanic(ctx, &err)

	store, key, err := e.resolve(ctx, path)
	if err != nil {
		return report.Summary{}, err
	}
	agg := e.aggregator(store)

	out := report.Summary{Source: path}
	if out.VertexCount, err = agg.VertexCount(ctx, key); err != nil {
		return report.Summary{}, err
	}
	if out.EdgeCount, err = agg.EdgeCount(ctx, key); err != nil {
		return report.Summary{}, err
	}
	if out.InDegrees, err = agg.InDegrees(ctx, key); err != nil {
		return report.Summary{}, err
	}
	if out.OutDegrees, err = agg.OutDegrees(ctx, key); err != nil {
		return report.Summary{}, err
	}
	return out, nil
}

// StreamSummaryOnePass is StreamSummary folded in a single pass.
func (e *Engine) StreamSummaryOnePass(ctx context.Context, path string) (s report.Summary, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.StreamSummaryOnePass", trace.WithAttributes(
		attribute.String("container.path", path),
	))
	defer func() { endSpan(span, err) }()
	defer e.recoverPanic(ctx, &err)

	store, key, err := e.resolve(ctx, path)
	if err != nil {
		return report.Summary{}, err
	}
	totals, err := e.aggregator(store).Summary(ctx, key)
	if err != nil {
		return report.Summary{}, err
	}
	span.SetAttributes(attribute.Int("stream.chunks", totals.Chunks))

	return report.Summary{
		Source:      path,
		VertexCount: totals.VertexCount,
		EdgeCount:   totals.EdgeCount,
		InDegrees:   totals.InDegrees,
		OutDegrees:  totals.OutDegrees,
	}, nil
}
