package stream

import (
	"context"
	"log/slog"
)

// ChunkEvent is emitted after each chunk has been folded.
type ChunkEvent struct {
	Statistic Statistic
	Path      string
	// Index is 1-based.
	Index int
	// Running is the running scalar, or the number of keys seen so far for
	// degree maps.
	Running int
}

// CompletionEvent is emitted once when a pass reaches the end of the
// container.
type CompletionEvent struct {
	Statistic Statistic
	Path      string
	Chunks    int
	Result    int
}

// FailureEvent is emitted when a pass aborts.
type FailureEvent struct {
	Statistic Statistic
	Path      string
	Chunks    int
	Err       error
}

// Observer receives progress of streaming passes. Calls run inline with
// the fold.
type Observer interface {
	ChunkProcessed(ctx context.Context, ev ChunkEvent)
	StreamCompleted(ctx context.Context, ev CompletionEvent)
	StreamFailed(ctx context.Context, ev FailureEvent)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) ChunkProcessed(context.Context, ChunkEvent)       {}
func (NopObserver) StreamCompleted(context.Context, CompletionEvent) {}
func (NopObserver) StreamFailed(context.Context, FailureEvent)       {}

// LogObserver reports progress through a structured logger.
type LogObserver struct {
	Logger *slog.Logger
}

// NewLogObserver returns an observer logging to l, or to the default
// logger when l is nil.
func NewLogObserver(l *slog.Logger) *LogObserver {
	if l == nil {
		l = slog.Default()
	}
	return &LogObserver{Logger: l}
}

func (o *LogObserver) ChunkProcessed(ctx context.Context, ev ChunkEvent) {
	o.Logger.InfoContext(ctx, "still reading data",
		"statistic", ev.Statistic,
		"path", ev.Path,
		"chunk", ev.Index,
		"running", ev.Running,
	)
}

func (o *LogObserver) StreamCompleted(ctx context.Context, ev CompletionEvent) {
	o.Logger.InfoContext(ctx, "read the full graph",
		"statistic", ev.Statistic,
		"path", ev.Path,
		"chunks", ev.Chunks,
		"result", ev.Result,
	)
}

func (o *LogObserver) StreamFailed(ctx context.Context, ev FailureEvent) {
	o.Logger.ErrorContext(ctx, "streaming pass failed",
		"statistic", ev.Statistic,
		"path", ev.Path,
		"chunks", ev.Chunks,
		"error", ev.Err,
	)
}
