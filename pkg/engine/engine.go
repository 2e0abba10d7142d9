// Package engine ties graph building, containers and streaming statistics
// together behind the operations exposed by the CLI.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/digraph/pkg/config"
	"github.com/DrSkyle/digraph/pkg/logging"
	"github.com/DrSkyle/digraph/pkg/storage"
	"github.com/DrSkyle/digraph/pkg/stream"
	"github.com/DrSkyle/digraph/pkg/telemetry"
	"github.com/DrSkyle/digraph/pkg/version"
)

// Engine is the runtime core.
type Engine struct {
	Logger *slog.Logger
	Tracer trace.Tracer

	config   config.Config
	store    storage.Store
	observer stream.Observer
	now      func() time.Time
	shutdown func(context.Context) error
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		Logger: logging.New("json", "info", os.Stdout),
		Tracer: otel.Tracer("digraph/engine"),
		config: config.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.config.Validate(); err != nil {
		return nil, err
	}
	if e.observer == nil {
		e.observer = stream.NewLogObserver(e.Logger)
	}

	if !e.config.Telemetry.Disabled {
		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, e.config.Telemetry.Endpoint)
		if err != nil {
			e.Logger.Warn("telemetry failed", "error", err)
		} else {
			e.shutdown = shutdown
		}
	}

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.Logger = l
		}
	}
}

// WithConfig sets the configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithStore pins every location to one backend instead of resolving
// s3:// and local paths per call.
func WithStore(s storage.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithObserver receives streaming progress. Defaults to logging through
// the engine logger.
func WithObserver(o stream.Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithClock overrides the time used to name snapshots.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Config returns the active configuration.
func (e *Engine) Config() config.Config {
	return e.config
}

// Close flushes telemetry.
func (e *Engine) Close(ctx context.Context) error {
	if e.shutdown == nil {
		return nil
	}
	return e.shutdown(ctx)
}

func (e *Engine) resolve(ctx context.Context, location string) (storage.Store, string, error) {
	if e.store != nil {
		return e.store, location, nil
	}
	return storage.Resolve(ctx, location)
}

func (e *Engine) aggregator(src storage.Source) *stream.Aggregator {
	return stream.New(src,
		stream.WithObserver(e.observer),
		stream.WithTracer(otel.Tracer("digraph/stream")),
		stream.WithMeter(telemetry.Meter("digraph/stream")),
	)
}

// recoverPanic turns a panic into an error on *errp and records it.
func (e *Engine) recoverPanic(ctx context.Context, errp *error) {
	if r := recover(); r != nil {
		_, span := e.Tracer.Start(ctx, "CriticalPanic")

		stack := debug.Stack()

		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "critical failure")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		e.Logger.Error("critical failure", "error", r, "stack", string(stack))
		*errp = fmt.Errorf("internal error: %v", r)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
