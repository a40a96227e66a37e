package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartRankingSpan creates a new span for a ranking computation such as
// badge assignment or the curated feed sort. Returns the new context and
// a function to end the span.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartRankingSpan(ctx, "curated_sort", len(posts))
//	defer endSpan(err)
func StartRankingSpan(ctx context.Context, operation string, postCount int) (context.Context, func(error)) {
	tracer := otel.Tracer("rater/ranking")

	ctx, span := tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("ranking.post_count", postCount),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// StartSearchSpan creates a new span for a search query against the fuzzy
// index. The raw query text is not recorded; only its length, to avoid
// leaking user input into trace storage.
func StartSearchSpan(ctx context.Context, entrypoint string, queryLen int) (context.Context, func(error)) {
	tracer := otel.Tracer("rater/search")

	ctx, span := tracer.Start(ctx, "search "+entrypoint,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("search.entrypoint", entrypoint),
			attribute.Int("search.query_length", queryLen),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// StartSpan creates a new span for a general operation.
// Returns the new context and a function to end the span.
func StartSpan(ctx context.Context, name string) (context.Context, func(error)) {
	tracer := otel.Tracer("rater")

	ctx, span := tracer.Start(ctx, name)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
}
