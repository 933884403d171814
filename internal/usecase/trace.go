package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("weekly-pool/internal/usecase")

// startUsecaseSpan opens a child span only when ctx already carries a sampled
// request span, so background jobs and tests stay span-free.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan marks rejected and failed calls on the span before ending it.
// Rejections carry their reason code; other errors set the error status.
func endSpan(span trace.Span, err error) {
	if err != nil {
		if reason := RejectionReason(err); reason != "" {
			span.SetAttributes(attribute.String("pool.rejection", reason))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
