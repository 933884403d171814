package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("weekly-pool/internal/interfaces/httpapi")

const handlerSpanPrefix = "httpapi.Handler."

// startHandlerSpan opens a span for one handler under the request span started
// by RequestTracing, tagged with the matched route. Without a request span
// (health checks, tests) it returns the context's no-op span.
func startHandlerSpan(r *http.Request, handler string) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return apiTracer.Start(ctx, handlerSpanPrefix+handler,
		trace.WithAttributes(attribute.String("http.route", routePattern(r))),
	)
}

func routePattern(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.Method + " " + r.URL.Path
}
