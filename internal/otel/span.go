// Package otel holds span helpers shared by the search path and its backends.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on search spans. The query text itself is never recorded.
const (
	AttrQueryLength   = attribute.Key("search.query.length")
	AttrEntityType    = attribute.Key("search.entity_type")
	AttrEntityCount   = attribute.Key("search.entity_count")
	AttrCategoryCount = attribute.Key("search.category_count")
	AttrResultCount   = attribute.Key("result.count")
	AttrTypeName      = attribute.Key("search.type_name")
)

// StartSpan starts a span on tracer, or returns the span already in ctx when tracer is nil
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError marks the span as failed. The status keeps a generic
// description; the error itself goes into the exception event.
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "operation failed")
}
