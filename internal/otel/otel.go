// Package otel turns eventbus events into OpenTelemetry spans.
package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/gqltransform/internal/eventbus"
	events "github.com/hanpama/gqltransform/internal/events"
	reqid "github.com/hanpama/gqltransform/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const instrumentation = "github.com/hanpama/gqltransform"

// Setup exports traces to an OTLP gRPC collector at endpoint and subscribes
// the span recorder to bus. If endpoint is empty, no telemetry is configured.
// The returned function flushes and stops the exporter.
func Setup(ctx context.Context, bus *eventbus.Bus, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unregister := Register(bus, tp.Tracer(instrumentation))
	return func(ctx context.Context) error {
		unregister()
		return tp.Shutdown(ctx)
	}, nil
}

// Register records HTTP requests, GraphQL operations and schema transforms
// published on bus as spans of tracer. Spans of one request are correlated
// by its request ID; transforms outside a request share the empty ID.
func Register(bus *eventbus.Bus, tracer trace.Tracer) (unregister func()) {
	s := &subscriber{tracer: tracer}
	return s.register(bus)
}

type subscriber struct {
	tracer         trace.Tracer
	httpSpans      sync.Map // rid -> trace.Span
	gqlSpans       sync.Map // rid -> trace.Span
	transformSpans sync.Map // rid -> trace.Span
}

func requestID(ctx context.Context) string {
	rid, _ := reqid.FromContext(ctx)
	return rid
}

func (s *subscriber) parent(ctx context.Context, rid string, spans ...*sync.Map) context.Context {
	for _, m := range spans {
		if v, ok := m.Load(rid); ok {
			return trace.ContextWithSpan(ctx, v.(trace.Span))
		}
	}
	return ctx
}

func end(m *sync.Map, rid string, fn func(trace.Span)) {
	v, ok := m.LoadAndDelete(rid)
	if !ok {
		return
	}
	span := v.(trace.Span)
	fn(span)
	span.End()
}

func fail(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (s *subscriber) register(bus *eventbus.Bus) func() {
	unsubscribe := []func(){
		eventbus.On(bus, func(ctx context.Context, e events.RequestReceived) {
			rid := requestID(ctx)
			_, span := s.tracer.Start(ctx, "http.request", trace.WithSpanKind(trace.SpanKindServer))
			span.SetAttributes(
				semconv.HTTPMethodKey.String(e.Method),
				semconv.HTTPTargetKey.String(e.Path),
				semconv.NetSockPeerAddrKey.String(e.Remote),
				attribute.String("request.id", rid),
			)
			s.httpSpans.Store(rid, span)
		}),

		eventbus.On(bus, func(ctx context.Context, e events.RequestServed) {
			end(&s.httpSpans, requestID(ctx), func(span trace.Span) {
				span.SetAttributes(
					semconv.HTTPStatusCodeKey.Int(e.Status),
					attribute.Int("graphql.operations", e.Operations),
				)
				if e.Status >= 500 {
					span.SetStatus(codes.Error, "")
				}
			})
		}),

		eventbus.On(bus, func(ctx context.Context, e events.OperationStart) {
			rid := requestID(ctx)
			_, span := s.tracer.Start(s.parent(ctx, rid, &s.httpSpans), "graphql.operation")
			span.SetAttributes(
				attribute.String("graphql.operation.name", e.Name),
				attribute.String("graphql.operation.type", e.Type),
				attribute.Int("graphql.batch.index", e.Index),
			)
			s.gqlSpans.Store(rid, span)
		}),

		eventbus.On(bus, func(ctx context.Context, e events.OperationFinish) {
			end(&s.gqlSpans, requestID(ctx), func(span trace.Span) {
				span.SetAttributes(attribute.Int("graphql.error_count", len(e.Errors)))
				if len(e.Errors) > 0 {
					span.SetStatus(codes.Error, e.Errors[0].Error())
				}
			})
		}),

		eventbus.On(bus, func(ctx context.Context, e events.TransformStart) {
			rid := requestID(ctx)
			_, span := s.tracer.Start(s.parent(ctx, rid, &s.gqlSpans, &s.httpSpans), "schema.transform")
			span.SetAttributes(
				attribute.Int("transform.sources", e.Sources),
				attribute.StringSlice("transform.transformers", e.Transformers),
			)
			s.transformSpans.Store(rid, span)
		}),

		eventbus.On(bus, func(ctx context.Context, e events.DirectiveApplied) {
			v, ok := s.transformSpans.Load(requestID(ctx))
			if !ok {
				return
			}
			attrs := []attribute.KeyValue{
				attribute.String("transformer", e.Transformer),
				attribute.String("directive", e.Directive),
				attribute.String("kind", e.Kind),
				attribute.String("parent", e.Parent),
			}
			if e.Field != "" {
				attrs = append(attrs, attribute.String("field", e.Field))
			}
			if e.Err != nil {
				attrs = append(attrs, attribute.String("error", e.Err.Error()))
			}
			v.(trace.Span).AddEvent("directive", trace.WithAttributes(attrs...))
		}),

		eventbus.On(bus, func(ctx context.Context, e events.TransformFinish) {
			end(&s.transformSpans, requestID(ctx), func(span trace.Span) {
				span.SetAttributes(attribute.Int("transform.types", e.Types))
				fail(span, e.Err)
			})
		}),
	}
	return func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}
}
