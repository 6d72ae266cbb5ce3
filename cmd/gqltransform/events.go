package main

import (
	"context"

	eventbus "github.com/hanpama/gqltransform/internal/eventbus"
	events "github.com/hanpama/gqltransform/internal/events"
	reqid "github.com/hanpama/gqltransform/internal/reqid"
	"github.com/rs/zerolog"
)

// logEvents writes an access log line per HTTP request and a warning per
// failed GraphQL operation.
func logEvents(bus *eventbus.Bus, logger zerolog.Logger) (unsubscribe func()) {
	offHTTP := eventbus.On(bus, func(ctx context.Context, e events.RequestServed) {
		rid, _ := reqid.FromContext(ctx)
		logger.Info().
			Str("request_id", rid).
			Str("method", e.Method).
			Str("path", e.Path).
			Int("status", e.Status).
			Int("operations", e.Operations).
			Dur("duration", e.Duration).
			Msg("http request")
	})
	offGraphQL := eventbus.On(bus, func(ctx context.Context, e events.OperationFinish) {
		if len(e.Errors) == 0 {
			return
		}
		rid, _ := reqid.FromContext(ctx)
		logger.Warn().
			Str("request_id", rid).
			Int("index", e.Index).
			Str("operation", e.Name).
			Str("type", e.Type).
			Errs("errors", e.Errors).
			Msg("graphql operation failed")
	})
	return func() {
		offHTTP()
		offGraphQL()
	}
}
