// Package server exposes an executable schema over HTTP following the
// GraphQL-over-HTTP conventions: GET and POST requests, JSON batches, CORS
// and an optional GraphiQL page.
package server

import (
	"context"
	"net/http"
	"time"

	eventbus "github.com/hanpama/gqltransform/internal/eventbus"
	events "github.com/hanpama/gqltransform/internal/events"
	executor "github.com/hanpama/gqltransform/internal/executor"
	language "github.com/hanpama/gqltransform/internal/language"
	reqid "github.com/hanpama/gqltransform/internal/reqid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// Executor runs one GraphQL request. *executable.Schema implements it.
type Executor interface {
	Execute(ctx context.Context, query, operationName string, variables map[string]any) *executor.ExecutionResult
}

// Handler is an http.Handler that serves a GraphQL endpoint.
type Handler struct {
	exec Executor
	opt  Options
}

type Options struct {
	// Timeout bounds requests whose context has no deadline. 0 disables it.
	Timeout time.Duration

	Pretty bool

	// MaxBodyBytes limits POST bodies. 0 means unlimited.
	MaxBodyBytes int64

	// AllowedOrigins enables CORS for the listed origins; "*" allows any.
	AllowedOrigins []string

	// Context derives the resolver context from the request, e.g. to carry
	// authentication headers down to resolvers.
	Context func(context.Context, *http.Request) context.Context

	GraphiQL bool
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithGraphiQL(enable bool) Option    { return func(o *Options) { o.GraphiQL = enable } }

func WithCORS(origins ...string) Option {
	return func(o *Options) { o.AllowedOrigins = origins }
}

func WithContext(fn func(context.Context, *http.Request) context.Context) Option {
	return func(o *Options) { o.Context = fn }
}

// New creates a GraphQL HTTP handler. Requests time out after ten seconds
// and GraphiQL is served unless options say otherwise.
func New(exec Executor, opts ...Option) *Handler {
	op := Options{Timeout: 10 * time.Second, GraphiQL: true}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{exec: exec, opt: op}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}
	ctx, rid := requestContext(ctx, r)
	w.Header().Set(RequestIDHeader, rid)

	start := time.Now()
	eventbus.Publish(ctx, events.RequestReceived{Method: r.Method, Path: r.URL.Path, Remote: r.RemoteAddr})
	status, operations := h.serve(ctx, w, r)
	eventbus.Publish(ctx, events.RequestServed{
		Method:     r.Method,
		Path:       r.URL.Path,
		Status:     status,
		Operations: operations,
		Duration:   time.Since(start),
	})
}

func requestContext(ctx context.Context, r *http.Request) (context.Context, string) {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return reqid.WithID(ctx, id)
	}
	return reqid.NewContext(ctx)
}

// serve answers the request and reports the status it wrote along with the
// number of operations it ran.
func (h *Handler) serve(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, int) {
	allowCORS(w, r, h.opt.AllowedOrigins)

	switch {
	case r.Method == http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return http.StatusNoContent, 0
	case r.Method != http.MethodGet && r.Method != http.MethodPost:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		return h.reject(w, errMethodNotAllowed), 0
	case h.opt.GraphiQL && wantsGraphiQL(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(graphiqlPage)
		return http.StatusOK, 0
	}

	reqs, batched, err := decodeRequest(r, h.opt.MaxBodyBytes)
	if err != nil {
		return h.reject(w, err), 0
	}
	if h.opt.Context != nil {
		ctx = h.opt.Context(ctx, r)
	}

	results := make([]*executor.ExecutionResult, len(reqs))
	for i, req := range reqs {
		results[i] = h.execute(ctx, i, req)
	}
	if batched {
		writeJSON(w, http.StatusOK, results, h.opt.Pretty)
	} else {
		writeJSON(w, http.StatusOK, results[0], h.opt.Pretty)
	}
	return http.StatusOK, len(reqs)
}

func (h *Handler) reject(w http.ResponseWriter, err *requestError) int {
	writeJSON(w, err.status, &executor.ExecutionResult{
		Errors: []executor.GraphQLError{{Message: err.message}},
	}, h.opt.Pretty)
	return err.status
}

func (h *Handler) execute(ctx context.Context, index int, req GraphQLRequest) *executor.ExecutionResult {
	// syntax errors are answered without touching the executor
	doc, err := language.ParseQuery(req.Query)
	if err != nil {
		return &executor.ExecutionResult{Errors: []executor.GraphQLError{syntaxError(err)}}
	}
	opType := ""
	if op := doc.Operations.ForName(req.OperationName); op != nil {
		opType = string(op.Operation)
	}

	start := time.Now()
	eventbus.Publish(ctx, events.OperationStart{Index: index, Name: req.OperationName, Type: opType})
	result := h.exec.Execute(ctx, req.Query, req.OperationName, req.Variables)
	errs := make([]error, len(result.Errors))
	for i := range result.Errors {
		errs[i] = result.Errors[i]
	}
	eventbus.Publish(ctx, events.OperationFinish{
		Index:    index,
		Name:     req.OperationName,
		Type:     opType,
		Errors:   errs,
		Duration: time.Since(start),
	})
	return result
}
