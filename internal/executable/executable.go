// Package executable binds the output of a transform pass to the executor:
// the printed SDL becomes an executable schema and the resolver map drives
// field resolution. Fields without a resolver read the matching key or
// struct field of their parent value.
package executable

import (
	"context"
	"fmt"
	"sort"
	"strings"

	astutil "github.com/hanpama/gqltransform/internal/astutil"
	executor "github.com/hanpama/gqltransform/internal/executor"
	introspection "github.com/hanpama/gqltransform/internal/introspection"
	language "github.com/hanpama/gqltransform/internal/language"
	schema "github.com/hanpama/gqltransform/internal/schema"
	transform "github.com/hanpama/gqltransform/internal/transform"
	"github.com/rs/zerolog"
)

// Schema is an executable schema.
type Schema struct {
	validation *language.Schema
	schema     *schema.Schema
	exec       *executor.Executor
	typeDefs   string
	opts       options
}

type options struct {
	logger        zerolog.Logger
	rootValue     any
	introspection bool
}

type Option func(*options)

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIntrospection toggles the __schema and __type fields. They are on by
// default.
func WithIntrospection(enable bool) Option {
	return func(o *options) { o.introspection = enable }
}

// WithRootValue sets the source value handed to root field resolvers.
func WithRootValue(v any) Option {
	return func(o *options) { o.rootValue = v }
}

// New builds an executable schema from a transform output. AppSync scalars
// the SDL uses without declaring are declared implicitly.
func New(out *transform.Output, opts ...Option) (*Schema, error) {
	o := options{logger: zerolog.Nop(), introspection: true}
	for _, opt := range opts {
		opt(&o)
	}

	sources := []*language.Source{{Name: "schema.graphql", Input: out.TypeDefs}}
	if implicit := implicitScalars(out.TypeDefs); implicit != "" {
		sources = append(sources, &language.Source{Name: "appsync.graphql", Input: implicit})
	}
	validation, err := language.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("build executable schema: %w", err)
	}
	sch := schema.BuildFromAST(validation)

	if err := checkResolvers(sch, out.Resolvers); err != nil {
		return nil, err
	}

	var rt executor.Runtime = &runtime{schema: sch, resolvers: out.Resolvers}
	execSchema := sch
	if o.introspection {
		execSchema = introspection.Extend(sch, schema.BuildIntrospectionTypes(validation))
		rt = introspection.Wrap(rt, execSchema)
	}
	return &Schema{
		validation: validation,
		schema:     sch,
		exec:       executor.NewExecutor(rt, execSchema),
		typeDefs:   out.TypeDefs,
		opts:       o,
	}, nil
}

// Schema returns the executable type system.
func (s *Schema) Schema() *schema.Schema { return s.schema }

// TypeDefs returns the SDL the schema was built from.
func (s *Schema) TypeDefs() string { return s.typeDefs }

// Execute validates and runs a GraphQL request.
func (s *Schema) Execute(ctx context.Context, query, operationName string, variables map[string]any) *executor.ExecutionResult {
	doc, errs := language.LoadQuery(s.validation, query)
	if len(errs) > 0 {
		s.opts.logger.Debug().Int("errors", len(errs)).Msg("query rejected")
		return &executor.ExecutionResult{Errors: convertErrors(errs)}
	}
	res := s.exec.ExecuteRequest(ctx, doc, operationName, variables, s.opts.rootValue)
	s.opts.logger.Debug().
		Str("operation", operationName).
		Int("errors", len(res.Errors)).
		Msg("query executed")
	return res
}

// UnknownFieldError reports a resolver bound to a field the schema does not
// define.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("resolver bound to %s.%s, which the schema does not define", e.Type, e.Field)
}

func checkResolvers(sch *schema.Schema, resolvers transform.ResolverMap) error {
	typeNames := make([]string, 0, len(resolvers))
	for name := range resolvers {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, typeName := range typeNames {
		t := sch.Types[typeName]
		for field := range resolvers[typeName] {
			if t == nil || t.Field(field) == nil {
				return &UnknownFieldError{Type: typeName, Field: field}
			}
		}
	}
	return nil
}

// implicitScalars declares the AppSync scalars that typeDefs does not
// declare itself.
func implicitScalars(typeDefs string) string {
	doc, err := language.ParseSchema("schema.graphql", typeDefs)
	if err != nil {
		// LoadSchema reports the error
		return ""
	}
	declared := make(map[string]bool)
	for _, def := range doc.Definitions {
		declared[def.Name] = true
	}
	names := make([]string, 0, len(astutil.AWSScalars))
	for name := range astutil.AWSScalars {
		if !declared[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "scalar %s\n", name)
	}
	return b.String()
}

func convertErrors(errs language.ErrorList) []executor.GraphQLError {
	out := make([]executor.GraphQLError, len(errs))
	for i, e := range errs {
		ge := executor.GraphQLError{Message: e.Message, Extensions: e.Extensions}
		for _, loc := range e.Locations {
			ge.Locations = append(ge.Locations, executor.Location{Line: loc.Line, Column: loc.Column})
		}
		out[i] = ge
	}
	return out
}
