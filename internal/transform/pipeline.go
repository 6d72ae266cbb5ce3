package transform

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	eventbus "github.com/hanpama/gqltransform/internal/eventbus"
	events "github.com/hanpama/gqltransform/internal/events"
	language "github.com/hanpama/gqltransform/internal/language"
)

// Transform runs an ordered list of transformers over SDL input.
type Transform struct {
	reg      *registry
	logger   zerolog.Logger
	preserve []string
}

// Option configures a Transform.
type Option func(*Transform)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Transform) { t.logger = l }
}

// WithPreservedDirectives keeps the named directives in the printed SDL.
func WithPreservedDirectives(names ...string) Option {
	return func(t *Transform) { t.preserve = append(t.preserve, names...) }
}

// New validates the transformer list and returns a reusable Transform.
func New(transformers []Transformer, opts ...Option) (*Transform, error) {
	reg, err := newRegistry(transformers)
	if err != nil {
		return nil, err
	}
	t := &Transform{reg: reg, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Input is the SDL and the caller's own resolvers.
type Input struct {
	TypeDefs  []string
	Resolvers ResolverMap
}

// Output is the printed SDL together with the resolvers bound to it.
type Output struct {
	TypeDefs  string
	Resolvers ResolverMap
	Document  *language.SchemaDocument
}

// Run parses the input, dispatches every transformer in registration order
// and formats the result. A failing hook aborts the run.
func (t *Transform) Run(ctx context.Context, in Input) (out *Output, err error) {
	start := time.Now()
	names := make([]string, 0, len(t.reg.transformers))
	for _, tr := range t.reg.transformers {
		names = append(names, tr.Name())
	}
	eventbus.Publish(ctx, events.TransformStart{Sources: len(in.TypeDefs), Transformers: names})

	var c *Context
	defer func() {
		finish := events.TransformFinish{Err: err, Duration: time.Since(start)}
		if c != nil {
			finish.Types = len(c.order)
		}
		eventbus.Publish(ctx, finish)
		if err != nil {
			t.logger.Error().Err(err).Msg("transform failed")
			return
		}
		t.logger.Info().Int("types", finish.Types).Dur("duration", finish.Duration).Msg("transform finished")
	}()

	sources := make([]*language.Source, 0, len(in.TypeDefs))
	for i, s := range in.TypeDefs {
		sources = append(sources, &language.Source{Name: fmt.Sprintf("typeDefs[%d]", i), Input: s})
	}
	doc, err := language.ParseSchemas(sources...)
	if err != nil {
		return nil, err
	}
	c, err = NewContext(doc)
	if err != nil {
		return nil, err
	}
	for _, def := range t.reg.defs {
		c.declareDirective(def)
	}
	for _, def := range t.reg.support {
		c.declareSupport(def)
	}
	registerResolvers(c, in.Resolvers)

	for i, tr := range t.reg.transformers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t.logger.Debug().Str("transformer", tr.Name()).Msg("running transformer")
		if err := t.reg.dispatch(c, i, t.apply(ctx)); err != nil {
			return nil, fmt.Errorf("%s: %w", tr.Name(), err)
		}
	}
	return Format(c, t.preserve)
}

func (t *Transform) apply(ctx context.Context) applyFunc {
	return func(tr Transformer, s site) error {
		var err error
		switch {
		case s.call == nil || !allows(t.reg.defs[s.directive.Name], s.location):
			target := s.parent
			if s.field != "" {
				target += "." + s.field
			}
			err = &InvalidDirectiveError{Directive: s.directive.Name, Kind: s.kind, Definition: target}
		default:
			err = s.call()
		}
		eventbus.Publish(ctx, events.DirectiveApplied{
			Transformer: tr.Name(),
			Directive:   s.directive.Name,
			Kind:        s.kind,
			Parent:      s.parent,
			Field:       s.field,
			Err:         err,
		})
		t.logger.Debug().
			Str("transformer", tr.Name()).
			Str("directive", s.directive.Name).
			Str("kind", s.kind).
			Str("parent", s.parent).
			Str("field", s.field).
			AnErr("error", err).
			Msg("directive applied")
		return err
	}
}

// registerResolvers exposes caller resolvers as resources so field
// directives can wrap them.
func registerResolvers(c *Context, resolvers ResolverMap) {
	typeNames := make([]string, 0, len(resolvers))
	for typeName := range resolvers {
		typeNames = append(typeNames, typeName)
	}
	sort.Strings(typeNames)
	for _, typeName := range typeNames {
		fields := make([]string, 0, len(resolvers[typeName]))
		for field := range resolvers[typeName] {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			c.SetResource(FieldResourceID(typeName, field), Resource{
				Kind:      ResolverKind,
				TypeName:  typeName,
				FieldName: field,
				Resolver:  resolvers[typeName][field],
			})
		}
	}
}
