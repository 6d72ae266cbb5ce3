// Package testdirective provides two small transformers that show how
// directives compose: @testConfig stores a value on the schema and @test
// decorates a field's resolver with it.
package testdirective

import (
	"context"
	"fmt"

	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
	transform "github.com/hanpama/gqltransform/internal/transform"
)

const (
	DefaultConfigKey = "config:test"
	DefaultFallback  = "Hello??"
)

// ConfigTransformer owns a schema directive whose value argument is stored
// as a config resource.
type ConfigTransformer struct {
	transform.Base
	key string
}

// NewConfig returns the @testConfig(value: String) transformer.
func NewConfig() *ConfigTransformer {
	return NewNamedConfig("testConfig", DefaultConfigKey)
}

func NewNamedConfig(directive, key string) *ConfigTransformer {
	return &ConfigTransformer{
		Base: transform.NewBase(directive+"Transformer",
			fmt.Sprintf("directive @%s(value: String) on SCHEMA", directive)),
		key: key,
	}
}

func (t *ConfigTransformer) Hooks() transform.Hooks {
	return transform.Hooks{Schema: t.schema}
}

func (t *ConfigTransformer) schema(ctx *transform.Context, _ *language.SchemaDefinition, d *language.Directive) error {
	value, _ := astutil.StringArgument(d, "value")
	ctx.SetResource(t.key, transform.Resource{Kind: transform.ConfigKind, Value: value})
	return nil
}

// Transformer appends a configured suffix to the result of the field it
// decorates.
type Transformer struct {
	transform.Base
	directive string
	key       string
	fallback  string
}

// New returns the @test transformer reading config:test.
func New() *Transformer {
	return NewNamed("test", DefaultConfigKey, DefaultFallback)
}

// NewNamed returns a decorator owning @directive. It reads its suffix from
// the config resource key, or uses fallback when none is set.
func NewNamed(directive, key, fallback string) *Transformer {
	return &Transformer{
		Base: transform.NewBase(directive+"Transformer",
			fmt.Sprintf("directive @%s on FIELD_DEFINITION", directive)),
		directive: directive,
		key:       key,
		fallback:  fallback,
	}
}

func (t *Transformer) Hooks() transform.Hooks {
	return transform.Hooks{Field: t.field}
}

func (t *Transformer) suffix(ctx *transform.Context) string {
	if r, ok := ctx.GetResource(t.key); ok {
		if s, ok := r.Value.(string); ok && s != "" {
			return s
		}
	}
	return t.fallback
}

func (t *Transformer) field(ctx *transform.Context, parent *language.Definition, f *language.FieldDefinition, d *language.Directive) error {
	if parent.Kind == language.Interface {
		return &transform.InvalidDirectiveError{
			Directive:  t.directive,
			Kind:       "field",
			Definition: parent.Name + "." + f.Name,
			Reason:     "interface fields cannot be decorated",
		}
	}
	suffix := t.suffix(ctx)
	id := transform.FieldResourceID(parent.Name, f.Name)

	resolver := func(context.Context, transform.ResolveParams) (any, error) { return suffix, nil }
	if prev, ok := ctx.GetResource(id); ok && prev.Resolver != nil {
		inner := prev.Resolver
		resolver = func(rctx context.Context, p transform.ResolveParams) (any, error) {
			v, err := inner(rctx, p)
			if err != nil {
				return nil, err
			}
			return fmt.Sprint(v) + suffix, nil
		}
	}
	ctx.SetResource(id, transform.Resource{
		Kind:      transform.ResolverKind,
		TypeName:  parent.Name,
		FieldName: f.Name,
		Resolver:  resolver,
	})
	return nil
}
