// Package introspection answers the __schema and __type meta fields over an
// executable schema. Types and directives are listed by name; fields,
// arguments and enum values keep their declaration order.
package introspection

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	executor "github.com/hanpama/gqltransform/internal/executor"
	language "github.com/hanpama/gqltransform/internal/language"
	schema "github.com/hanpama/gqltransform/internal/schema"
)

type runtime struct {
	base   executor.Runtime
	schema *schema.Schema
}

// Wrap returns a Runtime that resolves introspection fields against sch, an
// Extend-ed schema, and delegates every other field to base.
func Wrap(base executor.Runtime, sch *schema.Schema) executor.Runtime {
	return &runtime{base: base, schema: sch}
}

func (r *runtime) ResolveField(ctx context.Context, req executor.FieldRequest) (any, error) {
	if req.ObjectType == r.schema.QueryType {
		switch req.Field {
		case "__schema":
			return r.schema, nil
		case "__type":
			name, _ := req.Args["name"].(string)
			return r.named(name), nil
		}
	}
	if !strings.HasPrefix(req.ObjectType, "__") {
		return r.base.ResolveField(ctx, req)
	}

	if w, ok := req.Source.(wrapper); ok {
		return w.field(r, req.Field), nil
	}
	resolve, ok := metaFields[req.ObjectType][req.Field]
	if !ok {
		return nil, fmt.Errorf("introspection field %s.%s is not supported", req.ObjectType, req.Field)
	}
	includeDeprecated, _ := req.Args["includeDeprecated"].(bool)
	return resolve(r, req.Source, includeDeprecated), nil
}

func (r *runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	return r.base.ResolveType(ctx, abstractType, value)
}

func (r *runtime) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	if strings.HasPrefix(typeName, "__") {
		return fmt.Sprint(value), nil
	}
	return r.base.SerializeLeafValue(ctx, typeName, value)
}

// named returns the type called name, or an untyped nil.
func (r *runtime) named(name string) any {
	if t := r.schema.Types[name]; t != nil {
		return t
	}
	return nil
}

// typeOf is the __Type value of a reference: the named type itself, or a
// wrapper for List and Non-Null.
func (r *runtime) typeOf(ref *schema.TypeRef) any {
	switch {
	case ref == nil:
		return nil
	case ref.IsWrapper():
		return wrapper{ref}
	}
	return r.named(ref.Named)
}

func (r *runtime) lookup(names []string) []*schema.Type {
	out := make([]*schema.Type, 0, len(names))
	for _, name := range names {
		if t := r.schema.Types[name]; t != nil {
			out = append(out, t)
		}
	}
	return byName(out, func(t *schema.Type) string { return t.Name })
}

// wrapper is a List or Non-Null __Type. Only kind and ofType are non-null.
type wrapper struct{ ref *schema.TypeRef }

func (w wrapper) field(r *runtime, name string) any {
	switch name {
	case "kind":
		return string(w.ref.Kind)
	case "ofType":
		return r.typeOf(w.ref.OfType)
	}
	return nil
}

// metaField resolves one field of an introspection type.
type metaField func(r *runtime, source any, includeDeprecated bool) any

func on[T any](f func(r *runtime, v T, includeDeprecated bool) any) metaField {
	return func(r *runtime, source any, includeDeprecated bool) any {
		return f(r, source.(T), includeDeprecated)
	}
}

func prop[T any](f func(v T) any) metaField {
	return func(_ *runtime, source any, _ bool) any { return f(source.(T)) }
}

func filtered[T any](f func(v T, includeDeprecated bool) any) metaField {
	return func(_ *runtime, source any, includeDeprecated bool) any { return f(source.(T), includeDeprecated) }
}

var metaFields = map[string]map[string]metaField{
	"__Schema": {
		"description": prop(func(s *schema.Schema) any { return optional(s.Description) }),
		"types": prop(func(s *schema.Schema) any {
			return byName(slices.Collect(maps.Values(s.Types)), func(t *schema.Type) string { return t.Name })
		}),
		"queryType":        prop(func(s *schema.Schema) any { return s.Root(language.Query) }),
		"mutationType":     prop(func(s *schema.Schema) any { return s.Root(language.Mutation) }),
		"subscriptionType": prop(func(s *schema.Schema) any { return s.Root(language.Subscription) }),
		"directives": prop(func(s *schema.Schema) any {
			return byName(slices.Collect(maps.Values(s.Directives)), func(d *schema.Directive) string { return d.Name })
		}),
	},
	"__Type": {
		"kind":           prop(func(t *schema.Type) any { return string(t.Kind) }),
		"name":           prop(func(t *schema.Type) any { return t.Name }),
		"description":    prop(func(t *schema.Type) any { return optional(t.Description) }),
		"specifiedByURL": prop(func(t *schema.Type) any { return t.SpecifiedByURL }),
		"fields": filtered(func(t *schema.Type, includeDeprecated bool) any {
			if !t.Kind.HasFields() {
				return nil
			}
			return visible(t.Fields, func(f *schema.Field) bool {
				return !strings.HasPrefix(f.Name, "__") && (!f.IsDeprecated || includeDeprecated)
			})
		}),
		"interfaces": on(func(r *runtime, t *schema.Type, _ bool) any {
			if !t.Kind.HasFields() {
				return nil
			}
			return r.lookup(t.Interfaces)
		}),
		"possibleTypes": on(func(r *runtime, t *schema.Type, _ bool) any {
			if !t.Kind.IsAbstract() {
				return nil
			}
			return r.lookup(t.PossibleTypes)
		}),
		"enumValues": filtered(func(t *schema.Type, includeDeprecated bool) any {
			if t.Kind != schema.TypeKindEnum {
				return nil
			}
			return visible(t.EnumValues, func(v *schema.EnumValue) bool {
				return !v.IsDeprecated || includeDeprecated
			})
		}),
		"inputFields": filtered(func(t *schema.Type, includeDeprecated bool) any {
			if t.Kind != schema.TypeKindInputObject {
				return nil
			}
			return inputValues(t.InputFields, includeDeprecated)
		}),
		"ofType": prop(func(*schema.Type) any { return nil }),
		"isOneOf": prop(func(t *schema.Type) any {
			if t.Kind != schema.TypeKindInputObject {
				return nil
			}
			return t.OneOf
		}),
	},
	"__Field": {
		"name":              prop(func(f *schema.Field) any { return f.Name }),
		"description":       prop(func(f *schema.Field) any { return optional(f.Description) }),
		"args":              filtered(func(f *schema.Field, includeDeprecated bool) any { return inputValues(f.Arguments, includeDeprecated) }),
		"type":              on(func(r *runtime, f *schema.Field, _ bool) any { return r.typeOf(f.Type) }),
		"isDeprecated":      prop(func(f *schema.Field) any { return f.IsDeprecated }),
		"deprecationReason": prop(func(f *schema.Field) any { return reason(f.Deprecation) }),
	},
	"__InputValue": {
		"name":        prop(func(v *schema.InputValue) any { return v.Name }),
		"description": prop(func(v *schema.InputValue) any { return optional(v.Description) }),
		"type":        on(func(r *runtime, v *schema.InputValue, _ bool) any { return r.typeOf(v.Type) }),
		"defaultValue": prop(func(v *schema.InputValue) any {
			switch {
			case v.DefaultLiteral != "":
				return v.DefaultLiteral
			case v.DefaultValue != nil:
				return fmt.Sprint(v.DefaultValue)
			}
			return nil
		}),
		"isDeprecated":      prop(func(v *schema.InputValue) any { return v.IsDeprecated }),
		"deprecationReason": prop(func(v *schema.InputValue) any { return reason(v.Deprecation) }),
	},
	"__EnumValue": {
		"name":              prop(func(v *schema.EnumValue) any { return v.Name }),
		"description":       prop(func(v *schema.EnumValue) any { return optional(v.Description) }),
		"isDeprecated":      prop(func(v *schema.EnumValue) any { return v.IsDeprecated }),
		"deprecationReason": prop(func(v *schema.EnumValue) any { return reason(v.Deprecation) }),
	},
	"__Directive": {
		"name":         prop(func(d *schema.Directive) any { return d.Name }),
		"description":  prop(func(d *schema.Directive) any { return optional(d.Description) }),
		"isRepeatable": prop(func(d *schema.Directive) any { return d.IsRepeatable }),
		"locations":    prop(func(d *schema.Directive) any { return d.Locations }),
		"args":         filtered(func(d *schema.Directive, includeDeprecated bool) any { return inputValues(d.Arguments, includeDeprecated) }),
	},
}

func visible[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func inputValues(values []*schema.InputValue, includeDeprecated bool) []*schema.InputValue {
	return visible(values, func(v *schema.InputValue) bool {
		return !v.IsDeprecated || includeDeprecated
	})
}

func byName[T any](items []T, name func(T) string) []T {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(name(a), name(b)) })
	return items
}

func reason(d schema.Deprecation) any {
	if !d.IsDeprecated {
		return nil
	}
	return d.DeprecationReason
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
