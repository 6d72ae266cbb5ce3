package transform

import (
	"strings"

	language "github.com/hanpama/gqltransform/internal/language"
)

// registry maps directive names to the transformer that declared them.
type registry struct {
	transformers []Transformer
	owners       map[string]int
	defs         map[string]*language.DirectiveDefinition
	// support holds the input and enum types the declarations refer to.
	support map[string]*language.Definition
}

func newRegistry(transformers []Transformer) (*registry, error) {
	r := &registry{
		transformers: transformers,
		owners:       make(map[string]int),
		defs:         make(map[string]*language.DirectiveDefinition),
		support:      make(map[string]*language.Definition),
	}
	for i, t := range transformers {
		doc := t.Definitions()
		if doc == nil {
			continue
		}
		for _, d := range doc.Directives {
			if prev, ok := r.owners[d.Name]; ok {
				return nil, &DuplicateDirectiveError{Directive: d.Name, First: transformers[prev].Name(), Second: t.Name()}
			}
			r.owners[d.Name] = i
			r.defs[d.Name] = d
		}
		for _, def := range doc.Definitions {
			if _, ok := r.support[def.Name]; !ok {
				r.support[def.Name] = def
			}
		}
	}
	return r, nil
}

// site is one directive occurrence handed to a hook.
type site struct {
	kind      string
	location  language.DirectiveLocation
	parent    string
	field     string
	directive *language.Directive
	call      func() error
}

type applyFunc func(t Transformer, s site) error

// dispatch walks the input document on behalf of the i-th transformer: the
// schema definition, then type definitions, then object extensions.
// Directives of a node come before those of its fields.
func (r *registry) dispatch(c *Context, i int, apply applyFunc) error {
	t := r.transformers[i]
	hooks := t.Hooks()
	owned := func(d *language.Directive) bool {
		owner, ok := r.owners[d.Name]
		return ok && owner == i
	}

	for _, d := range c.SchemaDefinition().Directives {
		if !owned(d) {
			continue
		}
		s := site{kind: "schema", location: language.LocationSchema, parent: "schema", directive: d}
		if hooks.Schema != nil {
			s.call = func() error { return hooks.Schema(c, c.SchemaDefinition(), d) }
		}
		if err := apply(t, s); err != nil {
			return err
		}
	}

	doc := c.Document()
	for _, def := range doc.Definitions {
		if err := r.dispatchDefinition(c, t, hooks, def, owned, apply); err != nil {
			return err
		}
	}
	for _, ext := range doc.Extensions {
		if ext.Kind != language.Object {
			continue
		}
		if err := r.dispatchDefinition(c, t, hooks, ext, owned, apply); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) dispatchDefinition(c *Context, t Transformer, hooks Hooks, node *language.Definition, owned func(*language.Directive) bool, apply applyFunc) error {
	current := func() *language.Definition {
		if def := c.GetType(node.Name); def != nil {
			return def
		}
		return node
	}
	kind := kindName(node.Kind)
	hook := hooks.definition(node.Kind)

	for _, d := range node.Directives {
		if !owned(d) || !merged(current().Directives, d) {
			continue
		}
		s := site{kind: kind, location: location(node.Kind), parent: node.Name, directive: d}
		if hook != nil {
			s.call = func() error { return hook(c, current(), d) }
		}
		if err := apply(t, s); err != nil {
			return err
		}
	}

	if node.Kind != language.Object && node.Kind != language.Interface {
		return nil
	}
	for _, f := range node.Fields {
		for _, d := range f.Directives {
			if !owned(d) {
				continue
			}
			s := site{kind: "field", location: language.LocationFieldDefinition, parent: node.Name, field: f.Name, directive: d}
			if hooks.Field != nil {
				s.call = func() error {
					parent := current()
					field := parent.Fields.ForName(f.Name)
					if field == nil {
						field = f
					}
					return hooks.Field(c, parent, field, d)
				}
			}
			if err := apply(t, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// merged reports whether d made it into list. Extension directives that
// duplicate one already on the type are dropped during the merge.
func merged(list language.DirectiveList, d *language.Directive) bool {
	for _, x := range list {
		if x == d {
			return true
		}
	}
	return false
}

func kindName(kind language.DefinitionKind) string {
	if kind == language.InputObject {
		return "input object"
	}
	return strings.ToLower(string(kind))
}

func location(kind language.DefinitionKind) language.DirectiveLocation {
	switch kind {
	case language.Object:
		return language.LocationObject
	case language.Interface:
		return language.LocationInterface
	case language.Union:
		return language.LocationUnion
	case language.Enum:
		return language.LocationEnum
	case language.Scalar:
		return language.LocationScalar
	case language.InputObject:
		return language.LocationInputObject
	}
	return ""
}

// allows reports whether the directive declaration permits loc.
func allows(def *language.DirectiveDefinition, loc language.DirectiveLocation) bool {
	if def == nil {
		return true
	}
	for _, l := range def.Locations {
		if l == loc {
			return true
		}
	}
	return false
}
