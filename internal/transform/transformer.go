package transform

import (
	"fmt"

	language "github.com/hanpama/gqltransform/internal/language"
)

// Transformer owns one or more directives and rewrites the context wherever
// they appear.
type Transformer interface {
	Name() string
	// Definitions returns the transformer's own SDL: directive declarations
	// and the input types their arguments use.
	Definitions() *language.SchemaDocument
	Hooks() Hooks
}

// DefinitionHook handles a directive on a type definition. def is the
// context's current view of the type.
type DefinitionHook func(ctx *Context, def *language.Definition, d *language.Directive) error

// FieldHook handles a directive on a field of an object or interface.
type FieldHook func(ctx *Context, parent *language.Definition, field *language.FieldDefinition, d *language.Directive) error

type SchemaHook func(ctx *Context, schema *language.SchemaDefinition, d *language.Directive) error

// Hooks lists the node kinds a transformer decorates. A nil hook means the
// transformer's directives are invalid on that kind of node.
type Hooks struct {
	Object    DefinitionHook
	Interface DefinitionHook
	Union     DefinitionHook
	Enum      DefinitionHook
	Scalar    DefinitionHook
	Input     DefinitionHook
	Field     FieldHook
	Schema    SchemaHook
}

func (h Hooks) definition(kind language.DefinitionKind) DefinitionHook {
	switch kind {
	case language.Object:
		return h.Object
	case language.Interface:
		return h.Interface
	case language.Union:
		return h.Union
	case language.Enum:
		return h.Enum
	case language.Scalar:
		return h.Scalar
	case language.InputObject:
		return h.Input
	}
	return nil
}

// Base carries a transformer's name and parsed SDL. Transformers embed it and
// supply Hooks themselves.
type Base struct {
	name string
	defs *language.SchemaDocument
}

// NewBase parses sdl for a transformer named name. Invalid SDL is a
// programming error and panics.
func NewBase(name, sdl string) Base {
	doc, err := language.ParseSchema(name, sdl)
	if err != nil {
		panic(fmt.Sprintf("transform: invalid definitions for %s: %v", name, err))
	}
	return Base{name: name, defs: doc}
}

func (b Base) Name() string { return b.name }

func (b Base) Definitions() *language.SchemaDocument { return b.defs }
