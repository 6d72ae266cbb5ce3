package transform

import (
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
)

var defaultRootNames = map[language.Operation]string{
	language.Query:        "Query",
	language.Mutation:     "Mutation",
	language.Subscription: "Subscription",
}

var operations = []language.Operation{language.Query, language.Mutation, language.Subscription}

// Context is the mutable state of one transformation pass: the type registry,
// the schema definition and the resources produced so far.
//
// Definitions are copied on write; nodes of the input document are never
// modified.
type Context struct {
	doc *language.SchemaDocument

	types map[string]*language.Definition
	order []string

	schema   *language.SchemaDefinition
	explicit bool

	resources     map[string]Resource
	resourceOrder []string

	directiveDefs map[string]*language.DirectiveDefinition
	supportDefs   map[string]*language.Definition
}

// NewContext builds a context from a parsed document. Object extensions are
// merged after all base definitions so their position in the document does
// not matter. Extensions of other kinds are ignored.
func NewContext(doc *language.SchemaDocument) (*Context, error) {
	c := &Context{
		doc:           doc,
		types:         make(map[string]*language.Definition),
		resources:     make(map[string]Resource),
		directiveDefs: make(map[string]*language.DirectiveDefinition),
		supportDefs:   make(map[string]*language.Definition),
	}
	for _, def := range doc.Definitions {
		if err := c.AddType(astutil.CopyDefinition(def)); err != nil {
			return nil, err
		}
	}
	for _, d := range doc.Directives {
		c.directiveDefs[d.Name] = d
	}
	c.adoptSchema(doc)
	for _, ext := range doc.Extensions {
		if ext.Kind != language.Object {
			continue
		}
		if err := c.AddObjectExtension(ext); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Context) adoptSchema(doc *language.SchemaDocument) {
	if len(doc.Schema) == 0 {
		c.schema = &language.SchemaDefinition{}
		for _, op := range operations {
			c.schema.OperationTypes = append(c.schema.OperationTypes, &language.OperationTypeDef{
				Operation: op,
				Type:      defaultRootNames[op],
			})
		}
		return
	}
	c.explicit = true
	src := doc.Schema[0]
	c.schema = &language.SchemaDefinition{
		Description:    src.Description,
		Directives:     append(language.DirectiveList(nil), src.Directives...),
		OperationTypes: append([]*language.OperationTypeDef(nil), src.OperationTypes...),
		Position:       src.Position,
	}
	for _, ext := range doc.SchemaExtension {
		c.schema.Directives = append(c.schema.Directives, ext.Directives...)
		for _, ot := range ext.OperationTypes {
			if _, ok := c.OperationTypeName(ot.Operation); !ok {
				c.schema.OperationTypes = append(c.schema.OperationTypes, ot)
			}
		}
	}
}

// Document returns the parsed input document.
func (c *Context) Document() *language.SchemaDocument { return c.doc }

// SchemaDefinition returns the adopted schema definition. For input without
// one it is the default query/mutation/subscription schema.
func (c *Context) SchemaDefinition() *language.SchemaDefinition { return c.schema }

// ExplicitSchema reports whether the input declared its own schema definition.
func (c *Context) ExplicitSchema() bool { return c.explicit }

// OperationTypeName returns the root type name for op.
func (c *Context) OperationTypeName(op language.Operation) (string, bool) {
	for _, ot := range c.schema.OperationTypes {
		if ot.Operation == op {
			return ot.Type, true
		}
	}
	return "", false
}

func (c *Context) GetType(name string) *language.Definition { return c.types[name] }

// PutType inserts or replaces def. A replaced type keeps its position.
func (c *Context) PutType(def *language.Definition) {
	if _, ok := c.types[def.Name]; !ok {
		c.order = append(c.order, def.Name)
	}
	c.types[def.Name] = def
}

// AddType inserts def, failing when the name is already registered.
func (c *Context) AddType(def *language.Definition) error {
	if _, ok := c.types[def.Name]; ok {
		return &NameConflictError{Name: def.Name}
	}
	c.PutType(def)
	return nil
}

// HasType reports whether name is registered.
func (c *Context) HasType(name string) bool {
	_, ok := c.types[name]
	return ok
}

// Types returns every registered definition in insertion order.
func (c *Context) Types() []*language.Definition {
	out := make([]*language.Definition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.types[name])
	}
	return out
}

// AddObjectExtension merges ext into the object it extends. Directives already
// present on the object win over those of the extension.
func (c *Context) AddObjectExtension(ext *language.Definition) error {
	old := c.types[ext.Name]
	if old == nil || old.Kind != language.Object {
		return &UnknownTypeError{Name: ext.Name}
	}
	merged := astutil.CopyDefinition(old)
	for _, iface := range ext.Interfaces {
		for _, existing := range merged.Interfaces {
			if existing == iface {
				return &InterfaceRedeclarationError{Type: ext.Name, Interface: iface}
			}
		}
		merged.Interfaces = append(merged.Interfaces, iface)
	}
	for _, f := range ext.Fields {
		if merged.Fields.ForName(f.Name) != nil {
			return &FieldRedeclarationError{Type: ext.Name, Field: f.Name}
		}
		merged.Fields = append(merged.Fields, f)
	}
	for _, d := range ext.Directives {
		if merged.Directives.ForName(d.Name) == nil {
			merged.Directives = append(merged.Directives, d)
		}
	}
	c.types[ext.Name] = merged
	return nil
}

// AddQueryFields appends fields to the query root, creating it when missing.
func (c *Context) AddQueryFields(fields ...*language.FieldDefinition) error {
	return c.addRootFields(language.Query, fields)
}

func (c *Context) AddMutationFields(fields ...*language.FieldDefinition) error {
	return c.addRootFields(language.Mutation, fields)
}

func (c *Context) AddSubscriptionFields(fields ...*language.FieldDefinition) error {
	return c.addRootFields(language.Subscription, fields)
}

func (c *Context) addRootFields(op language.Operation, fields []*language.FieldDefinition) error {
	name, ok := c.OperationTypeName(op)
	if !ok {
		return &UnknownOperationError{Operation: op}
	}
	if !c.HasType(name) {
		c.PutType(astutil.Object(name))
	}
	return c.AddObjectExtension(astutil.Object(name, fields...))
}

func (c *Context) Query() *language.Definition        { return c.root(language.Query) }
func (c *Context) Mutation() *language.Definition     { return c.root(language.Mutation) }
func (c *Context) Subscription() *language.Definition { return c.root(language.Subscription) }

func (c *Context) root(op language.Operation) *language.Definition {
	name, ok := c.OperationTypeName(op)
	if !ok {
		return nil
	}
	return c.types[name]
}

// GetResource returns the resource registered under name.
func (c *Context) GetResource(name string) (Resource, bool) {
	r, ok := c.resources[name]
	return r, ok
}

// SetResource registers r under name, replacing any previous value.
func (c *Context) SetResource(name string, r Resource) {
	if _, ok := c.resources[name]; !ok {
		c.resourceOrder = append(c.resourceOrder, name)
	}
	c.resources[name] = r
}

// ResourceIDs returns resource ids in registration order.
func (c *Context) ResourceIDs() []string {
	return append([]string(nil), c.resourceOrder...)
}

// DirectiveDefinition returns a known directive declaration, from the input
// document or from a registered transformer.
func (c *Context) DirectiveDefinition(name string) *language.DirectiveDefinition {
	return c.directiveDefs[name]
}

func (c *Context) declareDirective(def *language.DirectiveDefinition) {
	if _, ok := c.directiveDefs[def.Name]; !ok {
		c.directiveDefs[def.Name] = def
	}
}

func (c *Context) declareSupport(def *language.Definition) {
	if _, ok := c.supportDefs[def.Name]; !ok {
		c.supportDefs[def.Name] = def
	}
}
