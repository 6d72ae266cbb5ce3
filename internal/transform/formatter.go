package transform

import (
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
)

// Format prints the context as SDL and collects its resolver resources.
//
// Root types without fields are dropped and the schema definition is rebuilt
// from the ones that remain. Directives are stripped everywhere except those
// named in preserve, whose declarations are printed when known together with
// the transformer types their arguments refer to.
func Format(c *Context, preserve []string) (*Output, error) {
	resolvers, err := collectResolvers(c)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(preserve))
	for _, name := range preserve {
		keep[name] = true
	}

	dropped := map[string]bool{}
	var ops []*language.OperationTypeDef
	for _, op := range operations {
		name, ok := c.OperationTypeName(op)
		if !ok {
			continue
		}
		def := c.GetType(name)
		if def == nil || len(def.Fields) == 0 {
			dropped[name] = true
			continue
		}
		ops = append(ops, &language.OperationTypeDef{Operation: op, Type: name})
	}

	doc := &language.SchemaDocument{}
	for _, name := range preserve {
		if def := c.DirectiveDefinition(name); def != nil {
			doc.Directives = append(doc.Directives, def)
		}
	}
	if len(ops) > 0 {
		doc.Schema = append(doc.Schema, &language.SchemaDefinition{
			Directives:     stripDirectives(c.SchemaDefinition().Directives, keep),
			OperationTypes: ops,
		})
	}
	for _, def := range c.Types() {
		if dropped[def.Name] {
			continue
		}
		doc.Definitions = append(doc.Definitions, stripDefinition(def, keep))
	}
	for _, def := range supportTypes(c, doc.Directives) {
		doc.Definitions = append(doc.Definitions, stripDefinition(def, keep))
	}

	return &Output{
		TypeDefs:  language.PrintSchema(doc),
		Resolvers: resolvers,
		Document:  doc,
	}, nil
}

// supportTypes returns the transformer-declared types reachable from the
// arguments of dirs that the context does not define itself, in first-use
// order.
func supportTypes(c *Context, dirs language.DirectiveDefList) []*language.Definition {
	var out []*language.Definition
	seen := map[string]bool{}
	var visit func(t *language.Type)
	visit = func(t *language.Type) {
		name := astutil.BaseTypeName(t)
		if seen[name] || c.HasType(name) {
			return
		}
		seen[name] = true
		def, ok := c.supportDefs[name]
		if !ok {
			return
		}
		out = append(out, def)
		for _, f := range def.Fields {
			visit(f.Type)
		}
	}
	for _, d := range dirs {
		for _, arg := range d.Arguments {
			visit(arg.Type)
		}
	}
	return out
}

func collectResolvers(c *Context) (ResolverMap, error) {
	out := ResolverMap{}
	for _, id := range c.ResourceIDs() {
		r, _ := c.GetResource(id)
		if r.Kind != ResolverKind {
			continue
		}
		if r.Resolver == nil {
			return nil, &MissingResolverError{Resource: id}
		}
		fields := out[r.TypeName]
		if fields == nil {
			fields = map[string]Resolver{}
			out[r.TypeName] = fields
		}
		fields[r.FieldName] = r.Resolver
	}
	return out, nil
}

func stripDirectives(list language.DirectiveList, keep map[string]bool) language.DirectiveList {
	var out language.DirectiveList
	for _, d := range list {
		if keep[d.Name] {
			out = append(out, d)
		}
	}
	return out
}

func stripDefinition(def *language.Definition, keep map[string]bool) *language.Definition {
	c := *def
	c.Directives = stripDirectives(def.Directives, keep)
	c.Fields = nil
	for _, f := range def.Fields {
		fc := *f
		fc.Directives = stripDirectives(f.Directives, keep)
		fc.Arguments = nil
		for _, a := range f.Arguments {
			ac := *a
			ac.Directives = stripDirectives(a.Directives, keep)
			fc.Arguments = append(fc.Arguments, &ac)
		}
		c.Fields = append(c.Fields, &fc)
	}
	c.EnumValues = nil
	for _, v := range def.EnumValues {
		vc := *v
		vc.Directives = stripDirectives(v.Directives, keep)
		c.EnumValues = append(c.EnumValues, &vc)
	}
	return &c
}
