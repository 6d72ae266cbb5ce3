package model

import (
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
	synth "github.com/hanpama/gqltransform/internal/synth"
	transform "github.com/hanpama/gqltransform/internal/transform"
)

// queries adds get<Type> and list<Types> to the query root.
func (g *generator) queries() error {
	rootType, ok := g.ctx.OperationTypeName(language.Query)
	if !ok {
		return nil
	}
	typeName := g.typeName()

	getName, makeGet := g.args.Queries.Resolve("get", synth.GetFieldName(typeName))
	makeGet = makeGet && g.svc.Get != nil
	listName, makeList := g.args.Queries.Resolve("list", synth.ListFieldName(typeName))
	makeList = makeList && g.svc.List != nil

	var fields []*language.FieldDefinition
	if makeGet {
		g.ctx.SetResource(synth.GetResolverID(typeName), transform.Resource{
			Kind:      transform.ResolverKind,
			TypeName:  rootType,
			FieldName: getName,
			Resolver:  g.svc.Get,
		})
		fields = append(fields, astutil.Field(getName, []*language.ArgumentDefinition{
			astutil.ArgumentDef("id", astutil.NonNull(astutil.Named("ID"))),
		}, astutil.Named(typeName)))
	}
	if makeList {
		ensureType(g.ctx, synth.SortDirectionEnum())
		if err := g.connectionType(); err != nil {
			return err
		}
		g.ctx.SetResource(synth.ListResolverID(typeName), transform.Resource{
			Kind:      transform.ResolverKind,
			TypeName:  rootType,
			FieldName: listName,
			Resolver:  g.svc.List,
		})
		fields = append(fields, synth.ConnectionField(listName, typeName))
		g.filterInputs()
	}
	if len(fields) == 0 {
		return nil
	}
	return g.ctx.AddQueryFields(fields...)
}

// connectionType adds Model<Type>Connection as an empty object extended with
// its fields.
func (g *generator) connectionType() error {
	name := synth.ConnectionTypeName(g.typeName())
	if g.ctx.HasType(name) {
		return nil
	}
	if g.opts.sync {
		ensureType(g.ctx, astutil.Scalar(synth.TimestampScalar))
	}
	if err := g.ctx.AddType(astutil.Object(name)); err != nil {
		return err
	}
	return g.ctx.AddObjectExtension(synth.ConnectionType(g.typeName(), g.opts.sync))
}

func (g *generator) scalarAndEnumFilters() {
	for _, in := range synth.ScalarFilterInputs(g.opts.conditions) {
		ensureType(g.ctx, in)
	}
	for _, in := range synth.EnumFilterInputs(g.def, g.ctx, g.opts.conditions) {
		ensureType(g.ctx, in)
	}
}

func (g *generator) filterInputs() {
	g.scalarAndEnumFilters()
	ensureType(g.ctx, synth.FilterInput(g.def, g.ctx, g.opts.conditions))
}

func (g *generator) conditionInputs() {
	g.scalarAndEnumFilters()
	if g.opts.conditions {
		ensureType(g.ctx, synth.ConditionInput(g.def, g.ctx, g.opts.conditions))
	}
}

// patchConditionInput removes id from Model<Type>ConditionInput unless the
// type declares its own keys with @key.
func (g *generator) patchConditionInput() {
	if !g.opts.conditions {
		return
	}
	in := g.ctx.GetType(synth.ConditionInputTypeName(g.typeName()))
	if in == nil || astutil.HasDirective(g.def.Directives, synth.KeyDirective) {
		return
	}
	if in.Fields.ForName("id") == nil {
		return
	}
	patched := astutil.CopyDefinition(in)
	patched.Fields = patched.Fields[:0]
	for _, f := range in.Fields {
		if f.Name != "id" {
			patched.Fields = append(patched.Fields, f)
		}
	}
	g.ctx.PutType(patched)
}
