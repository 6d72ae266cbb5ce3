package model

import (
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
	synth "github.com/hanpama/gqltransform/internal/synth"
	transform "github.com/hanpama/gqltransform/internal/transform"
)

type mutation struct {
	op         string
	fieldName  func(string) string
	resourceID func(string) string
	input      func(g *generator) *language.Definition
	resolver   func(s Service) transform.Resolver
}

var mutations = []mutation{
	{
		op:         "create",
		fieldName:  synth.CreateFieldName,
		resourceID: synth.CreateResolverID,
		input: func(g *generator) *language.Definition {
			return synth.CreateInput(g.def, g.closure, g.ctx)
		},
		resolver: func(s Service) transform.Resolver { return s.Create },
	},
	{
		op:         "update",
		fieldName:  synth.UpdateFieldName,
		resourceID: synth.UpdateResolverID,
		input: func(g *generator) *language.Definition {
			return synth.UpdateInput(g.def, g.closure, g.ctx, g.opts.sync)
		},
		resolver: func(s Service) transform.Resolver { return s.Update },
	},
	{
		op:         "delete",
		fieldName:  synth.DeleteFieldName,
		resourceID: synth.DeleteResolverID,
		input: func(g *generator) *language.Definition {
			return synth.DeleteInput(g.def, g.opts.sync)
		},
		resolver: func(s Service) transform.Resolver { return s.Delete },
	},
}

// mutations adds create, update and delete fields to the mutation root and
// registers their resolvers for subscription generation to find.
func (g *generator) mutations() error {
	rootType, ok := g.ctx.OperationTypeName(language.Mutation)
	if !ok {
		return nil
	}
	typeName := g.typeName()

	var fields []*language.FieldDefinition
	for _, m := range mutations {
		resolver := m.resolver(g.svc)
		name, enabled := g.args.Mutations.Resolve(m.op, m.fieldName(typeName))
		if !enabled || resolver == nil {
			continue
		}
		input := m.input(g)
		ensureType(g.ctx, input)

		args := []*language.ArgumentDefinition{
			astutil.ArgumentDef("input", astutil.NonNull(astutil.Named(input.Name))),
		}
		if g.opts.conditions {
			args = append(args, astutil.ArgumentDef("condition", astutil.Named(synth.ConditionInputTypeName(typeName))))
		}
		fields = append(fields, astutil.Field(name, args, astutil.Named(typeName)))

		g.ctx.SetResource(m.resourceID(typeName), transform.Resource{
			Kind:      transform.ResolverKind,
			TypeName:  rootType,
			FieldName: name,
			Resolver:  resolver,
		})
	}
	if len(fields) == 0 {
		return nil
	}
	if err := g.ctx.AddMutationFields(fields...); err != nil {
		return err
	}
	g.conditionInputs()
	return nil
}
