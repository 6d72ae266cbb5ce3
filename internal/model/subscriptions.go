package model

import (
	"slices"

	language "github.com/hanpama/gqltransform/internal/language"
	synth "github.com/hanpama/gqltransform/internal/synth"
)

// subscriptions adds fields watching the mutations generated for the type.
// Mutations are discovered through their resolver resources, so this must run
// after mutations.
func (g *generator) subscriptions() error {
	if _, ok := g.ctx.OperationTypeName(language.Subscription); !ok {
		return nil
	}
	sub := g.args.Subscriptions
	if sub.State == Null || sub.Level == "off" {
		return nil
	}
	typeName := g.typeName()
	create, hasCreate := g.ctx.GetResource(synth.CreateResolverID(typeName))
	update, hasUpdate := g.ctx.GetResource(synth.UpdateResolverID(typeName))
	del, hasDelete := g.ctx.GetResource(synth.DeleteResolverID(typeName))

	var fields []*language.FieldDefinition
	if sub.Explicit() {
		var order []string
		watched := map[string][]string{}
		for _, list := range [][]string{sub.OnCreate, sub.OnUpdate, sub.OnDelete} {
			for _, name := range list {
				if _, ok := watched[name]; !ok {
					watched[name] = []string{}
					order = append(order, name)
				}
			}
		}
		for _, name := range order {
			if hasCreate && slices.Contains(sub.OnCreate, name) {
				watched[name] = append(watched[name], create.FieldName)
			}
			if hasUpdate && slices.Contains(sub.OnUpdate, name) {
				watched[name] = append(watched[name], update.FieldName)
			}
			if hasDelete && slices.Contains(sub.OnDelete, name) {
				watched[name] = append(watched[name], del.FieldName)
			}
			fields = append(fields, synth.SubscriptionField(name, typeName, watched[name]))
		}
	} else {
		if hasCreate {
			fields = append(fields, synth.SubscriptionField(synth.OnCreateSubscriptionName(typeName), typeName, []string{create.FieldName}))
		}
		if hasUpdate {
			fields = append(fields, synth.SubscriptionField(synth.OnUpdateSubscriptionName(typeName), typeName, []string{update.FieldName}))
		}
		if hasDelete {
			fields = append(fields, synth.SubscriptionField(synth.OnDeleteSubscriptionName(typeName), typeName, []string{del.FieldName}))
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return g.ctx.AddSubscriptionFields(fields...)
}
