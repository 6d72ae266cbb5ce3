package introspection

import (
	language "github.com/hanpama/gqltransform/internal/language"
	schema "github.com/hanpama/gqltransform/internal/schema"
)

// Extend returns a copy of sch that also holds the given introspection types
// and exposes __schema and __type on its query type. sch is not modified.
func Extend(sch *schema.Schema, types []*schema.Type) *schema.Schema {
	extended := schema.NewSchema(sch.Description).
		SetQueryType(sch.QueryType).
		SetMutationType(sch.MutationType).
		SetSubscriptionType(sch.SubscriptionType)
	for _, t := range sch.Types {
		extended.AddType(t)
	}
	for _, d := range sch.Directives {
		extended.AddDirective(d)
	}
	for _, t := range types {
		extended.AddType(t)
	}

	query := sch.Root(language.Query)
	if query == nil {
		return extended
	}
	q := *query
	q.Fields = append(append([]*schema.Field(nil), query.Fields...),
		schema.NewField("__schema", "Access the current type schema of this server.",
			schema.NonNullType(schema.NamedType("__Schema"))),
		schema.NewField("__type", "Request the type information of a single type.",
			schema.NamedType("__Type")).
			AddArgument(schema.NewInputValue("name", "", schema.NonNullType(schema.NamedType("String")))),
	)
	extended.AddType(&q)
	return extended
}
