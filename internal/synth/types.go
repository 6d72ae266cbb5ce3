package synth

import (
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
)

func SortDirectionEnum() *language.Definition {
	return astutil.Enum(SortDirectionTypeName, "ASC", "DESC")
}

// ConnectionType builds the paginated wrapper returned by list queries.
func ConnectionType(typeName string, sync bool) *language.Definition {
	conn := astutil.Object(ConnectionTypeName(typeName),
		astutil.Field("items", nil, astutil.List(astutil.Named(typeName))),
		astutil.Field("nextToken", nil, astutil.Named("String")),
	)
	if sync {
		conn.Fields = append(conn.Fields, astutil.Field("startedAt", nil, astutil.Named(TimestampScalar)))
	}
	return conn
}

func ConnectionField(fieldName, typeName string) *language.FieldDefinition {
	return astutil.Field(fieldName, []*language.ArgumentDefinition{
		astutil.ArgumentDef("filter", astutil.Named(FilterInputTypeName(typeName))),
		astutil.ArgumentDef("limit", astutil.Named("Int")),
		astutil.ArgumentDef("nextToken", astutil.Named("String")),
	}, astutil.Named(ConnectionTypeName(typeName)))
}

// SubscriptionField builds a subscription root field bound to mutations.
func SubscriptionField(fieldName, typeName string, mutations []string) *language.FieldDefinition {
	return astutil.Field(fieldName, nil, astutil.Named(typeName),
		astutil.Directive(SubscribeDirective, astutil.Argument("mutations", astutil.Value(mutations))),
	)
}
