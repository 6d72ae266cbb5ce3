package transform

import "context"

// ResourceKind tags what a Resource carries.
type ResourceKind string

const (
	ResolverKind ResourceKind = "type:resolver"
	ConfigKind   ResourceKind = "config:var"
)

// ResolveInfo describes the field being resolved.
type ResolveInfo struct {
	ParentType string
	FieldName  string
	Path       []any
}

type ResolveParams struct {
	Source any
	Args   map[string]any
	Info   ResolveInfo
}

// Resolver computes the value of one field.
type Resolver func(ctx context.Context, p ResolveParams) (any, error)

// ResolverMap groups resolvers by parent type name, then field name.
type ResolverMap map[string]map[string]Resolver

// Resource is a named artifact produced during transformation. Resolver
// resources end up in the output resolver map; other kinds only pass values
// between transformers.
type Resource struct {
	Kind      ResourceKind
	TypeName  string
	FieldName string
	Resolver  Resolver
	Value     any
}

// FieldResourceID is the resource id of the resolver bound to typeName.field.
func FieldResourceID(typeName, fieldName string) string {
	return typeName + "." + fieldName
}
