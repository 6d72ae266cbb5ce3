// Package schema is the executable view of a GraphQL schema: named types with
// resolved fields, possible types for abstract types and root operation types.
// It is built from the SDL a transform pass prints.
package schema

import (
	"slices"

	language "github.com/hanpama/gqltransform/internal/language"
)

type Schema struct {
	Description string

	// Root operation type names. Empty when the operation is not served.
	QueryType        string
	MutationType     string
	SubscriptionType string

	Types      map[string]*Type
	Directives map[string]*Directive
}

func NewSchema(description string) *Schema {
	return &Schema{
		Description: description,
		Types:       map[string]*Type{},
		Directives:  map[string]*Directive{},
	}
}

func (s *Schema) SetQueryType(name string) *Schema        { s.QueryType = name; return s }
func (s *Schema) SetMutationType(name string) *Schema     { s.MutationType = name; return s }
func (s *Schema) SetSubscriptionType(name string) *Schema { s.SubscriptionType = name; return s }

func (s *Schema) AddType(t *Type) *Schema           { s.Types[t.Name] = t; return s }
func (s *Schema) AddDirective(d *Directive) *Schema { s.Directives[d.Name] = d; return s }

// Root returns the root type of op, or nil when the schema does not serve it.
func (s *Schema) Root(op language.Operation) *Type {
	switch op {
	case language.Query:
		return s.Types[s.QueryType]
	case language.Mutation:
		return s.Types[s.MutationType]
	case language.Subscription:
		return s.Types[s.SubscriptionType]
	}
	return nil
}

// IsPossibleType reports whether the object type named objectType can stand
// in for the type named abstract. A type is always possible for itself.
func (s *Schema) IsPossibleType(abstract, objectType string) bool {
	if abstract == objectType {
		return true
	}
	t := s.Types[abstract]
	return t != nil && slices.Contains(t.PossibleTypes, objectType)
}
