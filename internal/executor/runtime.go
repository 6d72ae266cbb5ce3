package executor

import (
	"context"

	language "github.com/hanpama/gqltransform/internal/language"
)

// Runtime defines the host integration surface for field resolution, abstract
// type resolution, and leaf-value serialization used by the Executor.
//
// General contract
//   - Fields are resolved depth-first in selection order. Root mutation fields
//     are therefore executed serially, as GraphQL requires.
//   - Errors returned from any method are converted into located GraphQL errors.
//     If the field's return type is Non-Null, the Executor will propagate the
//     null up to the nearest nullable ancestor.
//   - Implementations must not mutate source or args values.
//
// Abstract types and leaf values
//   - ResolveType must return the concrete type name for interface/union values.
//   - SerializeLeafValue must coerce/serialize scalars and enums into JSON-safe
//     Go values. For enums, return the enum name as string.
type Runtime interface {
	// ResolveField returns the raw value of one field, to be completed by the
	// Executor (including nested selection sets). Return (nil, nil) to produce
	// a GraphQL null for nullable fields.
	ResolveField(ctx context.Context, req FieldRequest) (any, error)

	// ResolveType determines the concrete runtime type name for a value of an
	// abstract GraphQL type (interface or union).
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue serializes a scalar or enum value to a JSON-safe Go
	// value according to the GraphQL schema and custom scalar mappings.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

// FieldRequest describes a single field resolution.
type FieldRequest struct {
	// Operation is the kind of the executing operation.
	Operation language.Operation
	// ObjectType is the parent GraphQL object type name for the field.
	ObjectType string
	// Field is the GraphQL field name to resolve.
	Field string
	// Source is the parent object value (the root value for root fields).
	Source any
	// Args are the field arguments, coerced to Go values per the schema.
	Args map[string]any
	// Path is the response path of the field.
	Path Path
}
