// Package executor implements a depth-first GraphQL executor with explicit
// runtime hooks for field resolution, abstract-type resolution, and leaf
// serialization.
//
// # Preparation
//
// Before execution, the executor:
//  1. Chooses the operation (by name or by uniqueness when unnamed). The
//     document is assumed to be validated against the schema by the caller.
//  2. Coerces variables from the provided input against operation variable
//     definitions, producing a variableValues map. Errors here stop execution.
//  3. Determines the root object type from the operation
//     (Query/Mutation/Subscription) and collects the root selection set.
//
// # Execution Model
//
// Fields are collected per selection set (merging fragments and fields with
// the same response name, honouring @skip and @include, and matching fragment
// type conditions against interfaces and unions through their possible types)
// and executed in document order. Each field:
//
//   - coerces its arguments against the field definition, applying defaults;
//   - calls Runtime.ResolveField with the parent value, arguments and path;
//   - completes the returned value against its declared type.
//
// Completion follows the GraphQL rules:
//   - Non-Null: complete the inner type. A null result records a located error
//     and propagates null to the nearest nullable ancestor. When no such
//     ancestor exists the response data is null.
//   - List: complete each element with index-aware paths. A null element for a
//     Non-Null inner type nullifies the entire list value.
//   - Leaf (Scalar/Enum): defer to Runtime.SerializeLeafValue.
//   - Abstract (Interface/Union): defer to Runtime.ResolveType, check the
//     result against the schema's possible types, then complete as an object.
//   - Object: collect and execute the merged sub-selections.
//
// # Errors and Partial Success
//
// Errors are accumulated as located GraphQL errors (message + path). For a
// nullable field, a resolver error sets the field to null and execution
// continues with its siblings.
package executor
