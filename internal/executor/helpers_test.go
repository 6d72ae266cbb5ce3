package executor

import (
	"testing"

	language "github.com/hanpama/gqltransform/internal/language"
	schema "github.com/hanpama/gqltransform/internal/schema"
	"github.com/stretchr/testify/require"
)

func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(q)
	require.NoError(t, err)
	return doc
}

// newSchemaWithQueryType registers query as the query root next to the
// other types.
func newSchemaWithQueryType(query *schema.Type, types ...*schema.Type) *schema.Schema {
	sch := schema.NewSchema("").SetQueryType(query.Name).AddType(query)
	for _, t := range types {
		sch.AddType(t)
	}
	return sch
}

func newObjectType(name string, fields ...*schema.Field) *schema.Type {
	t := schema.NewType(name, schema.TypeKindObject, "")
	for _, f := range fields {
		t.AddField(f)
	}
	return t
}

func newScalarType(name string) *schema.Type { return schema.NewType(name, schema.TypeKindScalar, "") }
