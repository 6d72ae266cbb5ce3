package language

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchemasKeepsSourceOrder(t *testing.T) {
	doc, err := ParseSchemas(
		&Source{Name: "a.graphql", Input: `type A { id: ID }`},
		&Source{Name: "b.graphql", Input: `type B { id: ID } extend type A { name: String }`},
	)
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 2)
	assert.Equal(t, "A", doc.Definitions[0].Name)
	assert.Equal(t, "B", doc.Definitions[1].Name)
	require.Len(t, doc.Extensions, 1)
	assert.Equal(t, "A", doc.Extensions[0].Name)
}

func TestParseSchemaError(t *testing.T) {
	_, err := ParseSchema("broken.graphql", `type A {`)
	require.Error(t, err)
	var gqlErr *Error
	require.True(t, errors.As(err, &gqlErr))
	assert.NotEmpty(t, gqlErr.Message)
}

func TestPrintSchemaRoundTrip(t *testing.T) {
	src := `
schema { query: Query }
type Query { hello(name: String = "x"): String }
enum Color { RED GREEN }
input Filter { eq: String in: [String] }
`
	doc, err := ParseSchema("in.graphql", src)
	require.NoError(t, err)

	printed := PrintSchema(doc)
	again, err := ParseSchema("out.graphql", printed)
	require.NoError(t, err)

	require.Len(t, again.Schema, 1)
	require.Len(t, again.Schema[0].OperationTypes, 1)
	assert.Equal(t, Query, again.Schema[0].OperationTypes[0].Operation)
	assert.Equal(t, "Query", again.Schema[0].OperationTypes[0].Type)
	require.Len(t, again.Definitions, 3)
	assert.Equal(t, "hello", again.Definitions.ForName("Query").Fields[0].Name)
	assert.Len(t, again.Definitions.ForName("Color").EnumValues, 2)
	assert.Equal(t, "[String]", again.Definitions.ForName("Filter").Fields.ForName("in").Type.String())
}

func TestLoadSchemaMergesExtensions(t *testing.T) {
	s, err := LoadSchema(
		&Source{Name: "a.graphql", Input: `type Query { a: String }`},
		&Source{Name: "b.graphql", Input: `extend type Query { b: Int }`},
	)
	require.NoError(t, err)
	require.NotNil(t, s.Query)
	assert.NotNil(t, s.Query.Fields.ForName("a"))
	assert.NotNil(t, s.Query.Fields.ForName("b"))

	_, err = LoadSchema(&Source{Input: `type Query { a: Missing }`})
	var gqlErr *Error
	require.ErrorAs(t, err, &gqlErr)
}

func TestLoadQueryValidates(t *testing.T) {
	s, err := LoadSchema(&Source{Input: `type Query { a: String }`})
	require.NoError(t, err)

	doc, errs := LoadQuery(s, `{ a }`)
	require.Empty(t, errs)
	require.Len(t, doc.Operations, 1)

	_, errs = LoadQuery(s, `{ b }`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `"b"`)
}
