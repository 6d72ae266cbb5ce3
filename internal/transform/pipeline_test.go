package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	eventbus "github.com/hanpama/gqltransform/internal/eventbus"
	events "github.com/hanpama/gqltransform/internal/events"
	language "github.com/hanpama/gqltransform/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookTransformer struct {
	Base
	hooks Hooks
}

func (h *hookTransformer) Hooks() Hooks { return h.hooks }

// recording returns a transformer that appends "<name>:<directive>@<target>"
// to log for every directive it sees.
func recording(name, sdl string, log *[]string) *hookTransformer {
	return &hookTransformer{
		Base: NewBase(name, sdl),
		hooks: Hooks{
			Object: func(_ *Context, def *language.Definition, d *language.Directive) error {
				*log = append(*log, name+":"+d.Name+"@"+def.Name)
				return nil
			},
			Field: func(_ *Context, parent *language.Definition, f *language.FieldDefinition, d *language.Directive) error {
				*log = append(*log, name+":"+d.Name+"@"+parent.Name+"."+f.Name)
				return nil
			},
			Schema: func(_ *Context, _ *language.SchemaDefinition, d *language.Directive) error {
				*log = append(*log, name+":"+d.Name+"@schema")
				return nil
			},
		},
	}
}

func parseOutput(t *testing.T, out *Output) *language.SchemaDocument {
	t.Helper()
	doc, err := language.ParseSchema("out.graphql", out.TypeDefs)
	require.NoError(t, err, out.TypeDefs)
	return doc
}

func definitionNames(doc *language.SchemaDocument) []string {
	var names []string
	for _, d := range doc.Definitions {
		names = append(names, d.Name)
	}
	return names
}

func TestDispatchOrder(t *testing.T) {
	var log []string
	first := recording("first", `
directive @a on OBJECT | FIELD_DEFINITION | SCHEMA
directive @b on OBJECT | FIELD_DEFINITION`, &log)
	second := recording("second", `directive @c on OBJECT | FIELD_DEFINITION`, &log)

	tr, err := New([]Transformer{first, second})
	require.NoError(t, err)

	_, err = tr.Run(context.Background(), Input{TypeDefs: []string{`
schema @a { query: Query }
type Query { ping: String @c @b }
type Post @c @b @a { id: ID! @a @unknown }
`, `extend type Post @b @c { title: String @b }`}})
	require.NoError(t, err)

	want := []string{
		"first:a@schema",
		"first:b@Query.ping",
		"first:b@Post",
		"first:a@Post",
		"first:a@Post.id",
		"first:b@Post.title",
		"second:c@Query.ping",
		"second:c@Post",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateDirective(t *testing.T) {
	var log []string
	_, err := New([]Transformer{
		recording("one", `directive @a on OBJECT`, &log),
		recording("two", `directive @a on OBJECT`, &log),
	})
	var dup *DuplicateDirectiveError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Directive)
	assert.Equal(t, "one", dup.First)
	assert.Equal(t, "two", dup.Second)
}

func TestInvalidDirective(t *testing.T) {
	fieldOnly := &hookTransformer{
		Base: NewBase("fieldOnly", `directive @f on OBJECT | FIELD_DEFINITION`),
		hooks: Hooks{
			Field: func(*Context, *language.Definition, *language.FieldDefinition, *language.Directive) error { return nil },
		},
	}
	var log []string
	objectOnly := recording("objectOnly", `directive @o on OBJECT`, &log)

	tests := []struct {
		name string
		tr   Transformer
		sdl  string
		kind string
		def  string
	}{
		{"missing hook", fieldOnly, `type Post @f { id: ID }`, "object", "Post"},
		{"location not declared", objectOnly, `type Post { id: ID @o }`, "field", "Post.id"},
		{"interface", objectOnly, `interface Node @o { id: ID }`, "interface", "Node"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New([]Transformer{tt.tr})
			require.NoError(t, err)
			_, err = tr.Run(context.Background(), Input{TypeDefs: []string{tt.sdl}})
			var invalid *InvalidDirectiveError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.kind, invalid.Kind)
			assert.Equal(t, tt.def, invalid.Definition)
		})
	}
}

func TestHookErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	failing := &hookTransformer{
		Base: NewBase("failing", `directive @x on OBJECT`),
		hooks: Hooks{Object: func(*Context, *language.Definition, *language.Directive) error {
			calls++
			return boom
		}},
	}
	tr, err := New([]Transformer{failing})
	require.NoError(t, err)
	out, err := tr.Run(context.Background(), Input{TypeDefs: []string{`type A @x { id: ID } type B @x { id: ID }`}})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, out)
	assert.Equal(t, 1, calls)
}

func TestRunParseError(t *testing.T) {
	tr, err := New(nil)
	require.NoError(t, err)
	_, err = tr.Run(context.Background(), Input{TypeDefs: []string{`type {`}})
	var perr *language.Error
	require.ErrorAs(t, err, &perr)
}

func TestRunCancelled(t *testing.T) {
	var log []string
	tr, err := New([]Transformer{recording("r", `directive @a on OBJECT`, &log)})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.Run(ctx, Input{TypeDefs: []string{`type A @a { id: ID }`}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, log)
}

func TestFormatDropsEmptyRootsAndDirectives(t *testing.T) {
	adder := &hookTransformer{
		Base: NewBase("adder", `directive @expose on OBJECT`),
		hooks: Hooks{Object: func(c *Context, def *language.Definition, _ *language.Directive) error {
			return c.AddQueryFields(astutil.Field("all"+def.Name, nil, astutil.List(astutil.Named(def.Name))))
		}},
	}
	tr, err := New([]Transformer{adder})
	require.NoError(t, err)

	out, err := tr.Run(context.Background(), Input{TypeDefs: []string{`
type Post @expose @cache(ttl: 10) {
  id: ID! @deprecated(reason: "no")
  body(format: String @lower): String
}
type Mutation { noop: Boolean }
type Subscription
enum Color { RED @internal }
`}})
	require.NoError(t, err)

	doc := parseOutput(t, out)
	assert.Equal(t, []string{"Post", "Mutation", "Color", "Query"}, definitionNames(doc))
	require.Len(t, doc.Schema, 1)
	var ops []string
	for _, ot := range doc.Schema[0].OperationTypes {
		ops = append(ops, string(ot.Operation)+":"+ot.Type)
	}
	assert.Equal(t, []string{"query:Query", "mutation:Mutation"}, ops)

	assert.NotContains(t, out.TypeDefs, "@")
	assert.Empty(t, out.Resolvers)
}

func TestFormatPreservesDirectives(t *testing.T) {
	tr, err := New(nil, WithPreservedDirectives("aws_subscribe"))
	require.NoError(t, err)
	out, err := tr.Run(context.Background(), Input{TypeDefs: []string{`
directive @aws_subscribe(mutations: [String]) on FIELD_DEFINITION
type Post { id: ID! }
type Query { post: Post @cache }
type Subscription { onPost: Post @aws_subscribe(mutations: ["createPost"]) @cache }
`}})
	require.NoError(t, err)

	doc := parseOutput(t, out)
	require.NotNil(t, doc.Directives.ForName("aws_subscribe"))
	var sub *language.Definition
	for _, d := range doc.Definitions {
		if d.Name == "Subscription" {
			sub = d
		}
	}
	require.NotNil(t, sub)
	dirs := sub.Fields.ForName("onPost").Directives
	require.Len(t, dirs, 1)
	assert.Equal(t, "aws_subscribe", dirs[0].Name)
	assert.NotContains(t, out.TypeDefs, "@cache")
}

func TestFormatPrintsTypesOfPreservedDirectives(t *testing.T) {
	tag := &hookTransformer{
		Base: NewBase("TagTransformer", `
directive @tag(options: TagOptions) on OBJECT
input TagOptions { kind: TagKind, labels: [String!] }
enum TagKind { A B }
input Unused { n: Int }
`),
		hooks: Hooks{Object: func(*Context, *language.Definition, *language.Directive) error { return nil }},
	}
	tr, err := New([]Transformer{tag}, WithPreservedDirectives("tag"))
	require.NoError(t, err)
	out, err := tr.Run(context.Background(), Input{TypeDefs: []string{`
type Post @tag(options: {kind: A}) { id: ID! }
type Query { post: Post }
`}})
	require.NoError(t, err)

	doc := parseOutput(t, out)
	assert.Equal(t, []string{"Post", "Query", "TagOptions", "TagKind"}, definitionNames(doc))
	_, err = language.LoadSchema(&language.Source{Name: "out.graphql", Input: out.TypeDefs})
	require.NoError(t, err, out.TypeDefs)
}

func TestResolverResources(t *testing.T) {
	hello := func(context.Context, ResolveParams) (any, error) { return "hello", nil }
	tr, err := New(nil)
	require.NoError(t, err)

	out, err := tr.Run(context.Background(), Input{
		TypeDefs:  []string{`type Query { hello: String }`},
		Resolvers: ResolverMap{"Query": {"hello": hello}},
	})
	require.NoError(t, err)
	require.Contains(t, out.Resolvers, "Query")
	v, err := out.Resolvers["Query"]["hello"](context.Background(), ResolveParams{})
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestMissingResolver(t *testing.T) {
	c := newTestContext(t, `type Query { a: String b: String }`)
	c.SetResource("config:x", Resource{Kind: ConfigKind, Value: 1})
	c.SetResource("Query.a", Resource{Kind: ResolverKind, TypeName: "Query", FieldName: "a"})

	_, err := Format(c, nil)
	var missing *MissingResolverError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Query.a", missing.Resource)
}

func TestTransformEvents(t *testing.T) {
	bus := eventbus.New()
	eventbus.Use(bus)
	defer eventbus.Use(nil)

	var applied []events.DirectiveApplied
	var finished []events.TransformFinish
	eventbus.Subscribe(func(_ context.Context, e events.DirectiveApplied) { applied = append(applied, e) })
	eventbus.Subscribe(func(_ context.Context, e events.TransformFinish) { finished = append(finished, e) })

	var log []string
	tr, err := New([]Transformer{recording("r", `directive @a on OBJECT`, &log)})
	require.NoError(t, err)
	_, err = tr.Run(context.Background(), Input{TypeDefs: []string{`type A @a { id: ID } type Query { a: A }`}})
	require.NoError(t, err)

	require.Len(t, applied, 1)
	assert.Equal(t, "r", applied[0].Transformer)
	assert.Equal(t, "A", applied[0].Parent)
	require.Len(t, finished, 1)
	assert.NoError(t, finished[0].Err)
	assert.Equal(t, 2, finished[0].Types)
}
