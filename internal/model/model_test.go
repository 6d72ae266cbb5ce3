package model

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
	transform "github.com/hanpama/gqltransform/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(result string) transform.Resolver {
	return func(context.Context, transform.ResolveParams) (any, error) { return result, nil }
}

func fullService(prefix string) Service {
	return Service{
		Get:    named(prefix + ".get"),
		List:   named(prefix + ".list"),
		Create: named(prefix + ".create"),
		Update: named(prefix + ".update"),
		Delete: named(prefix + ".delete"),
	}
}

type result struct {
	out   *transform.Output
	types map[string]*language.Definition
}

func (r result) fields(typeName string) []string {
	def := r.types[typeName]
	if def == nil {
		return nil
	}
	var names []string
	for _, f := range def.Fields {
		names = append(names, f.Name)
	}
	return names
}

func (r result) fieldType(typeName, field string) string {
	def := r.types[typeName]
	if def == nil {
		return ""
	}
	f := def.Fields.ForName(field)
	if f == nil {
		return ""
	}
	return f.Type.String()
}

func (r result) call(t *testing.T, typeName, field string) any {
	t.Helper()
	fn := r.out.Resolvers[typeName][field]
	require.NotNil(t, fn, "%s.%s", typeName, field)
	v, err := fn(context.Background(), transform.ResolveParams{})
	require.NoError(t, err)
	return v
}

func run(t *testing.T, services Services, sdl string, opts []Option, topts ...transform.Option) (result, error) {
	t.Helper()
	tr, err := transform.New([]transform.Transformer{New(services, opts...)}, topts...)
	require.NoError(t, err)
	out, err := tr.Run(context.Background(), transform.Input{TypeDefs: []string{sdl}})
	if err != nil {
		return result{}, err
	}
	doc, err := language.ParseSchema("out.graphql", out.TypeDefs)
	require.NoError(t, err, out.TypeDefs)
	types := map[string]*language.Definition{}
	for _, d := range doc.Definitions {
		types[d.Name] = d
	}
	return result{out: out, types: types}, nil
}

func mustRun(t *testing.T, services Services, sdl string, opts []Option, topts ...transform.Option) result {
	t.Helper()
	r, err := run(t, services, sdl, opts, topts...)
	require.NoError(t, err)
	return r
}

const postSDL = `
type Post @model {
  id: ID!
  title: String!
  status: Status
}
enum Status { DRAFT PUBLISHED }
`

func TestFullModel(t *testing.T) {
	r := mustRun(t, Services{"Post": fullService("post")}, postSDL, nil)

	assert.Equal(t, []string{"getPost", "listPosts"}, r.fields("Query"))
	assert.Equal(t, []string{"createPost", "updatePost", "deletePost"}, r.fields("Mutation"))
	assert.Equal(t, []string{"onCreatePost", "onUpdatePost", "onDeletePost"}, r.fields("Subscription"))

	assert.Equal(t, "Post", r.fieldType("Query", "getPost"))
	assert.Equal(t, "ModelPostConnection", r.fieldType("Query", "listPosts"))
	assert.Equal(t, "ID!", r.types["Query"].Fields.ForName("getPost").Arguments.ForName("id").Type.String())

	create := r.types["Mutation"].Fields.ForName("createPost")
	require.Len(t, create.Arguments, 2)
	assert.Equal(t, "CreatePostInput!", create.Arguments.ForName("input").Type.String())
	assert.Equal(t, "ModelPostConditionInput", create.Arguments.ForName("condition").Type.String())

	for _, name := range []string{
		"ModelSortDirection", "ModelPostConnection", "ModelStringInput", "ModelIDInput",
		"ModelIntInput", "ModelFloatInput", "ModelBooleanInput", "ModelSizeInput",
		"ModelStatusInput", "ModelPostFilterInput", "ModelPostConditionInput",
		"CreatePostInput", "UpdatePostInput", "DeletePostInput",
	} {
		assert.Contains(t, r.types, name)
	}

	assert.Equal(t, "post.get", r.call(t, "Query", "getPost"))
	assert.Equal(t, "post.list", r.call(t, "Query", "listPosts"))
	assert.Equal(t, "post.create", r.call(t, "Mutation", "createPost"))
	assert.Equal(t, "post.update", r.call(t, "Mutation", "updatePost"))
	assert.Equal(t, "post.delete", r.call(t, "Mutation", "deletePost"))
	assert.NotContains(t, r.out.TypeDefs, "@model")
	assert.NotContains(t, r.out.TypeDefs, "@aws_subscribe")
}

func TestPreservedModelDirectiveLoads(t *testing.T) {
	r := mustRun(t, Services{"Post": fullService("post")}, `
type Post @model(queries: {get: "post"}, subscriptions: {level: public}) { id: ID! title: String }
`, nil, transform.WithPreservedDirectives("model"))

	for _, name := range []string{"ModelQueryMap", "ModelMutationMap", "ModelSubscriptionMap", "ModelSubscriptionLevel"} {
		assert.Contains(t, r.types, name)
	}
	require.Len(t, r.types["Post"].Directives, 1)
	assert.Equal(t, "model", r.types["Post"].Directives[0].Name)

	_, err := language.LoadSchema(&language.Source{Name: "out.graphql", Input: r.out.TypeDefs})
	require.NoError(t, err, r.out.TypeDefs)
}

func TestMissingResolverKind(t *testing.T) {
	svc := fullService("post")
	svc.Update = nil
	svc.Get = nil
	r := mustRun(t, Services{"Post": svc}, postSDL, nil)

	assert.Equal(t, []string{"listPosts"}, r.fields("Query"))
	assert.Equal(t, []string{"createPost", "deletePost"}, r.fields("Mutation"))
	assert.Equal(t, []string{"onCreatePost", "onDeletePost"}, r.fields("Subscription"))
	assert.NotContains(t, r.types, "UpdatePostInput")
	assert.NotContains(t, r.out.Resolvers["Mutation"], "updatePost")
	assert.NotContains(t, r.out.Resolvers["Query"], "getPost")
}

func TestQueryAndMutationOverrides(t *testing.T) {
	r := mustRun(t, Services{"Post": fullService("post")}, `
type Post @model(queries: null, mutations: { create: "addPost" }) { id: ID! title: String }
`, nil, transform.WithPreservedDirectives("aws_subscribe"))

	assert.NotContains(t, r.types, "Query")
	assert.NotContains(t, r.types, "ModelPostFilterInput")
	assert.NotContains(t, r.types, "ModelSortDirection")
	assert.Equal(t, []string{"addPost"}, r.fields("Mutation"))
	assert.Equal(t, "post.create", r.call(t, "Mutation", "addPost"))
	assert.Contains(t, r.types, "ModelPostConditionInput")

	assert.Equal(t, []string{"onCreatePost"}, r.fields("Subscription"))
	d := r.types["Subscription"].Fields.ForName("onCreatePost").Directives.ForName("aws_subscribe")
	require.NotNil(t, d)
	args, err := astutil.DirectiveArguments(d)
	require.NoError(t, err)
	assert.Equal(t, []any{"addPost"}, args["mutations"])
}

func TestSubscriptionsOff(t *testing.T) {
	for _, arg := range []string{`subscriptions: null`, `subscriptions: { level: off }`} {
		t.Run(arg, func(t *testing.T) {
			r := mustRun(t, Services{"Post": fullService("post")}, `type Post @model(`+arg+`) { id: ID! }`, nil)
			assert.NotContains(t, r.types, "Subscription")
			assert.Len(t, r.fields("Mutation"), 3)
		})
	}
}

func TestExplicitSubscriptions(t *testing.T) {
	svc := fullService("post")
	svc.Delete = nil
	r := mustRun(t, Services{"Post": svc}, `
type Post @model(subscriptions: {
  onCreate: ["onPostChanged", "onFeed"]
  onUpdate: ["onPostChanged"]
  onDelete: ["onPostRemoved"]
}) { id: ID! }
`, nil, transform.WithPreservedDirectives("aws_subscribe"))

	assert.Equal(t, []string{"onPostChanged", "onFeed", "onPostRemoved"}, r.fields("Subscription"))

	watched := map[string]any{}
	for _, f := range r.types["Subscription"].Fields {
		args, err := astutil.DirectiveArguments(f.Directives.ForName("aws_subscribe"))
		require.NoError(t, err)
		watched[f.Name] = args["mutations"]
	}
	want := map[string]any{
		"onPostChanged": []any{"createPost", "updatePost"},
		"onFeed":        []any{"createPost"},
		"onPostRemoved": []any{},
	}
	if diff := cmp.Diff(want, watched, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("subscription mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptySubscriptionList(t *testing.T) {
	for _, arg := range []string{`onCreate: []`, `onDelete: [], level: public`} {
		t.Run(arg, func(t *testing.T) {
			r := mustRun(t, Services{"Post": fullService("post")}, `type Post @model(subscriptions: {`+arg+`}) { id: ID! }`, nil)
			assert.NotContains(t, r.types, "Subscription")
			assert.Len(t, r.fields("Mutation"), 3)
		})
	}

	r := mustRun(t, Services{"Post": fullService("post")}, `type Post @model(subscriptions: {onCreate: null}) { id: ID! }`, nil)
	assert.Equal(t, []string{"onCreatePost", "onUpdatePost", "onDeletePost"}, r.fields("Subscription"))
}

func TestConditionInputID(t *testing.T) {
	r := mustRun(t, Services{"Post": fullService("post")}, postSDL, nil)
	assert.Equal(t, []string{"title", "status", "_and", "_or", "_not"}, r.fields("ModelPostConditionInput"))
	assert.Equal(t, []string{"id", "title", "status", "_and", "_or", "_not"}, r.fields("ModelPostFilterInput"))

	keyed := mustRun(t, Services{"Post": fullService("post")}, `
type Post @model @key(fields: ["id"]) { id: ID! title: String }
`, nil)
	assert.Equal(t, []string{"id", "title", "_and", "_or", "_not"}, keyed.fields("ModelPostConditionInput"))
}

func TestModelNameAndErrors(t *testing.T) {
	r := mustRun(t, Services{"posts": fullService("posts")}, `type Post @model(modelName: "posts") { id: ID! }`, nil)
	assert.Equal(t, "posts.get", r.call(t, "Query", "getPost"))

	_, err := run(t, Services{"Post": fullService("post")}, `type Article @model { id: ID! }`, nil)
	var notFound *ModelNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Article", notFound.Model)

	_, err = run(t, Services{"Post": {}}, `type Post @model { id: ID! }`, nil)
	var none *NoResolversError
	require.ErrorAs(t, err, &none)

	_, err = run(t, Services{"Post": fullService("post")}, `type Post @model(queries: "all") { id: ID! }`, nil)
	var invalid *transform.InvalidDirectiveError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Post", invalid.Definition)
}

func TestNonModelInputs(t *testing.T) {
	r := mustRun(t, Services{"Post": fullService("post"), "User": fullService("user")}, `
type Post @model {
  id: ID!
  location: Location!
  author: User
}
type Location { lat: Float lng: Float }
type User @model(queries: null, mutations: null, subscriptions: null) { id: ID! }
`, nil)

	assert.Contains(t, r.types, "LocationInput")
	assert.Equal(t, "LocationInput!", r.fieldType("CreatePostInput", "location"))
	assert.Equal(t, "LocationInput", r.fieldType("UpdatePostInput", "location"))
	assert.Equal(t, []string{"id", "location"}, r.fields("CreatePostInput"))
	assert.NotContains(t, r.types, "UserInput")
}

func TestSharedTypesAcrossModels(t *testing.T) {
	r := mustRun(t, Services{
		"Post":    fullService("post"),
		"Comment": fullService("comment"),
	}, `
type Post @model { id: ID! status: Status }
type Comment @model { id: ID! status: Status }
enum Status { OPEN CLOSED }
`, nil)

	assert.Equal(t, []string{"getPost", "listPosts", "getComment", "listComments"}, r.fields("Query"))
	assert.Contains(t, r.types, "ModelStatusInput")
	assert.Equal(t, "comment.list", r.call(t, "Query", "listComments"))
}

func TestSyncAndConditionOptions(t *testing.T) {
	r := mustRun(t, Services{"Post": fullService("post")}, postSDL, []Option{WithSync()})
	assert.Equal(t, "Int", r.fieldType("UpdatePostInput", "_version"))
	assert.Equal(t, "Int", r.fieldType("DeletePostInput", "_version"))
	assert.Equal(t, "AWSTimestamp", r.fieldType("ModelPostConnection", "startedAt"))
	require.Contains(t, r.types, "AWSTimestamp")
	assert.Equal(t, language.Scalar, r.types["AWSTimestamp"].Kind)

	plain := mustRun(t, Services{"Post": fullService("post")}, postSDL, []Option{WithoutConditions()})
	assert.NotContains(t, plain.types, "ModelPostConditionInput")
	assert.NotContains(t, plain.types, "ModelSizeInput")
	assert.Contains(t, plain.types, "ModelStringFilterInput")
	assert.Equal(t, "ModelStatusFilterInput", plain.fieldType("ModelPostFilterInput", "status"))
	assert.Len(t, plain.types["Mutation"].Fields.ForName("createPost").Arguments, 1)
}

func TestExplicitSchemaWithoutMutation(t *testing.T) {
	r := mustRun(t, Services{"Post": fullService("post")}, `
schema { query: Query }
type Query { version: String }
type Post @model { id: ID! }
`, nil)
	assert.Equal(t, []string{"version", "getPost", "listPosts"}, r.fields("Query"))
	assert.NotContains(t, r.types, "Mutation")
	assert.NotContains(t, r.types, "Subscription")
	assert.NotContains(t, r.types, "CreatePostInput")
}

func TestSubscriptionsReadMutationResources(t *testing.T) {
	sdl := `type Post @model { id: ID! }`
	doc, err := language.ParseSchema("t.graphql", sdl)
	require.NoError(t, err)

	newGenerator := func() *generator {
		ctx, err := transform.NewContext(doc)
		require.NoError(t, err)
		def := ctx.GetType("Post")
		return &generator{ctx: ctx, def: def, svc: fullService("post"), opts: options{conditions: true}}
	}

	g := newGenerator()
	require.NoError(t, g.subscriptions())
	require.NoError(t, g.mutations())
	assert.Nil(t, g.ctx.Subscription())

	g = newGenerator()
	require.NoError(t, g.mutations())
	require.NoError(t, g.subscriptions())
	require.NotNil(t, g.ctx.Subscription())
	assert.Len(t, g.ctx.Subscription().Fields, 3)
}

func TestOverrideResolve(t *testing.T) {
	tests := []struct {
		name     string
		o        Override
		wantName string
		wantOK   bool
	}{
		{"absent", Override{State: Absent}, "getPost", true},
		{"null", Override{State: Null}, "", false},
		{"named", Override{State: Set, Names: map[string]string{"get": "post"}}, "post", true},
		{"omitted", Override{State: Set, Names: map[string]string{"list": "posts"}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := tt.o.Resolve("get", "getPost")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDeclared(t *testing.T) {
	doc, err := language.ParseSchema("models.graphql", `
type Post @model { id: ID! }
type Plain { id: ID! }
type Note @model(modelName: "Memo") { id: ID! }
extend type Tag @model { id: ID! }
type Again @model(modelName: "Post") { id: ID! }
`)
	require.NoError(t, err)
	names, err := Declared(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Post", "Memo", "Tag"}, names)

	doc, err = language.ParseSchema("bad.graphql", `type Post @model(modelName: 1) { id: ID! }`)
	require.NoError(t, err)
	_, err = Declared(doc)
	var invalid *transform.InvalidDirectiveError
	assert.ErrorAs(t, err, &invalid)
}
