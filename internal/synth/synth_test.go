package synth

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type docLookup map[string]*language.Definition

func (l docLookup) GetType(name string) *language.Definition { return l[name] }

func mustLookup(t *testing.T, sdl string) docLookup {
	t.Helper()
	doc, err := language.ParseSchema("synth.graphql", sdl)
	require.NoError(t, err)
	l := docLookup{}
	for _, d := range doc.Definitions {
		l[d.Name] = d
	}
	return l
}

// fieldTypes renders an input object as name -> printed type for comparison.
func fieldTypes(def *language.Definition) [][2]string {
	out := make([][2]string, 0, len(def.Fields))
	for _, f := range def.Fields {
		out = append(out, [2]string{f.Name, f.Type.String()})
	}
	return out
}

const blogSDL = `
type Post @model {
  id: ID!
  title: String!
  tags: [String]
  status: Status
  labels: [Label!]
  location: Location
  author: User
}
type Location { lat: Float lng: Float address: Address }
type Address { street: String owner: Location }
type User @model { id: ID! }
enum Status { DRAFT PUBLISHED }
enum Label { NEWS TECH }
`

func TestNames(t *testing.T) {
	assert.Equal(t, "ModelPostConnection", ConnectionTypeName("Post"))
	assert.Equal(t, "ModelPostFilterInput", FilterInputTypeName("Post"))
	assert.Equal(t, "ModelIntFilterInput", FilterInputTypeName("AWSTimestamp"))
	assert.Equal(t, "ModelPostConditionInput", ConditionInputTypeName("Post"))
	assert.Equal(t, "ModelStringInput", ScalarFilterInputTypeName("AWSEmail", false))
	assert.Equal(t, "ModelFloatFilterInput", ScalarFilterInputTypeName("Double", true))
	assert.Equal(t, "ModelLabelListInput", ListFilterInputTypeName("Label", false))
	assert.Equal(t, "CreatePostInput", CreateInputTypeName("post"))
	assert.Equal(t, "onUpdatePost", OnUpdateSubscriptionName("Post"))
	assert.Equal(t, "listPosts", ListFieldName("Post"))
	assert.Equal(t, "listCategories", ListFieldName("Category"))
	assert.Equal(t, "listPeople", ListFieldName("Person"))
	assert.Equal(t, "listStatuses", ListFieldName("Status"))
	assert.Equal(t, "getPost", GetFieldName("Post"))
	assert.Equal(t, "DeletePostResolver", DeleteResolverID("Post"))
	assert.Equal(t, "createpost1", GraphQLName("create-post 1"))
	assert.Equal(t, "abc", GraphQLName("12abc"))
	assert.Equal(t, "", GraphQLName("  "))
}

func TestPlural(t *testing.T) {
	for word, want := range map[string]string{
		"Post":       "Posts",
		"BlogPost":   "BlogPosts",
		"Category":   "Categories",
		"Person":     "People",
		"Child":      "Children",
		"Status":     "Statuses",
		"PostStatus": "PostStatuses",
		"Equipment":  "Equipment",
		"todo":       "todos",
		"":           "",
	} {
		assert.Equal(t, want, Plural(word), word)
	}
}

func TestNonModelClosure(t *testing.T) {
	l := mustLookup(t, blogSDL)
	closure := NonModelClosure(l["Post"], l)

	names := make([]string, 0, len(closure))
	for _, d := range closure {
		names = append(names, d.Name)
	}
	// Address refers back to Location; the walk must terminate.
	assert.Equal(t, []string{"Location", "Address"}, names)
}

func TestCRUDInputs(t *testing.T) {
	l := mustLookup(t, blogSDL)
	post := l["Post"]
	closure := NonModelClosure(post, l)

	create := CreateInput(post, closure, l)
	assert.Equal(t, "CreatePostInput", create.Name)
	assert.Equal(t, language.InputObject, create.Kind)
	if diff := cmp.Diff([][2]string{
		{"id", "ID"},
		{"title", "String!"},
		{"tags", "[String]"},
		{"status", "Status"},
		{"labels", "[Label!]"},
		{"location", "LocationInput"},
	}, fieldTypes(create)); diff != "" {
		t.Errorf("create input mismatch (-want +got):\n%s", diff)
	}

	update := UpdateInput(post, closure, l, true)
	if diff := cmp.Diff([][2]string{
		{"id", "ID!"},
		{"title", "String"},
		{"tags", "[String]"},
		{"status", "Status"},
		{"labels", "[Label!]"},
		{"location", "LocationInput"},
		{"_version", "Int"},
	}, fieldTypes(update)); diff != "" {
		t.Errorf("update input mismatch (-want +got):\n%s", diff)
	}

	del := DeleteInput(post, false)
	assert.Equal(t, [][2]string{{"id", "ID"}}, fieldTypes(del))

	loc := NonModelInput(l["Location"], closure, l)
	assert.Equal(t, "LocationInput", loc.Name)
	assert.Equal(t, [][2]string{{"lat", "Float"}, {"lng", "Float"}, {"address", "AddressInput"}}, fieldTypes(loc))

	// the source object is untouched
	assert.Equal(t, "ID!", post.Fields.ForName("id").Type.String())
}

func TestScalarFilterInputs(t *testing.T) {
	withConditions := ScalarFilterInputs(true)
	require.Len(t, withConditions, 6)
	assert.Equal(t, "ModelStringInput", withConditions[0].Name)
	assert.Equal(t, SizeInputTypeName, withConditions[5].Name)
	assert.Equal(t, [][2]string{
		{"ne", "String"}, {"eq", "String"}, {"le", "String"}, {"lt", "String"},
		{"ge", "String"}, {"gt", "String"}, {"in", "[String]"}, {"notIn", "[String]"},
	}, fieldTypes(withConditions[0]))
	assert.Equal(t, "[Int]", withConditions[2].Fields.ForName("between").Type.String())
	assert.Len(t, withConditions[4].Fields, 2)

	without := ScalarFilterInputs(false)
	require.Len(t, without, 5)
	for _, d := range without {
		assert.Contains(t, d.Name, "FilterInput")
	}
}

func TestEnumFilterInputs(t *testing.T) {
	l := mustLookup(t, blogSDL)
	inputs := EnumFilterInputs(l["Post"], l, true)
	require.Len(t, inputs, 2)

	assert.Equal(t, "ModelStatusInput", inputs[0].Name)
	assert.Equal(t, [][2]string{{"eq", "Status"}, {"ne", "Status"}}, fieldTypes(inputs[0]))

	assert.Equal(t, "ModelLabelListInput", inputs[1].Name)
	assert.Equal(t, [][2]string{
		{"eq", "[Label]"}, {"ne", "[Label]"}, {"contains", "Label"}, {"notContains", "Label"},
	}, fieldTypes(inputs[1]))
}

func TestFilterAndConditionInputs(t *testing.T) {
	l := mustLookup(t, blogSDL)
	filter := FilterInput(l["Post"], l, true)
	if diff := cmp.Diff([][2]string{
		{"id", "ModelIDInput"},
		{"title", "ModelStringInput"},
		{"tags", "ModelStringInput"},
		{"status", "ModelStatusInput"},
		{"labels", "ModelLabelListInput"},
		{"_and", "[ModelPostFilterInput]"},
		{"_or", "[ModelPostFilterInput]"},
		{"_not", "ModelPostFilterInput"},
	}, fieldTypes(filter)); diff != "" {
		t.Errorf("filter input mismatch (-want +got):\n%s", diff)
	}

	cond := ConditionInput(l["Post"], l, false)
	assert.Equal(t, "ModelPostConditionInput", cond.Name)
	assert.Equal(t, "ModelIDFilterInput", cond.Fields.ForName("id").Type.String())
	assert.Equal(t, "ModelPostConditionInput", cond.Fields.ForName(NotField).Type.String())
}

func TestConnectionAndSubscription(t *testing.T) {
	conn := ConnectionType("Post", false)
	assert.Equal(t, [][2]string{{"items", "[Post]"}, {"nextToken", "String"}}, fieldTypes(conn))
	assert.Equal(t, "AWSTimestamp", ConnectionType("Post", true).Fields.ForName("startedAt").Type.String())

	f := ConnectionField("listPosts", "Post")
	assert.Equal(t, "ModelPostConnection", f.Type.String())
	require.Len(t, f.Arguments, 3)
	assert.Equal(t, "ModelPostFilterInput", f.Arguments.ForName("filter").Type.String())

	sub := SubscriptionField("onCreatePost", "Post", []string{"createPost"})
	d := sub.Directives.ForName(SubscribeDirective)
	require.NotNil(t, d)
	args, err := astutil.DirectiveArguments(d)
	require.NoError(t, err)
	assert.Equal(t, []any{"createPost"}, args["mutations"])

	assert.Equal(t, language.Enum, SortDirectionEnum().Kind)
}
