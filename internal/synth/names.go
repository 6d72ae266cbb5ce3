// Package synth builds the AST fragments that @model expansion adds to a
// schema: CRUD inputs, filter and condition inputs, connections and
// subscription fields, all named by fixed conventions.
package synth

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
)

const (
	ModelDirective        = "model"
	KeyDirective          = "key"
	SubscribeDirective    = "aws_subscribe"
	SortDirectionTypeName = "ModelSortDirection"
	SizeInputTypeName     = "ModelSizeInput"
	TimestampScalar       = "AWSTimestamp"

	AndField = "_and"
	OrField  = "_or"
	NotField = "_not"

	VersionField = "_version"
)

// TypeLookup resolves a type name against the schema being built.
type TypeLookup interface {
	GetType(name string) *language.Definition
}

var invalidNameChars = regexp.MustCompile(`^[^_A-Za-z]+|[^_0-9A-Za-z]`)

// GraphQLName drops characters that cannot appear in a GraphQL name.
func GraphQLName(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return invalidNameChars.ReplaceAllString(s, "")
}

// Plural returns the English plural of word. Inflection rules match lower
// case suffixes, so the word is inflected in lower case and the letters it
// shares with the result keep their original case.
func Plural(word string) string {
	if strings.TrimSpace(word) == "" {
		return ""
	}
	lower := strings.ToLower(word)
	plural := inflect.Pluralize(lower)
	n := 0
	for n < len(lower) && n < len(plural) && lower[n] == plural[n] {
		n++
	}
	return word[:n] + plural[n:]
}

func toUpper(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func aliased(name string) string {
	if alias, ok := astutil.ScalarAlias(name); ok {
		return alias
	}
	return name
}

func filterWord(includeFilter bool) string {
	if includeFilter {
		return "Filter"
	}
	return ""
}

func ConnectionTypeName(typeName string) string { return "Model" + typeName + "Connection" }

func FilterInputTypeName(name string) string { return "Model" + aliased(name) + "FilterInput" }

func ConditionInputTypeName(name string) string { return "Model" + aliased(name) + "ConditionInput" }

// ScalarFilterInputTypeName names the per-scalar (or per-enum) filter input.
// Schemas that support conditions drop the "Filter" word so the same input
// serves filters and conditions.
func ScalarFilterInputTypeName(name string, includeFilter bool) string {
	return "Model" + aliased(name) + filterWord(includeFilter) + "Input"
}

func ListFilterInputTypeName(name string, includeFilter bool) string {
	return "Model" + aliased(name) + "List" + filterWord(includeFilter) + "Input"
}

func CreateInputTypeName(typeName string) string {
	return GraphQLName("Create" + toUpper(typeName) + "Input")
}

func UpdateInputTypeName(typeName string) string {
	return GraphQLName("Update" + toUpper(typeName) + "Input")
}

func DeleteInputTypeName(typeName string) string {
	return GraphQLName("Delete" + toUpper(typeName) + "Input")
}

func NonModelInputTypeName(typeName string) string {
	return GraphQLName(toUpper(typeName) + "Input")
}

func OnCreateSubscriptionName(typeName string) string {
	return GraphQLName("onCreate" + toUpper(typeName))
}

func OnUpdateSubscriptionName(typeName string) string {
	return GraphQLName("onUpdate" + toUpper(typeName))
}

func OnDeleteSubscriptionName(typeName string) string {
	return GraphQLName("onDelete" + toUpper(typeName))
}

func GetFieldName(typeName string) string    { return GraphQLName("get" + toUpper(typeName)) }
func ListFieldName(typeName string) string   { return GraphQLName("list" + Plural(toUpper(typeName))) }
func CreateFieldName(typeName string) string { return GraphQLName("create" + toUpper(typeName)) }
func UpdateFieldName(typeName string) string { return GraphQLName("update" + toUpper(typeName)) }
func DeleteFieldName(typeName string) string { return GraphQLName("delete" + toUpper(typeName)) }

// Resource ids under which generated resolver bindings are registered.
func CreateResolverID(typeName string) string { return "Create" + typeName + "Resolver" }
func UpdateResolverID(typeName string) string { return "Update" + typeName + "Resolver" }
func DeleteResolverID(typeName string) string { return "Delete" + typeName + "Resolver" }
func GetResolverID(typeName string) string    { return "Get" + typeName + "Resolver" }
func ListResolverID(typeName string) string   { return "List" + typeName + "Resolver" }
