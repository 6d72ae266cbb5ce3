package astutil

import language "github.com/hanpama/gqltransform/internal/language"

// StandardScalars are the scalars every GraphQL schema defines.
var StandardScalars = map[string]string{
	"String":  "String",
	"Int":     "Int",
	"Float":   "Float",
	"Boolean": "Boolean",
	"ID":      "ID",
}

// OtherScalars are widely used numeric aliases.
var OtherScalars = map[string]string{
	"BigInt": "Int",
	"Double": "Float",
}

// AWSScalars are the AppSync-defined scalars and the built-in each one filters as.
var AWSScalars = map[string]string{
	"AWSDate":      "String",
	"AWSTime":      "String",
	"AWSDateTime":  "String",
	"AWSTimestamp": "Int",
	"AWSEmail":     "String",
	"AWSJSON":      "String",
	"AWSURL":       "String",
	"AWSPhone":     "String",
	"AWSIPAddress": "String",
}

// DefaultScalars is the union of the three tables above.
var DefaultScalars = mergeScalars(StandardScalars, OtherScalars, AWSScalars)

func mergeScalars(tables ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}

// ScalarAlias maps a known scalar to the built-in it is filtered as.
func ScalarAlias(name string) (string, bool) {
	alias, ok := DefaultScalars[name]
	return alias, ok
}

// IsScalar reports whether the base type of t is a known scalar.
func IsScalar(t *language.Type) bool {
	_, ok := DefaultScalars[BaseTypeName(t)]
	return ok
}

// IsEnum reports whether the base type of t names an enum in lookup.
func IsEnum(t *language.Type, lookup func(string) *language.Definition) bool {
	def := lookup(BaseTypeName(t))
	return def != nil && def.Kind == language.Enum
}

// IsScalarOrEnum reports whether t is a known scalar or an enum found in lookup.
func IsScalarOrEnum(t *language.Type, lookup func(string) *language.Definition) bool {
	return IsScalar(t) || IsEnum(t, lookup)
}
