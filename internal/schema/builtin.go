package schema

import language "github.com/hanpama/gqltransform/internal/language"

var builtinScalars = []string{"String", "Int", "Float", "Boolean", "ID"}

// builtinDirectives are the prelude directives a schema exposes. @defer is
// left out since the executor never streams.
var builtinDirectives = []string{"include", "skip", "deprecated", "specifiedBy", "oneOf"}

// addBuiltins copies the standard scalars and directives from the prelude
// src was loaded with.
func addBuiltins(s *Schema, src *language.Schema) {
	for _, name := range builtinScalars {
		description := ""
		if def := src.Types[name]; def != nil {
			description = def.Description
		}
		s.AddType(NewType(name, TypeKindScalar, description))
	}
	for _, name := range builtinDirectives {
		if dir := src.Directives[name]; dir != nil {
			s.AddDirective(buildDirective(dir))
		}
	}
}
