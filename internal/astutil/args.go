package astutil

import (
	"fmt"

	language "github.com/hanpama/gqltransform/internal/language"
)

// DirectiveArguments decodes the literal arguments of d into native values.
// An argument written as null is present with a nil value; an argument that
// was not written is absent from the map.
func DirectiveArguments(d *language.Directive) (map[string]any, error) {
	out := make(map[string]any, len(d.Arguments))
	for _, arg := range d.Arguments {
		v, err := arg.Value.Value(nil)
		if err != nil {
			return nil, fmt.Errorf("@%s(%s:): %w", d.Name, arg.Name, err)
		}
		out[arg.Name] = v
	}
	return out, nil
}

// StringArgument returns the string value of a directive argument.
func StringArgument(d *language.Directive, name string) (string, bool) {
	arg := d.Arguments.ForName(name)
	if arg == nil || arg.Value == nil || arg.Value.Kind == language.NullValue {
		return "", false
	}
	v, err := arg.Value.Value(nil)
	if err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// HasDirective reports whether list contains a directive named name.
func HasDirective(list language.DirectiveList, name string) bool {
	return list.ForName(name) != nil
}
