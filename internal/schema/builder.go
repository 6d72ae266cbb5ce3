package schema

import (
	"sort"
	"strings"

	language "github.com/hanpama/gqltransform/internal/language"
)

// BuildFromSDL validates the given SDL sources and returns the corresponding
// Schema. Extensions are merged into their base definitions.
func BuildFromSDL(sources ...*language.Source) (*Schema, error) {
	s, err := language.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return BuildFromAST(s), nil
}

// BuildFromAST converts a validated schema. Introspection types are left out;
// of the prelude only the standard scalars and directives are kept.
func BuildFromAST(src *language.Schema) *Schema {
	s := NewSchema(src.Description)
	if src.Query != nil {
		s.SetQueryType(src.Query.Name)
	}
	if src.Mutation != nil {
		s.SetMutationType(src.Mutation.Name)
	}
	if src.Subscription != nil {
		s.SetSubscriptionType(src.Subscription.Name)
	}
	addBuiltins(s, src)

	for name, def := range src.Types {
		if def.BuiltIn || strings.HasPrefix(name, "__") {
			continue
		}
		switch def.Kind {
		case language.Object:
			s.AddType(buildObject(def, TypeKindObject))
		case language.Interface:
			t := buildObject(def, TypeKindInterface)
			for _, impl := range src.PossibleTypes[name] {
				if impl.Kind == language.Object {
					t.AddPossibleType(impl.Name)
				}
			}
			sort.Strings(t.PossibleTypes)
			s.AddType(t)
		case language.Union:
			s.AddType(buildUnion(def))
		case language.Enum:
			s.AddType(buildEnum(def))
		case language.InputObject:
			s.AddType(buildInput(def))
		case language.Scalar:
			t := NewType(def.Name, TypeKindScalar, def.Description)
			if d := def.Directives.ForName("specifiedBy"); d != nil {
				if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
					t.SetSpecifiedByURL(arg.Value.Raw)
				}
			}
			s.AddType(t)
		}
	}
	for name, dir := range src.Directives {
		if _, builtin := s.Directives[name]; builtin || isPrelude(dir.Position) {
			continue
		}
		s.AddDirective(buildDirective(dir))
	}
	return s
}

// BuildIntrospectionTypes converts the introspection types (__Schema, __Type,
// ...) that the prelude of src declares, sorted by name.
func BuildIntrospectionTypes(src *language.Schema) []*Type {
	var out []*Type
	for name, def := range src.Types {
		if !strings.HasPrefix(name, "__") {
			continue
		}
		switch def.Kind {
		case language.Object:
			out = append(out, buildObject(def, TypeKindObject))
		case language.Enum:
			out = append(out, buildEnum(def))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func isPrelude(pos *language.Position) bool {
	return pos != nil && pos.Src != nil && pos.Src.BuiltIn
}

func buildObject(def *language.Definition, kind TypeKind) *Type {
	t := NewType(def.Name, kind, def.Description)
	for _, name := range def.Interfaces {
		t.AddInterface(name)
	}
	for _, fieldDef := range def.Fields {
		if strings.HasPrefix(fieldDef.Name, "__") {
			continue
		}
		t.AddField(buildField(fieldDef))
	}
	return t
}

func buildField(def *language.FieldDefinition) *Field {
	f := NewField(def.Name, def.Description, buildTypeRef(def.Type))
	if reason, ok := deprecation(def.Directives); ok {
		f.Deprecate(reason)
	}
	for _, arg := range def.Arguments {
		f.AddArgument(buildArgument(arg))
	}
	return f
}

func buildArgument(a *language.ArgumentDefinition) *InputValue {
	in := NewInputValue(a.Name, a.Description, buildTypeRef(a.Type)).SetDefault(defaultValue(a.DefaultValue))
	in.DefaultLiteral = literal(a.DefaultValue)
	if reason, ok := deprecation(a.Directives); ok {
		in.Deprecate(reason)
	}
	return in
}

func buildInputValue(def *language.FieldDefinition) *InputValue {
	in := NewInputValue(def.Name, def.Description, buildTypeRef(def.Type)).SetDefault(defaultValue(def.DefaultValue))
	in.DefaultLiteral = literal(def.DefaultValue)
	if reason, ok := deprecation(def.Directives); ok {
		in.Deprecate(reason)
	}
	return in
}

func buildEnum(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKindEnum, def.Description)
	for _, v := range def.EnumValues {
		e := NewEnumValue(v.Name, v.Description)
		if reason, ok := deprecation(v.Directives); ok {
			e.Deprecate(reason)
		}
		t.AddEnumValue(e)
	}
	return t
}

func buildInput(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKindInputObject, def.Description).
		SetOneOf(def.Directives.ForName("oneOf") != nil)
	for _, v := range def.Fields {
		t.AddInputField(buildInputValue(v))
	}
	return t
}

func buildUnion(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKindUnion, def.Description)
	for _, name := range def.Types {
		t.AddPossibleType(name)
	}
	return t
}

func buildDirective(dir *language.DirectiveDefinition) *Directive {
	d := NewDirective(dir.Name, dir.Description).SetRepeatable(dir.IsRepeatable)
	for _, loc := range dir.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range dir.Arguments {
		d.AddArgument(buildArgument(arg))
	}
	return d
}

func buildTypeRef(t *language.Type) *TypeRef {
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		return NonNullType(ref)
	}
	return ref
}

// defaultValue decodes a literal default. Defaults cannot reference
// variables, so decoding only fails on malformed numbers, which the parser
// already rejects.
func defaultValue(v *language.Value) any {
	if v == nil {
		return nil
	}
	out, _ := v.Value(nil)
	return out
}

func literal(v *language.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func deprecation(dirs language.DirectiveList) (string, bool) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return "", false
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return reason, true
}
