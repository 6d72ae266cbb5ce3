package astutil

import (
	"fmt"
	"sort"
	"strconv"

	language "github.com/hanpama/gqltransform/internal/language"
)

func Field(name string, args []*language.ArgumentDefinition, typ *language.Type, dirs ...*language.Directive) *language.FieldDefinition {
	return &language.FieldDefinition{
		Name:       name,
		Arguments:  args,
		Type:       typ,
		Directives: dirs,
	}
}

// InputValue builds an input object field. gqlparser models input fields as
// field definitions without arguments.
func InputValue(name string, typ *language.Type) *language.FieldDefinition {
	return &language.FieldDefinition{Name: name, Type: typ}
}

func ArgumentDef(name string, typ *language.Type) *language.ArgumentDefinition {
	return &language.ArgumentDefinition{Name: name, Type: typ}
}

func Object(name string, fields ...*language.FieldDefinition) *language.Definition {
	return &language.Definition{Kind: language.Object, Name: name, Fields: fields}
}

func InputObject(name string, fields ...*language.FieldDefinition) *language.Definition {
	return &language.Definition{Kind: language.InputObject, Name: name, Fields: fields}
}

func Enum(name string, values ...string) *language.Definition {
	def := &language.Definition{Kind: language.Enum, Name: name}
	for _, v := range values {
		def.EnumValues = append(def.EnumValues, &language.EnumValueDefinition{Name: v})
	}
	return def
}

func Scalar(name string) *language.Definition {
	return &language.Definition{Kind: language.Scalar, Name: name}
}

func Directive(name string, args ...*language.Argument) *language.Directive {
	return &language.Directive{Name: name, Arguments: args}
}

func Argument(name string, value *language.Value) *language.Argument {
	return &language.Argument{Name: name, Value: value}
}

// Value converts a plain Go value into an AST literal. Map keys are emitted in
// sorted order so printed output is stable.
func Value(v any) *language.Value {
	switch x := v.(type) {
	case nil:
		return &language.Value{Kind: language.NullValue, Raw: "null"}
	case *language.Value:
		return x
	case string:
		return &language.Value{Kind: language.StringValue, Raw: x}
	case bool:
		return &language.Value{Kind: language.BooleanValue, Raw: strconv.FormatBool(x)}
	case int:
		return &language.Value{Kind: language.IntValue, Raw: strconv.Itoa(x)}
	case int32:
		return &language.Value{Kind: language.IntValue, Raw: strconv.FormatInt(int64(x), 10)}
	case int64:
		return &language.Value{Kind: language.IntValue, Raw: strconv.FormatInt(x, 10)}
	case float32:
		return &language.Value{Kind: language.FloatValue, Raw: strconv.FormatFloat(float64(x), 'g', -1, 32)}
	case float64:
		return &language.Value{Kind: language.FloatValue, Raw: strconv.FormatFloat(x, 'g', -1, 64)}
	case []string:
		list := &language.Value{Kind: language.ListValue}
		for _, s := range x {
			list.Children = append(list.Children, &language.ChildValue{Value: Value(s)})
		}
		return list
	case []any:
		list := &language.Value{Kind: language.ListValue}
		for _, item := range x {
			list.Children = append(list.Children, &language.ChildValue{Value: Value(item)})
		}
		return list
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := &language.Value{Kind: language.ObjectValue}
		for _, k := range keys {
			obj.Children = append(obj.Children, &language.ChildValue{Name: k, Value: Value(x[k])})
		}
		return obj
	default:
		return &language.Value{Kind: language.StringValue, Raw: fmt.Sprint(x)}
	}
}

// CopyDefinition returns a shallow copy of def whose slices can be appended to
// or filtered without touching the original node.
func CopyDefinition(def *language.Definition) *language.Definition {
	if def == nil {
		return nil
	}
	c := *def
	c.Directives = append(language.DirectiveList(nil), def.Directives...)
	c.Interfaces = append([]string(nil), def.Interfaces...)
	c.Fields = append(language.FieldList(nil), def.Fields...)
	c.Types = append([]string(nil), def.Types...)
	c.EnumValues = append(language.EnumValueList(nil), def.EnumValues...)
	return &c
}
