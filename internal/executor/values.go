package executor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	language "github.com/hanpama/gqltransform/internal/language"
	schema "github.com/hanpama/gqltransform/internal/schema"
)

// coerceVariableValues checks the supplied variables against the
// operation's definitions and fills in defaults.
func coerceVariableValues(sch *schema.Schema, op *language.OperationDefinition, input map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		val, ok := input[def.Variable]
		switch {
		case ok:
		case def.DefaultValue != nil:
			val = valueFromAST(def.DefaultValue, nil)
		case def.Type.NonNull:
			return nil, fmt.Errorf("variable $%s of required type %s was not provided", def.Variable, def.Type)
		default:
			continue
		}
		if val == nil && def.Type.NonNull {
			return nil, fmt.Errorf("variable $%s of type %s cannot be null", def.Variable, def.Type)
		}
		cv, err := coerceValue(sch, val, typeRef(def.Type))
		if err != nil {
			return nil, fmt.Errorf("variable $%s of type %s cannot be coerced: %v", def.Variable, def.Type, err)
		}
		out[def.Variable] = cv
	}
	return out, nil
}

// coerceArguments builds the argument map of a field. A variable that was
// not supplied counts as an absent argument.
func coerceArguments(sch *schema.Schema, field *schema.Field, args language.ArgumentList, vars map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(field.Arguments))
	for _, def := range field.Arguments {
		arg := args.ForName(def.Name)
		if arg != nil && arg.Value.Kind == language.Variable {
			if _, ok := vars[arg.Value.Raw]; !ok {
				arg = nil
			}
		}
		if arg == nil {
			if def.DefaultValue != nil {
				out[def.Name] = def.DefaultValue
			} else if schema.IsNonNull(def.Type) {
				return nil, fmt.Errorf("argument '%s' of required type was not provided", def.Name)
			}
			continue
		}
		cv, err := coerceValue(sch, valueFromAST(arg.Value, vars), def.Type)
		if err != nil {
			return nil, fmt.Errorf("argument '%s' cannot be coerced: %v", def.Name, err)
		}
		out[def.Name] = cv
	}
	return out, nil
}

// valueFromAST turns a literal into a Go value, replacing variables at any
// depth.
func valueFromAST(v *language.Value, vars map[string]any) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.Variable:
		return vars[v.Raw]
	case language.IntValue:
		n, _ := strconv.Atoi(v.Raw)
		return n
	case language.FloatValue:
		f, _ := strconv.ParseFloat(v.Raw, 64)
		return f
	case language.BooleanValue:
		return v.Raw == "true"
	case language.StringValue, language.BlockValue, language.EnumValue:
		return v.Raw
	case language.ListValue:
		list := make([]any, 0, len(v.Children))
		for _, c := range v.Children {
			list = append(list, valueFromAST(c.Value, vars))
		}
		return list
	case language.ObjectValue:
		obj := make(map[string]any, len(v.Children))
		for _, c := range v.Children {
			obj[c.Name] = valueFromAST(c.Value, vars)
		}
		return obj
	}
	return nil
}

func typeRef(t *language.Type) *schema.TypeRef {
	switch {
	case t == nil:
		return nil
	case t.NonNull:
		inner := *t
		inner.NonNull = false
		return schema.NonNullType(typeRef(&inner))
	case t.NamedType != "":
		return schema.NamedType(t.NamedType)
	case t.Elem != nil:
		return schema.ListType(typeRef(t.Elem))
	}
	return nil
}

// builtinCoercers accept the input representations of the built-in scalars.
var builtinCoercers = map[string]func(any) (any, error){
	"Int":     coerceInt,
	"Float":   coerceFloat,
	"String":  coerceString,
	"Boolean": coerceBoolean,
	"ID":      coerceID,
}

func coerceValue(sch *schema.Schema, value any, t *schema.TypeRef) (any, error) {
	if schema.IsNonNull(t) {
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type")
		}
		return coerceValue(sch, value, schema.Unwrap(t))
	}
	if value == nil {
		return nil, nil
	}
	if schema.IsList(t) {
		return coerceList(sch, value, schema.Unwrap(t))
	}

	name := schema.GetNamedType(t)
	if coerce, ok := builtinCoercers[name]; ok {
		return coerce(value)
	}
	named := sch.Types[name]
	switch {
	case named == nil:
		return value, nil
	case named.Kind == schema.TypeKindEnum:
		return coerceEnum(named, value)
	case named.Kind == schema.TypeKindInputObject:
		return coerceInputObject(sch, named, value)
	}
	// custom scalars pass through
	return value, nil
}

// coerceList wraps a single value into a list of one.
func coerceList(sch *schema.Schema, value any, item *schema.TypeRef) (any, error) {
	items, ok := value.([]any)
	if !ok {
		items = []any{value}
	}
	out := make([]any, len(items))
	for i, v := range items {
		cv, err := coerceValue(sch, v, item)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func coerceInputObject(sch *schema.Schema, t *schema.Type, value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected input object %s, got %T", t.Name, value)
	}
	for name := range m {
		if t.InputField(name) == nil {
			return nil, fmt.Errorf("field '%s' is not defined by type %s", name, t.Name)
		}
	}
	out := make(map[string]any, len(t.InputFields))
	for _, f := range t.InputFields {
		v, ok := m[f.Name]
		if !ok {
			if f.DefaultValue != nil {
				out[f.Name] = f.DefaultValue
			} else if schema.IsNonNull(f.Type) {
				return nil, fmt.Errorf("required field '%s' of type %s was not provided", f.Name, t.Name)
			}
			continue
		}
		cv, err := coerceValue(sch, v, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", f.Name, err)
		}
		out[f.Name] = cv
	}
	if t.OneOf && len(out) != 1 {
		return nil, fmt.Errorf("exactly one field of %s must be provided", t.Name)
	}
	return out, nil
}

func coerceEnum(t *schema.Type, value any) (any, error) {
	if s, ok := value.(string); ok {
		for _, v := range t.EnumValues {
			if v.Name == s {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("%v is not a value of enum %s", value, t.Name)
}

// number widens the numeric representations a decoder or a resolver may
// hand over. JSON numbers arrive as float64 or json.Number.
func number(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func coerceInt(value any) (any, error) {
	if f, ok := number(value); ok && f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return int(f), nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to int", value, value)
}

func coerceFloat(value any) (any, error) {
	if f, ok := number(value); ok {
		return f, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to float", value, value)
}

func coerceString(value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to string", value, value)
}

func coerceBoolean(value any) (any, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to boolean", value, value)
}

func coerceID(value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	if f, ok := number(value); ok && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to ID", value, value)
}
