package executable

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	executor "github.com/hanpama/gqltransform/internal/executor"
	schema "github.com/hanpama/gqltransform/internal/schema"
	transform "github.com/hanpama/gqltransform/internal/transform"
)

// runtime adapts a resolver map to executor.Runtime.
type runtime struct {
	schema    *schema.Schema
	resolvers transform.ResolverMap
}

var _ executor.Runtime = (*runtime)(nil)

func (r *runtime) ResolveField(ctx context.Context, req executor.FieldRequest) (any, error) {
	if fn := r.resolvers[req.ObjectType][req.Field]; fn != nil {
		return fn(ctx, transform.ResolveParams{
			Source: req.Source,
			Args:   req.Args,
			Info: transform.ResolveInfo{
				ParentType: req.ObjectType,
				FieldName:  req.Field,
				Path:       []any(req.Path),
			},
		})
	}
	return project(req.Source, req.Field), nil
}

// ResolveType reads the __typename key of a map, or the type name of a
// struct value.
func (r *runtime) ResolveType(_ context.Context, abstractType string, value any) (string, error) {
	if m, ok := value.(map[string]any); ok {
		if name, ok := m["__typename"].(string); ok && name != "" {
			return name, nil
		}
		return "", fmt.Errorf("cannot resolve concrete type of %s: value has no __typename", abstractType)
	}
	rv := reflect.Indirect(reflect.ValueOf(value))
	if rv.Kind() == reflect.Struct {
		if name := rv.Type().Name(); r.schema.Types[name] != nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("cannot resolve concrete type of %s from %T", abstractType, value)
}

func (r *runtime) SerializeLeafValue(_ context.Context, typeName string, value any) (any, error) {
	switch typeName {
	case "Int":
		return serializeInt(value)
	case "Float":
		return serializeFloat(value)
	case "String", "ID":
		return serializeString(value)
	case "Boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent %v (%T)", value, value)
	}
	t := r.schema.Types[typeName]
	if t != nil && t.Kind == schema.TypeKindEnum {
		name := fmt.Sprint(value)
		for _, v := range t.EnumValues {
			if v.Name == name {
				return name, nil
			}
		}
		return nil, fmt.Errorf("Enum %s cannot represent %v", typeName, value)
	}
	return value, nil
}

// project reads field from a map key or an exported struct field. Struct
// fields match by json tag first, then case-insensitively by name.
func project(source any, field string) any {
	if source == nil {
		return nil
	}
	if m, ok := source.(map[string]any); ok {
		return m[field]
	}
	rv := reflect.Indirect(reflect.ValueOf(source))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tag == field {
			return rv.Field(i).Interface()
		}
	}
	if sf, ok := rt.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, field) }); ok && sf.IsExported() {
		return rv.FieldByIndex(sf.Index).Interface()
	}
	return nil
}

func serializeInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return nil, fmt.Errorf("Int cannot represent %v (%T)", value, value)
}

func serializeFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return nil, fmt.Errorf("Float cannot represent %v (%T)", value, value)
}

func serializeString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case int, int32, int64, float64, bool:
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("String cannot represent %v (%T)", value, value)
}
