package executor

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	language "github.com/hanpama/gqltransform/internal/language"
	schema "github.com/hanpama/gqltransform/internal/schema"
)

// Path is the response path of a value: field response names and list
// indices.
type Path []PathElement

type PathElement = any

func (p Path) with(elem PathElement) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = elem
	return out
}

// String renders the path as "posts[1].title".
func (p Path) String() string {
	var b strings.Builder
	for i, elem := range p {
		switch v := elem.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}

type Executor struct {
	runtime Runtime
	schema  *schema.Schema
}

func NewExecutor(runtime Runtime, schema *schema.Schema) *Executor {
	return &Executor{runtime: runtime, schema: schema}
}

// Schema returns the schema the executor runs against.
func (e *Executor) Schema() *schema.Schema { return e.schema }

// ExecuteRequest runs one operation of a validated document. Errors found
// before execution starts produce a result without data.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	op := document.Operations.ForName(operationName)
	if op == nil {
		return requestError("operation not found")
	}
	vars, err := coerceVariableValues(e.schema, op, variableValues)
	if err != nil {
		return requestError(err.Error())
	}
	root, err := e.rootType(op.Operation)
	if err != nil {
		return requestError(err.Error())
	}

	ex := &execution{
		ctx:    ctx,
		rt:     e.runtime,
		sch:    e.schema,
		doc:    document,
		op:     op,
		vars:   vars,
		errs:   []GraphQLError{},
		failed: map[string]bool{},
	}
	data, ok := ex.selectionSet(root, op.SelectionSet, initialValue, nil)
	if !ok {
		// a Non-Null root field was null
		return &ExecutionResult{Errors: ex.errs}
	}
	return &ExecutionResult{Data: data, Errors: ex.errs}
}

func (e *Executor) rootType(op language.Operation) (*schema.Type, error) {
	switch op {
	case language.Query, language.Mutation, language.Subscription:
	default:
		return nil, fmt.Errorf("unsupported operation type: %s", op)
	}
	root := e.schema.Root(op)
	if root == nil {
		return nil, fmt.Errorf("root type not found for %s operation", op)
	}
	return root, nil
}

func requestError(msg string) *ExecutionResult {
	return &ExecutionResult{Errors: []GraphQLError{{Message: msg}}}
}

// execution is the state of a single operation run. Fields are resolved one
// at a time in document order.
type execution struct {
	ctx  context.Context
	rt   Runtime
	sch  *schema.Schema
	doc  *language.QueryDocument
	op   *language.OperationDefinition
	vars map[string]any

	errs   []GraphQLError
	failed map[string]bool
}

func (ex *execution) fail(path Path, msg string) {
	ex.errs = append(ex.errs, GraphQLError{Message: msg, Path: path})
	ex.failed[path.String()] = true
}

// selectionSet runs the fields of set against source. ok is false when a
// Non-Null field came back null, so the caller nulls the whole object.
func (ex *execution) selectionSet(obj *schema.Type, set language.SelectionSet, source any, path Path) (data map[string]any, ok bool) {
	data = make(map[string]any)
	for _, group := range ex.collect(obj, set) {
		fieldPath := path.with(group.ResponseName)
		name := group.Fields[0].Name
		if name == "__typename" {
			data[group.ResponseName] = obj.Name
			continue
		}
		def := obj.Field(name)
		if def == nil {
			ex.fail(fieldPath, fmt.Sprintf("Cannot query field '%s' on type '%s'", name, obj.Name))
			continue
		}
		v := ex.field(obj, def, group.Fields, source, fieldPath)
		if v == nil && schema.IsNonNull(def.Type) {
			return nil, false
		}
		data[group.ResponseName] = v
	}
	return data, true
}

func (ex *execution) field(obj *schema.Type, def *schema.Field, nodes []*language.Field, source any, path Path) any {
	value, err := ex.resolve(obj, def, nodes[0], source, path)
	if err != nil {
		ex.fail(path, err.Error())
		value = nil
	}
	return ex.complete(def.Type, nodes, value, path)
}

func (ex *execution) resolve(obj *schema.Type, def *schema.Field, node *language.Field, source any, path Path) (any, error) {
	if err := ex.ctx.Err(); err != nil {
		return nil, err
	}
	args, err := coerceArguments(ex.sch, def, node.Arguments, ex.vars)
	if err != nil {
		return nil, err
	}
	return ex.rt.ResolveField(ex.ctx, FieldRequest{
		Operation:  ex.op.Operation,
		ObjectType: obj.Name,
		Field:      def.Name,
		Source:     source,
		Args:       args,
		Path:       path,
	})
}

// complete shapes a resolved value after its declared type. Every null it
// returns is an untyped nil.
func (ex *execution) complete(t *schema.TypeRef, nodes []*language.Field, value any, path Path) any {
	if schema.IsNonNull(t) {
		if isNullish(value) {
			if !ex.failed[path.String()] {
				ex.fail(path, "Cannot return null for non-nullable field "+path.String())
			}
			return nil
		}
		return ex.complete(schema.Unwrap(t), nodes, value, path)
	}
	if isNullish(value) {
		return nil
	}
	if schema.IsList(t) {
		return ex.completeList(schema.Unwrap(t), nodes, value, path)
	}

	name := schema.GetNamedType(t)
	named := ex.sch.Types[name]
	switch {
	case named == nil:
		ex.fail(path, "Unknown type: "+name)
		return nil
	case named.Kind.IsLeaf():
		out, err := ex.rt.SerializeLeafValue(ex.ctx, name, value)
		if err != nil {
			ex.fail(path, err.Error())
			return nil
		}
		if isNullish(out) {
			return nil
		}
		return out
	case named.Kind == schema.TypeKindObject:
		return ex.completeObject(named, nodes, value, path)
	case named.Kind.IsAbstract():
		return ex.completeAbstract(name, nodes, value, path)
	}
	ex.fail(path, fmt.Sprintf("Cannot complete value of unexpected type: %s", named.Kind))
	return nil
}

func (ex *execution) completeList(item *schema.TypeRef, nodes []*language.Field, value any, path Path) any {
	items, ok := value.([]any)
	if !ok {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			ex.fail(path, fmt.Sprintf("Expected list value, got %T", value))
			return nil
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	out := make([]any, len(items))
	for i := range items {
		v := ex.complete(item, nodes, items[i], path.with(i))
		if v == nil && schema.IsNonNull(item) {
			return nil
		}
		out[i] = v
	}
	return out
}

func (ex *execution) completeObject(obj *schema.Type, nodes []*language.Field, value any, path Path) any {
	var set language.SelectionSet
	for _, n := range nodes {
		set = append(set, n.SelectionSet...)
	}
	data, ok := ex.selectionSet(obj, set, value, path)
	if !ok {
		return nil
	}
	return data
}

func (ex *execution) completeAbstract(abstract string, nodes []*language.Field, value any, path Path) any {
	typeName, err := ex.rt.ResolveType(ex.ctx, abstract, value)
	if err != nil {
		ex.fail(path, err.Error())
		return nil
	}
	obj := ex.sch.Types[typeName]
	if obj == nil || obj.Kind != schema.TypeKindObject {
		ex.fail(path, fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime. Got: %s", abstract, typeName))
		return nil
	}
	if !ex.sch.IsPossibleType(abstract, typeName) {
		ex.fail(path, fmt.Sprintf("Runtime Object type %s is not a possible type for %s", typeName, abstract))
		return nil
	}
	return ex.completeObject(obj, nodes, value, path)
}

// isNullish reports nil and typed nil pointers, maps, slices and the like.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
