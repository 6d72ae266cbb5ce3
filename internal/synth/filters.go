package synth

import (
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
)

var (
	stringConditions  = []string{"ne", "eq", "le", "lt", "ge", "gt", "in", "notIn"}
	numericConditions = []string{"ne", "eq", "le", "lt", "ge", "gt", "between"}
	booleanConditions = []string{"ne", "eq"}
	sizeConditions    = []string{"ne", "eq", "le", "lt", "ge", "gt", "between"}
)

// scalarConditions lists, in declaration order, the built-in scalars that get
// their own filter input.
var scalarConditions = []struct {
	name       string
	conditions []string
}{
	{"String", stringConditions},
	{"ID", stringConditions},
	{"Int", numericConditions},
	{"Float", numericConditions},
	{"Boolean", booleanConditions},
}

func isListCondition(c string) bool {
	return c == "in" || c == "notIn" || c == "between"
}

func conditionFields(scalar string, conditions []string) []*language.FieldDefinition {
	fields := make([]*language.FieldDefinition, 0, len(conditions))
	for _, c := range conditions {
		typ := astutil.Named(scalar)
		if isListCondition(c) {
			typ = astutil.List(typ)
		}
		fields = append(fields, astutil.InputValue(c, typ))
	}
	return fields
}

// ScalarFilterInputs returns one filter input per built-in scalar, plus
// ModelSizeInput when conditions are supported.
func ScalarFilterInputs(supportsConditions bool) []*language.Definition {
	var out []*language.Definition
	for _, sc := range scalarConditions {
		name := ScalarFilterInputTypeName(sc.name, !supportsConditions)
		out = append(out, astutil.InputObject(name, conditionFields(sc.name, sc.conditions)...))
	}
	if supportsConditions {
		out = append(out, SizeInput())
	}
	return out
}

func SizeInput() *language.Definition {
	return astutil.InputObject(SizeInputTypeName, conditionFields("Int", sizeConditions)...)
}

// EnumFilterInputs returns a filter input for every enum-typed field of def.
// List fields get a Model<Enum>List input that also offers contains and
// notContains. The same enum may appear more than once.
func EnumFilterInputs(def *language.Definition, lookup TypeLookup, supportsConditions bool) []*language.Definition {
	var out []*language.Definition
	for _, f := range def.Fields {
		if !astutil.IsEnum(f.Type, lookup.GetType) {
			continue
		}
		out = append(out, EnumFilterInput(astutil.BaseTypeName(f.Type), astutil.IsList(f.Type), supportsConditions))
	}
	return out
}

func EnumFilterInput(enum string, list bool, supportsConditions bool) *language.Definition {
	if !list {
		return astutil.InputObject(ScalarFilterInputTypeName(enum, !supportsConditions),
			astutil.InputValue("eq", astutil.Named(enum)),
			astutil.InputValue("ne", astutil.Named(enum)),
		)
	}
	return astutil.InputObject(ListFilterInputTypeName(enum, !supportsConditions),
		astutil.InputValue("eq", astutil.List(astutil.Named(enum))),
		astutil.InputValue("ne", astutil.List(astutil.Named(enum))),
		astutil.InputValue("contains", astutil.Named(enum)),
		astutil.InputValue("notContains", astutil.Named(enum)),
	)
}

// FilterInput builds Model<Type>FilterInput for list queries.
func FilterInput(def *language.Definition, lookup TypeLookup, supportsConditions bool) *language.Definition {
	return modelFilter(FilterInputTypeName(def.Name), def, lookup, supportsConditions)
}

// ConditionInput builds Model<Type>ConditionInput for conditional mutations.
func ConditionInput(def *language.Definition, lookup TypeLookup, supportsConditions bool) *language.Definition {
	return modelFilter(ConditionInputTypeName(def.Name), def, lookup, supportsConditions)
}

func modelFilter(name string, def *language.Definition, lookup TypeLookup, supportsConditions bool) *language.Definition {
	in := astutil.InputObject(name)
	for _, f := range def.Fields {
		if !astutil.IsScalarOrEnum(f.Type, lookup.GetType) {
			continue
		}
		base := astutil.BaseTypeName(f.Type)
		filterType := ScalarFilterInputTypeName(base, !supportsConditions)
		if astutil.IsEnum(f.Type, lookup.GetType) && astutil.IsList(f.Type) {
			filterType = ListFilterInputTypeName(base, !supportsConditions)
		}
		in.Fields = append(in.Fields, astutil.InputValue(f.Name, astutil.Named(filterType)))
	}
	in.Fields = append(in.Fields,
		astutil.InputValue(AndField, astutil.List(astutil.Named(name))),
		astutil.InputValue(OrField, astutil.List(astutil.Named(name))),
		astutil.InputValue(NotField, astutil.Named(name)),
	)
	return in
}
