package synth

import (
	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
)

// NonModelClosure collects, in discovery order, the object types reachable
// from def's fields that are not themselves @model types.
func NonModelClosure(def *language.Definition, lookup TypeLookup) []*language.Definition {
	seen := map[string]bool{}
	var out []*language.Definition
	var walk func(d *language.Definition)
	walk = func(d *language.Definition) {
		for _, f := range d.Fields {
			if astutil.IsScalar(f.Type) {
				continue
			}
			ref := lookup.GetType(astutil.BaseTypeName(f.Type))
			if ref == nil || ref.Kind != language.Object || seen[ref.Name] {
				continue
			}
			if astutil.HasDirective(ref.Directives, ModelDirective) {
				continue
			}
			seen[ref.Name] = true
			out = append(out, ref)
			walk(ref)
		}
	}
	walk(def)
	return out
}

type closureSet map[string]bool

func newClosureSet(closure []*language.Definition) closureSet {
	s := make(closureSet, len(closure))
	for _, d := range closure {
		s[d.Name] = true
	}
	return s
}

// inputFields keeps the fields that can be carried by an input object: known
// scalars, enums and non-model objects.
func (s closureSet) inputFields(obj *language.Definition, lookup TypeLookup) []*language.FieldDefinition {
	var out []*language.FieldDefinition
	for _, f := range obj.Fields {
		if astutil.IsScalarOrEnum(f.Type, lookup.GetType) || s[astutil.BaseTypeName(f.Type)] {
			out = append(out, f)
		}
	}
	return out
}

func (s closureSet) retarget(t *language.Type) *language.Type {
	base := astutil.BaseTypeName(t)
	if s[base] {
		return astutil.WithNamedType(t, NonModelInputTypeName(base))
	}
	return astutil.CloneType(t)
}

// NonModelInput mirrors a non-model object as an input object.
func NonModelInput(obj *language.Definition, closure []*language.Definition, lookup TypeLookup) *language.Definition {
	set := newClosureSet(closure)
	in := astutil.InputObject(NonModelInputTypeName(obj.Name))
	for _, f := range set.inputFields(obj, lookup) {
		in.Fields = append(in.Fields, astutil.InputValue(f.Name, set.retarget(f.Type)))
	}
	return in
}

// CreateInput builds Create<Type>Input. The id field is always optional.
func CreateInput(obj *language.Definition, closure []*language.Definition, lookup TypeLookup) *language.Definition {
	set := newClosureSet(closure)
	in := astutil.InputObject(CreateInputTypeName(obj.Name))
	for _, f := range set.inputFields(obj, lookup) {
		typ := set.retarget(f.Type)
		if f.Name == "id" {
			typ = astutil.Named("ID")
		}
		in.Fields = append(in.Fields, astutil.InputValue(f.Name, typ))
	}
	return in
}

// UpdateInput builds Update<Type>Input: id is required, everything else optional.
func UpdateInput(obj *language.Definition, closure []*language.Definition, lookup TypeLookup, sync bool) *language.Definition {
	set := newClosureSet(closure)
	in := astutil.InputObject(UpdateInputTypeName(obj.Name))
	for _, f := range set.inputFields(obj, lookup) {
		var typ *language.Type
		if f.Name == "id" {
			typ = astutil.WrapNonNull(f.Type)
		} else {
			typ = astutil.UnwrapNonNull(f.Type)
		}
		in.Fields = append(in.Fields, astutil.InputValue(f.Name, set.retarget(typ)))
	}
	if sync {
		in.Fields = append(in.Fields, astutil.InputValue(VersionField, astutil.Named("Int")))
	}
	return in
}

func DeleteInput(obj *language.Definition, sync bool) *language.Definition {
	in := astutil.InputObject(DeleteInputTypeName(obj.Name), astutil.InputValue("id", astutil.Named("ID")))
	if sync {
		in.Fields = append(in.Fields, astutil.InputValue(VersionField, astutil.Named("Int")))
	}
	return in
}
