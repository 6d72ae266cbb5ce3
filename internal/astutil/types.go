// Package astutil holds small, allocation-light helpers over gqlparser's AST:
// type wrapping, scalar classification, node construction and directive
// argument decoding.
//
// gqlparser models a type reference as a single node with an optional Elem
// (list) and a NonNull flag, so every helper here treats Named, List and
// NonNull(inner) as views over that node and never mutates its input.
package astutil

import (
	language "github.com/hanpama/gqltransform/internal/language"
)

// Named returns a nullable named type reference.
func Named(name string) *language.Type { return &language.Type{NamedType: name} }

// List returns a nullable list of elem.
func List(elem *language.Type) *language.Type { return &language.Type{Elem: elem} }

// NonNull returns a copy of t marked non-null.
func NonNull(t *language.Type) *language.Type { return WrapNonNull(t) }

// BaseTypeName returns the innermost named type of t.
func BaseTypeName(t *language.Type) string {
	for t != nil {
		if t.Elem == nil {
			return t.NamedType
		}
		t = t.Elem
	}
	return ""
}

// IsList reports whether t is a list, looking through an outer non-null.
func IsList(t *language.Type) bool { return t != nil && t.Elem != nil }

func IsNonNull(t *language.Type) bool { return t != nil && t.NonNull }

// UnwrapNonNull strips the outermost non-null marker.
func UnwrapNonNull(t *language.Type) *language.Type {
	if t == nil {
		return nil
	}
	c := *t
	c.NonNull = false
	return &c
}

// WrapNonNull marks t non-null unless it already is.
func WrapNonNull(t *language.Type) *language.Type {
	if t == nil {
		return nil
	}
	c := *t
	c.NonNull = true
	return &c
}

// WithNamedType keeps the list/non-null structure of t and swaps the base name.
func WithNamedType(t *language.Type, name string) *language.Type {
	if t == nil {
		return nil
	}
	c := *t
	if c.Elem != nil {
		c.Elem = WithNamedType(c.Elem, name)
	} else {
		c.NamedType = name
	}
	return &c
}

// CloneType deep-copies a type reference.
func CloneType(t *language.Type) *language.Type {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = CloneType(t.Elem)
	return &c
}
