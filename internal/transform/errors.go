package transform

import (
	"fmt"

	language "github.com/hanpama/gqltransform/internal/language"
)

// NameConflictError reports an attempt to add a type whose name is taken.
type NameConflictError struct {
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("conflicting type %q found", e.Name)
}

// UnknownTypeError reports an extension of a type that does not exist.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("cannot extend non-existent type %q", e.Name)
}

type FieldRedeclarationError struct {
	Type  string
	Field string
}

func (e *FieldRedeclarationError) Error() string {
	return fmt.Sprintf("object type extension %q cannot redeclare field %q", e.Type, e.Field)
}

type InterfaceRedeclarationError struct {
	Type      string
	Interface string
}

func (e *InterfaceRedeclarationError) Error() string {
	return fmt.Sprintf("object type extension %q cannot redeclare interface %q", e.Type, e.Interface)
}

// InvalidDirectiveError reports a directive used on a node its transformer
// cannot handle.
type InvalidDirectiveError struct {
	Directive  string
	Kind       string
	Definition string
	Reason     string
}

func (e *InvalidDirectiveError) Error() string {
	msg := fmt.Sprintf("directive @%s cannot be applied to %s %q", e.Directive, e.Kind, e.Definition)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// MissingResolverError reports a resolver resource registered without a function.
type MissingResolverError struct {
	Resource string
}

func (e *MissingResolverError) Error() string {
	return fmt.Sprintf("missing resolver for %s", e.Resource)
}

// DuplicateDirectiveError reports two transformers declaring the same directive.
type DuplicateDirectiveError struct {
	Directive string
	First     string
	Second    string
}

func (e *DuplicateDirectiveError) Error() string {
	return fmt.Sprintf("directive @%s is declared by both %s and %s", e.Directive, e.First, e.Second)
}

// UnknownOperationError reports root fields added for an operation the
// explicit schema definition does not declare.
type UnknownOperationError struct {
	Operation language.Operation
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("schema does not declare a %s root type", e.Operation)
}
