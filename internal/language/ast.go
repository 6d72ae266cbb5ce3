package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// SDL documents and the definitions the transformers rewrite.
type (
	SchemaDocument      = ast.SchemaDocument
	SchemaDefinition    = ast.SchemaDefinition
	OperationTypeDef    = ast.OperationTypeDefinition
	Definition          = ast.Definition
	DefinitionList      = ast.DefinitionList
	DefinitionKind      = ast.DefinitionKind
	FieldDefinition     = ast.FieldDefinition
	FieldList           = ast.FieldList
	ArgumentDefinition  = ast.ArgumentDefinition
	EnumValueDefinition = ast.EnumValueDefinition
	EnumValueList       = ast.EnumValueList
	DirectiveDefinition = ast.DirectiveDefinition
	DirectiveDefList    = ast.DirectiveDefinitionList
	DirectiveLocation   = ast.DirectiveLocation
	Type                = ast.Type
	Source              = ast.Source
	Position            = ast.Position

	// Schema is a validated schema with the prelude merged in.
	Schema = ast.Schema
)

// Executable documents.
type (
	QueryDocument       = ast.QueryDocument
	OperationDefinition = ast.OperationDefinition
	Operation           = ast.Operation
	SelectionSet        = ast.SelectionSet
	Field               = ast.Field
	InlineFragment      = ast.InlineFragment
	FragmentSpread      = ast.FragmentSpread
)

// Shared by both kinds of document.
type (
	Directive     = ast.Directive
	DirectiveList = ast.DirectiveList
	ArgumentList  = ast.ArgumentList
	Argument      = ast.Argument
	Value         = ast.Value
	ChildValue    = ast.ChildValue
)

// Error is the located error returned by the parser.
type Error = gqlerror.Error

// ErrorList collects the errors of query validation.
type ErrorList = gqlerror.List

const (
	Object      = ast.Object
	Interface   = ast.Interface
	Union       = ast.Union
	Scalar      = ast.Scalar
	Enum        = ast.Enum
	InputObject = ast.InputObject
)

const (
	Query        = ast.Query
	Mutation     = ast.Mutation
	Subscription = ast.Subscription
)

const (
	Variable     = ast.Variable
	IntValue     = ast.IntValue
	FloatValue   = ast.FloatValue
	StringValue  = ast.StringValue
	BlockValue   = ast.BlockValue
	BooleanValue = ast.BooleanValue
	NullValue    = ast.NullValue
	EnumValue    = ast.EnumValue
	ListValue    = ast.ListValue
	ObjectValue  = ast.ObjectValue
)

// Type system locations a transformer directive may be declared on.
const (
	LocationSchema          = ast.LocationSchema
	LocationScalar          = ast.LocationScalar
	LocationObject          = ast.LocationObject
	LocationFieldDefinition = ast.LocationFieldDefinition
	LocationInterface       = ast.LocationInterface
	LocationUnion           = ast.LocationUnion
	LocationEnum            = ast.LocationEnum
	LocationInputObject     = ast.LocationInputObject
)
