package schema

// TypeRef is a possibly wrapped reference to a named type.
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef // wrapped reference of List and Non-Null
	Named  string
}

// TypeRefKind values double as the __TypeKind of wrapper types.
type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NamedType(name string) *TypeRef  { return &TypeRef{Kind: TypeRefKindNamed, Named: name} }

// IsWrapper reports whether t is a List or Non-Null reference.
func (t *TypeRef) IsWrapper() bool { return t.Kind != TypeRefKindNamed }

// String renders the reference in SDL notation, e.g. [Post!]!.
func (t *TypeRef) String() string {
	switch t.Kind {
	case TypeRefKindNonNull:
		return t.OfType.String() + "!"
	case TypeRefKindList:
		return "[" + t.OfType.String() + "]"
	}
	return t.Named
}

// IsNonNull reports whether t is wrapped with Non-Null.
func IsNonNull(t *TypeRef) bool { return t != nil && t.Kind == TypeRefKindNonNull }

// IsList reports whether t is a list, nullable or not.
func IsList(t *TypeRef) bool {
	if IsNonNull(t) {
		t = t.OfType
	}
	return t != nil && t.Kind == TypeRefKindList
}

// Unwrap strips one List or Non-Null wrapper. Named references are returned
// as they are.
func Unwrap(t *TypeRef) *TypeRef {
	if t.IsWrapper() {
		return t.OfType
	}
	return t
}

// GetNamedType returns the name at the core of t.
func GetNamedType(t *TypeRef) string {
	for t != nil && t.IsWrapper() {
		t = t.OfType
	}
	if t == nil {
		return ""
	}
	return t.Named
}
