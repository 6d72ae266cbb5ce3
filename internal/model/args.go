package model

import (
	"fmt"

	astutil "github.com/hanpama/gqltransform/internal/astutil"
	language "github.com/hanpama/gqltransform/internal/language"
	synth "github.com/hanpama/gqltransform/internal/synth"
	transform "github.com/hanpama/gqltransform/internal/transform"
)

// OverrideState distinguishes an argument that was left out from one written
// as null.
type OverrideState int

const (
	Absent OverrideState = iota
	Null
	Set
)

// Override is a queries or mutations argument of @model.
type Override struct {
	State OverrideState
	Names map[string]string
}

// Resolve returns the field name to generate for op and whether to generate
// it at all. Without the argument every operation is generated under its
// default name; with a map only the operations it names are.
func (o Override) Resolve(op, fallback string) (string, bool) {
	switch o.State {
	case Null:
		return "", false
	case Set:
		name := o.Names[op]
		return name, name != ""
	}
	return fallback, true
}

type SubscriptionArgs struct {
	State    OverrideState
	OnCreate []string
	OnUpdate []string
	OnDelete []string
	Level    string
}

// Explicit reports whether any of onCreate, onUpdate or onDelete was given
// with a non-null value. An empty list counts and names no fields.
func (s SubscriptionArgs) Explicit() bool {
	return s.State == Set && (s.OnCreate != nil || s.OnUpdate != nil || s.OnDelete != nil)
}

// Args is the decoded @model directive.
type Args struct {
	ModelName     string
	Queries       Override
	Mutations     Override
	Subscriptions SubscriptionArgs
}

func parseArgs(def *language.Definition, d *language.Directive) (Args, error) {
	invalid := func(format string, a ...any) error {
		return &transform.InvalidDirectiveError{
			Directive:  d.Name,
			Kind:       "object",
			Definition: def.Name,
			Reason:     fmt.Sprintf(format, a...),
		}
	}

	raw, err := astutil.DirectiveArguments(d)
	if err != nil {
		return Args{}, invalid("%v", err)
	}

	var a Args
	if v := raw["modelName"]; v != nil {
		s, ok := v.(string)
		if !ok {
			return Args{}, invalid("modelName must be a string")
		}
		a.ModelName = s
	}
	if a.Queries, err = parseOverride(raw, "queries", "get", "list"); err != nil {
		return Args{}, invalid("%v", err)
	}
	if a.Mutations, err = parseOverride(raw, "mutations", "create", "update", "delete"); err != nil {
		return Args{}, invalid("%v", err)
	}
	if a.Subscriptions, err = parseSubscriptions(raw); err != nil {
		return Args{}, invalid("%v", err)
	}
	return a, nil
}

func parseOverride(raw map[string]any, arg string, ops ...string) (Override, error) {
	v, present := raw[arg]
	if !present {
		return Override{State: Absent}, nil
	}
	if v == nil {
		return Override{State: Null}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Override{}, fmt.Errorf("%s must be an input object", arg)
	}
	o := Override{State: Set, Names: make(map[string]string)}
	for _, op := range ops {
		switch name := m[op].(type) {
		case nil:
		case string:
			o.Names[op] = name
		default:
			return Override{}, fmt.Errorf("%s.%s must be a string", arg, op)
		}
	}
	return o, nil
}

func parseSubscriptions(raw map[string]any) (SubscriptionArgs, error) {
	v, present := raw["subscriptions"]
	if !present {
		return SubscriptionArgs{State: Absent}, nil
	}
	if v == nil {
		return SubscriptionArgs{State: Null}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return SubscriptionArgs{}, fmt.Errorf("subscriptions must be an input object")
	}
	s := SubscriptionArgs{State: Set}
	var err error
	if s.OnCreate, err = stringList(m, "onCreate"); err != nil {
		return SubscriptionArgs{}, err
	}
	if s.OnUpdate, err = stringList(m, "onUpdate"); err != nil {
		return SubscriptionArgs{}, err
	}
	if s.OnDelete, err = stringList(m, "onDelete"); err != nil {
		return SubscriptionArgs{}, err
	}
	if level, ok := m["level"].(string); ok {
		s.Level = level
	}
	return s, nil
}

// stringList accepts a list of strings or, per input coercion, a single string.
// A written list, even an empty one, yields a non-nil slice.
func stringList(m map[string]any, key string) ([]string, error) {
	switch v := m[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("subscriptions.%s must list strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("subscriptions.%s must be a list of strings", key)
}

// Declared returns the names of the models declared by @model directives in
// doc, in declaration order. A modelName argument overrides the type name.
func Declared(doc *language.SchemaDocument) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	defs := append(append(language.DefinitionList(nil), doc.Definitions...), doc.Extensions...)
	for _, def := range defs {
		d := def.Directives.ForName(synth.ModelDirective)
		if d == nil || def.Kind != language.Object {
			continue
		}
		args, err := parseArgs(def, d)
		if err != nil {
			return nil, err
		}
		name := args.ModelName
		if name == "" {
			name = def.Name
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}
