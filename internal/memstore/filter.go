package memstore

import (
	"fmt"
	"reflect"
	"strings"

	synth "github.com/hanpama/gqltransform/internal/synth"
)

// matches evaluates a filter or condition input against item. A nil filter
// matches everything. Field entries and the _and, _or and _not combinators
// are all required to hold.
func matches(item Item, filter map[string]any) (bool, error) {
	for key, raw := range filter {
		if raw == nil {
			continue
		}
		var ok bool
		var err error
		switch key {
		case synth.AndField:
			ok, err = all(item, raw)
		case synth.OrField:
			ok, err = anyOf(item, raw)
		case synth.NotField:
			sub, isMap := raw.(map[string]any)
			if !isMap {
				return false, fmt.Errorf("%s expects an object, got %T", key, raw)
			}
			ok, err = matches(item, sub)
			ok = !ok
		default:
			conds, isMap := raw.(map[string]any)
			if !isMap {
				return false, fmt.Errorf("filter on %q expects an object, got %T", key, raw)
			}
			ok, err = fieldMatches(item[key], conds)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func all(item Item, raw any) (bool, error) {
	for _, f := range subFilters(raw) {
		ok, err := matches(item, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// anyOf treats an empty list as no constraint.
func anyOf(item Item, raw any) (bool, error) {
	filters := subFilters(raw)
	if len(filters) == 0 {
		return true, nil
	}
	for _, f := range filters {
		ok, err := matches(item, f)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func subFilters(raw any) []map[string]any {
	var out []map[string]any
	switch v := raw.(type) {
	case []any:
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
	case map[string]any:
		out = append(out, v)
	}
	return out
}

// fieldMatches applies the operators of one scalar, enum or list filter input
// to value. A missing value only satisfies ne and notContains.
func fieldMatches(value any, conds map[string]any) (bool, error) {
	for op, arg := range conds {
		if arg == nil {
			continue
		}
		var ok bool
		switch op {
		case "eq":
			ok = value != nil && equal(value, arg)
		case "ne":
			ok = value == nil || !equal(value, arg)
		case "lt", "le", "gt", "ge":
			c, comparable := compare(value, arg)
			ok = comparable && holds(op, c)
		case "in":
			ok = value != nil && member(value, arg)
		case "notIn":
			ok = value == nil || !member(value, arg)
		case "between":
			bounds, isList := arg.([]any)
			if !isList || len(bounds) != 2 {
				return false, fmt.Errorf("between expects two bounds, got %v", arg)
			}
			lo, okLo := compare(value, bounds[0])
			hi, okHi := compare(value, bounds[1])
			ok = okLo && okHi && lo >= 0 && hi <= 0
		case "contains":
			ok = contains(value, arg)
		case "notContains":
			ok = !contains(value, arg)
		default:
			return false, fmt.Errorf("unsupported filter operator %q", op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func holds(op string, c int) bool {
	switch op {
	case "lt":
		return c < 0
	case "le":
		return c <= 0
	case "gt":
		return c > 0
	default:
		return c >= 0
	}
}

func member(value, list any) bool {
	items, ok := list.([]any)
	if !ok {
		return false
	}
	for _, e := range items {
		if equal(value, e) {
			return true
		}
	}
	return false
}

// contains is substring search on strings and membership on lists.
func contains(value, arg any) bool {
	switch v := value.(type) {
	case string:
		s, ok := arg.(string)
		return ok && strings.Contains(v, s)
	case []any:
		return member(arg, v)
	}
	return false
}

func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	la, aList := a.([]any)
	lb, bList := b.([]any)
	if aList || bList {
		if !aList || !bList || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two numbers or two strings. It reports false for any other
// pair.
func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if !okA || !okB {
		return 0, false
	}
	return strings.Compare(sa, sb), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
