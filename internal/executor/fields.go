package executor

import (
	language "github.com/hanpama/gqltransform/internal/language"
	schema "github.com/hanpama/gqltransform/internal/schema"
)

// fieldGroup holds the field nodes that share a response name.
type fieldGroup struct {
	ResponseName string
	Fields       []*language.Field
}

// collect groups the fields of set that apply to obj, in document order.
// Fragments are expanded once each and @skip/@include are honoured.
func (ex *execution) collect(obj *schema.Type, set language.SelectionSet) []fieldGroup {
	c := &collector{ex: ex, obj: obj, index: map[string]int{}, visited: map[string]bool{}}
	c.walk(set)
	return c.groups
}

type collector struct {
	ex      *execution
	obj     *schema.Type
	groups  []fieldGroup
	index   map[string]int
	visited map[string]bool
}

func (c *collector) walk(set language.SelectionSet) {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *language.Field:
			if c.ex.included(sel.Directives) {
				c.add(sel)
			}
		case *language.InlineFragment:
			if c.ex.included(sel.Directives) && c.applies(sel.TypeCondition) {
				c.walk(sel.SelectionSet)
			}
		case *language.FragmentSpread:
			if !c.ex.included(sel.Directives) || c.visited[sel.Name] {
				continue
			}
			c.visited[sel.Name] = true
			def := c.ex.doc.Fragments.ForName(sel.Name)
			if def != nil && c.applies(def.TypeCondition) && c.ex.included(def.Directives) {
				c.walk(def.SelectionSet)
			}
		}
	}
}

func (c *collector) add(f *language.Field) {
	name := f.Alias
	if name == "" {
		name = f.Name
	}
	if i, ok := c.index[name]; ok {
		c.groups[i].Fields = append(c.groups[i].Fields, f)
		return
	}
	c.index[name] = len(c.groups)
	c.groups = append(c.groups, fieldGroup{ResponseName: name, Fields: []*language.Field{f}})
}

// applies matches a type condition against the collected object type.
// Interface and union conditions match their possible types.
func (c *collector) applies(cond string) bool {
	return cond == "" || c.ex.sch.IsPossibleType(cond, c.obj.Name)
}

func (ex *execution) included(dirs language.DirectiveList) bool {
	skip, _ := ex.condition(dirs, "skip")
	include, ok := ex.condition(dirs, "include")
	return !skip && (!ok || include)
}

// condition reads the boolean "if" argument of the named directive.
func (ex *execution) condition(dirs language.DirectiveList, name string) (value, ok bool) {
	d := dirs.ForName(name)
	if d == nil {
		return false, false
	}
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false, false
	}
	value, ok = valueFromAST(arg.Value, ex.vars).(bool)
	return value, ok
}
