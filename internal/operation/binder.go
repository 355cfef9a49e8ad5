package operation

import (
	"fmt"
	"sort"
	"strconv"
)

// Values maps parameter names to bound values. A present key with a nil
// value means the parameter was explicitly bound to null.
type Values map[string]*string

// Item is one element of a streamed parameter sequence. Fields holds a
// mapping item matched by property name; when Fields is nil the item is a
// bare value bound to the descriptor's PipelineValue parameter.
type Item struct {
	Fields map[string]any
	Value  any
}

// Input is everything a caller supplied for one invocation.
type Input struct {
	// Named values from flags or by-name arguments.
	Named Values
	// Positional arguments, bound in Position order.
	Positional []string
	// Item is the streamed element being processed, if any.
	Item *Item
	// Select is the selector expression; SelectSet records that it was given explicitly.
	Select    string
	SelectSet bool
	// PassThru echoes the descriptor's pass-through parameter.
	PassThru bool
	// Force skips the confirmation step of mutating operations.
	Force bool
}

// Context is the resolved state of a single invocation.
type Context struct {
	Operation *Descriptor
	Values    Values
	Selector  Selector
	Warnings  []string
	Force     bool
	State     State
}

// Bound returns the value bound to name. ok is false when the parameter was never bound.
func (c *Context) Bound(name string) (v *string, ok bool) {
	if p, found := c.Operation.Param(name); found {
		name = p.Name
	}
	v, ok = c.Values[name]
	return v, ok
}

// Bind validates in against d and produces an invocation context.
//
// A required parameter that is absent fails binding. A required parameter
// explicitly bound to null or an empty string only records a warning.
func Bind(d *Descriptor, in Input) (*Context, error) {
	sel, err := resolveSelector(d, in)
	if err != nil {
		return nil, err
	}

	values := make(Values)

	for name, v := range in.Named {
		p, ok := d.Param(name)
		if !ok {
			return nil, &ValidationError{Operation: d.Name, Parameter: name, Reason: "unknown parameter"}
		}
		values[p.Name] = v
	}

	positional := d.Positional()
	if len(in.Positional) > len(positional) {
		return nil, &ValidationError{
			Operation: d.Name,
			Reason:    fmt.Sprintf("accepts at most %d positional argument(s), got %d", len(positional), len(in.Positional)),
		}
	}
	for i, arg := range in.Positional {
		p := positional[i]
		if _, dup := values[p.Name]; dup {
			return nil, &ValidationError{Operation: d.Name, Parameter: p.Name, Reason: "bound both by position and by name"}
		}
		values[p.Name] = &arg
	}

	if in.Item != nil {
		if err := bindItem(d, values, in.Item); err != nil {
			return nil, err
		}
	}

	c := &Context{
		Operation: d,
		Values:    values,
		Selector:  sel,
		Force:     in.Force,
		State:     StateBound,
	}

	for _, p := range d.Params {
		if !p.Required {
			continue
		}
		v, ok := values[p.Name]
		if !ok {
			return nil, &ValidationError{Operation: d.Name, Parameter: p.Name, Reason: "missing required parameter"}
		}
		if v == nil || *v == "" {
			c.Warnings = append(c.Warnings,
				fmt.Sprintf("required parameter %s was bound to an empty value; the service may reject the request", p.Name))
		}
	}

	return c, nil
}

func resolveSelector(d *Descriptor, in Input) (Selector, error) {
	if in.PassThru && in.SelectSet {
		return Selector{}, &ValidationError{
			Operation: d.Name,
			Parameter: "PassThru",
			Reason:    "-PassThru cannot be used when -Select is specified",
		}
	}

	expr := d.DefaultSelect
	switch {
	case in.PassThru:
		if d.PassThrough == "" {
			return Selector{}, &ValidationError{Operation: d.Name, Parameter: "PassThru", Reason: "operation has no pass-through parameter"}
		}
		expr = "^" + d.PassThrough
	case in.SelectSet:
		expr = in.Select
	}
	return ParseSelector(expr, d)
}

func bindItem(d *Descriptor, values Values, item *Item) error {
	if item.Fields == nil {
		p, ok := d.PipelineValueParam()
		if !ok {
			return &ValidationError{Operation: d.Name, Reason: "does not accept bare pipeline values"}
		}
		if _, bound := values[p.Name]; bound {
			return nil
		}
		v, err := scalar(item.Value)
		if err != nil {
			return &ValidationError{Operation: d.Name, Parameter: p.Name, Reason: err.Error()}
		}
		values[p.Name] = v
		return nil
	}

	keys := make([]string, 0, len(item.Fields))
	for k := range item.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p, ok := d.Param(k)
		if !ok || !p.Pipeline {
			continue
		}
		if _, bound := values[p.Name]; bound {
			continue
		}
		v, err := scalar(item.Fields[k])
		if err != nil {
			return &ValidationError{Operation: d.Name, Parameter: p.Name, Reason: err.Error()}
		}
		values[p.Name] = v
	}
	return nil
}

// scalar converts a decoded value into a parameter value.
func scalar(raw any) (*string, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		s = v.String()
	default:
		return nil, fmt.Errorf("expected a scalar value, got %T", raw)
	}
	return &s, nil
}
