package operation

import (
	"fmt"
	"strings"
)

// SelectorKind identifies an output selection mode.
type SelectorKind int

const (
	// SelectWhole emits the full response ("*").
	SelectWhole SelectorKind = iota
	// SelectField emits a single response field.
	SelectField
	// SelectPassThrough emits a bound parameter value ("^Param").
	SelectPassThrough
)

// Selector chooses what a successful invocation emits.
type Selector struct {
	Kind SelectorKind
	// Name is the field name for SelectField or the parameter name for SelectPassThrough.
	Name string
}

// FieldFunc reads a named field from a response through a static accessor.
type FieldFunc func(resp any, name string) (any, bool)

// Whole is the identity selector.
var Whole = Selector{Kind: SelectWhole}

// ParseSelector parses a selector expression against a descriptor.
// An empty expression falls back to "*".
func ParseSelector(expr string, d *Descriptor) (Selector, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "" || expr == "*":
		return Whole, nil

	case strings.HasPrefix(expr, "^"):
		name := strings.TrimPrefix(expr, "^")
		p, ok := d.Param(name)
		if !ok {
			return Selector{}, &ValidationError{
				Operation: d.Name,
				Parameter: "Select",
				Reason:    fmt.Sprintf("%q does not name a parameter of %s", name, d.Name),
			}
		}
		return Selector{Kind: SelectPassThrough, Name: p.Name}, nil

	default:
		field, ok := d.Field(expr)
		if !ok {
			return Selector{}, &ValidationError{
				Operation: d.Name,
				Parameter: "Select",
				Reason: fmt.Sprintf("%q is not a response field of %s (valid: *, ^<parameter>, %s)",
					expr, d.Name, strings.Join(d.Fields, ", ")),
			}
		}
		return Selector{Kind: SelectField, Name: field}, nil
	}
}

// String returns the selector in expression form.
func (s Selector) String() string {
	switch s.Kind {
	case SelectField:
		return s.Name
	case SelectPassThrough:
		return "^" + s.Name
	default:
		return "*"
	}
}

// Apply selects the output value from resp.
func (s Selector) Apply(resp any, c *Context, field FieldFunc) (any, error) {
	switch s.Kind {
	case SelectWhole:
		return resp, nil

	case SelectPassThrough:
		v, _ := c.Bound(s.Name)
		if v == nil {
			return nil, nil
		}
		return *v, nil

	case SelectField:
		if field == nil {
			return nil, fmt.Errorf("no field accessors registered for selector %q", s.Name)
		}
		v, ok := field(resp, s.Name)
		if !ok {
			return nil, fmt.Errorf("response has no field %q", s.Name)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("unknown selector kind %d", s.Kind)
	}
}
