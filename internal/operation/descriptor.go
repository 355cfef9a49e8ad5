// Package operation provides the generic pieces every API Gateway V2 command is
// built from: static operation descriptors, the parameter binder, output
// selectors and invocation results.
//
// Descriptors are declared once at startup and never mutated:
//
//	var desc = &operation.Descriptor{
//	    Name:          "GetApiMapping",
//	    Command:       "get-api-mapping",
//	    DefaultSelect: "*",
//	    Params: []operation.ParameterSpec{
//	        {Name: "DomainName", Required: true, Position: 0, Pipeline: true, PipelineValue: true},
//	        {Name: "ApiMappingId", Required: true, Position: -1, Pipeline: true},
//	    },
//	}
package operation

import (
	"fmt"
	"sort"
	"strings"
)

// NoPosition marks a parameter that can only be bound by name.
const NoPosition = -1

// ParameterSpec describes one input of an operation.
type ParameterSpec struct {
	// Name matches the request field name (e.g., "VpcLinkId").
	Name string
	// Required parameters must be bound before invocation.
	Required bool
	// Position is the positional argument index, or NoPosition.
	Position int
	// Pipeline accepts the value from a streamed item by property name.
	Pipeline bool
	// PipelineValue binds a bare (non-mapping) streamed item.
	PipelineValue bool
	// Description is shown in help output.
	Description string
}

// Descriptor is the static metadata for a single operation.
type Descriptor struct {
	// Name is the service operation name (e.g., "UpdateVpcLink").
	Name string
	// Command is the CLI command name (e.g., "update-vpc-link").
	Command string
	// Synopsis is a one-line description.
	Synopsis string
	// Params are the declared inputs, in declaration order.
	Params []ParameterSpec
	// DefaultSelect is the selector expression used when none is supplied.
	DefaultSelect string
	// Mutating operations are gated behind a confirmation step.
	Mutating bool
	// PassThrough is the parameter echoed when --pass-thru is given.
	PassThrough string
	// Target is the parameter naming the resource shown in confirmations.
	Target string
	// Fields are the response fields a selector may name.
	Fields []string
}

// Param looks up a parameter by name, ignoring case.
func (d *Descriptor) Param(name string) (ParameterSpec, bool) {
	for _, p := range d.Params {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Positional returns the positional parameters ordered by Position.
func (d *Descriptor) Positional() []ParameterSpec {
	var out []ParameterSpec
	for _, p := range d.Params {
		if p.Position != NoPosition {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// PipelineValueParam returns the parameter that receives bare streamed values.
func (d *Descriptor) PipelineValueParam() (ParameterSpec, bool) {
	for _, p := range d.Params {
		if p.PipelineValue {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Field returns the canonical spelling of a response field, ignoring case.
func (d *Descriptor) Field(name string) (string, bool) {
	for _, f := range d.Fields {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

// Validate checks a descriptor for registration mistakes.
func (d *Descriptor) Validate() error {
	if d.Name == "" || d.Command == "" {
		return fmt.Errorf("descriptor needs both Name and Command")
	}

	seen := make(map[string]bool)
	positions := make(map[int]string)
	pipelineValues := 0
	for _, p := range d.Params {
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("%s: duplicate parameter %q", d.Name, p.Name)
		}
		seen[key] = true

		if p.Position != NoPosition {
			if p.Position < 0 {
				return fmt.Errorf("%s: parameter %q has invalid position %d", d.Name, p.Name, p.Position)
			}
			if other, ok := positions[p.Position]; ok {
				return fmt.Errorf("%s: parameters %q and %q share position %d", d.Name, other, p.Name, p.Position)
			}
			positions[p.Position] = p.Name
		}
		if p.PipelineValue {
			pipelineValues++
		}
	}
	for i := 0; i < len(positions); i++ {
		if _, ok := positions[i]; !ok {
			return fmt.Errorf("%s: positional parameters are not contiguous (missing %d)", d.Name, i)
		}
	}
	if pipelineValues > 1 {
		return fmt.Errorf("%s: at most one parameter may take bare pipeline values", d.Name)
	}

	if d.PassThrough != "" {
		if _, ok := d.Param(d.PassThrough); !ok {
			return fmt.Errorf("%s: pass-through parameter %q is not declared", d.Name, d.PassThrough)
		}
	}
	if d.Mutating && d.Target != "" {
		if _, ok := d.Param(d.Target); !ok {
			return fmt.Errorf("%s: confirmation target %q is not declared", d.Name, d.Target)
		}
	}
	if _, err := ParseSelector(d.DefaultSelect, d); err != nil {
		return fmt.Errorf("%s: default select: %w", d.Name, err)
	}
	return nil
}
