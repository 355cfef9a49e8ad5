package apigw

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"

	"github.com/lex00/apigwv2-go/internal/operation"
)

// Operation is a registered command: its descriptor plus the projection
// between bound parameters and the SDK request and response types.
type Operation interface {
	// Descriptor returns the static operation metadata.
	Descriptor() *operation.Descriptor
	// BuildRequest copies bound, non-null values onto a fresh request.
	BuildRequest(c *operation.Context) any
	// Send issues the request through client and blocks until it completes.
	Send(ctx context.Context, client Client, req any) (any, error)
	// Field reads a response field through a static accessor.
	Field(resp any, name string) (any, bool)
}

// binding implements Operation for one SDK request/response pair.
type binding[In, Out any] struct {
	desc   *operation.Descriptor
	build  func(c *operation.Context) *In
	send   func(Client, context.Context, *In, ...func(*apigatewayv2.Options)) (*Out, error)
	fields map[string]func(*Out) any
}

func (b *binding[In, Out]) Descriptor() *operation.Descriptor {
	return b.desc
}

func (b *binding[In, Out]) BuildRequest(c *operation.Context) any {
	return b.build(c)
}

func (b *binding[In, Out]) Send(ctx context.Context, client Client, req any) (any, error) {
	in, ok := req.(*In)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected request type %T", b.desc.Name, req)
	}
	out, err := b.send(client, ctx, in)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *binding[In, Out]) Field(resp any, name string) (any, bool) {
	out, ok := resp.(*Out)
	if !ok || out == nil {
		return nil, false
	}
	get, ok := b.fields[name]
	if !ok {
		return nil, false
	}
	return get(out), true
}

var registry []Operation

// register validates b and adds it to the registry. Descriptor mistakes are
// programming errors, so they panic at startup.
func register[In, Out any](b *binding[In, Out]) *binding[In, Out] {
	if err := b.desc.Validate(); err != nil {
		panic(fmt.Sprintf("apigw: invalid descriptor: %v", err))
	}
	if len(b.fields) != len(b.desc.Fields) {
		panic(fmt.Sprintf("apigw: %s: %d field accessors for %d declared fields", b.desc.Name, len(b.fields), len(b.desc.Fields)))
	}
	for _, f := range b.desc.Fields {
		if _, ok := b.fields[f]; !ok {
			panic(fmt.Sprintf("apigw: %s: no accessor for field %q", b.desc.Name, f))
		}
	}
	registry = append(registry, b)
	return b
}

// Operations returns every registered operation in registration order.
func Operations() []Operation {
	out := make([]Operation, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds an operation by service name ("UpdateVpcLink") or command
// name ("update-vpc-link"), ignoring case.
func Lookup(name string) (Operation, bool) {
	for _, op := range registry {
		d := op.Descriptor()
		if strings.EqualFold(d.Name, name) || strings.EqualFold(d.Command, name) {
			return op, true
		}
	}
	return nil, false
}

// optional returns a copy of the bound value, or nil when the parameter is
// unbound or bound to null so the service applies its own default.
func optional(c *operation.Context, name string) *string {
	v, _ := c.Bound(name)
	if v == nil {
		return nil
	}
	return aws.String(*v)
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func list[T any](s []T) any {
	if s == nil {
		return nil
	}
	return s
}

func dict(m map[string]string) any {
	if m == nil {
		return nil
	}
	return m
}

// enum returns nil for an unset enum value.
func enum[E ~string](e E) any {
	if e == "" {
		return nil
	}
	return string(e)
}

func timestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
