// Package invoker owns the remote call for a bound operation: it gates
// mutating operations behind confirmation, sends the request through a
// long-lived client and converts failures into a uniform error surface.
package invoker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/operation"
)

// Confirmer asks whether a mutating operation may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, target, action string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, target, action string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, target, action string) (bool, error) {
	return f(ctx, target, action)
}

// Config carries the connection settings the invoker reports in diagnostics.
type Config struct {
	Region      string
	EndpointURL string
}

// Invoker issues operations against a shared client.
type Invoker struct {
	client  apigw.Client
	cfg     Config
	confirm Confirmer
	logger  *slog.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithConfirmer sets the confirmation prompt for mutating operations.
// Without one, unforced mutating operations are declined.
func WithConfirmer(c Confirmer) Option {
	return func(inv *Invoker) { inv.confirm = c }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(inv *Invoker) { inv.logger = l }
}

// New creates an Invoker around client. The client is reused for every call.
func New(client apigw.Client, cfg Config, opts ...Option) *Invoker {
	inv := &Invoker{
		client: client,
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Endpoint returns the endpoint used in diagnostics.
func (inv *Invoker) Endpoint() string {
	return apigw.Endpoint(inv.cfg.Region, inv.cfg.EndpointURL)
}

// Invoke runs a bound invocation to a terminal state. Failures are captured
// on the returned result instead of being returned as errors.
func (inv *Invoker) Invoke(ctx context.Context, op apigw.Operation, c *operation.Context) (res *operation.Result) {
	d := op.Descriptor()
	res = &operation.Result{Operation: d.Name, State: c.State, Warnings: c.Warnings}
	log := inv.logger.With("operation", d.Name)

	defer func() {
		if r := recover(); r != nil {
			c.State = operation.StateFailed
			res.Fail(fmt.Errorf("%s: panic during invocation: %v", d.Name, r))
		}
	}()

	for _, w := range c.Warnings {
		log.Warn(w)
	}

	if d.Mutating && !c.Force {
		target := ""
		if d.Target != "" {
			if v, _ := c.Bound(d.Target); v != nil {
				target = *v
			}
		}
		action := fmt.Sprintf("%s (%s)", d.Command, d.Name)

		if inv.confirm == nil {
			log.Warn("no confirmation prompt available; use --force to proceed", "target", target)
			c.State = operation.StateDeclined
			return res.Decline()
		}

		ok, err := inv.confirm.Confirm(ctx, target, action)
		if err != nil {
			c.State = operation.StateFailed
			return res.Fail(fmt.Errorf("%s: confirmation failed: %w", d.Name, err))
		}
		if !ok {
			log.Info("declined", "target", target)
			c.State = operation.StateDeclined
			return res.Decline()
		}
	}
	c.State = operation.StateConfirmed

	req := op.BuildRequest(c)
	c.State = operation.StateInvoked
	log.Debug("sending request", "endpoint", inv.Endpoint())

	resp, err := op.Send(ctx, inv.client, req)
	if err != nil {
		err = classify(d.Name, inv.Endpoint(), inv.cfg.Region, err)
		log.Debug("request failed", "err", err)
		c.State = operation.StateFailed
		return res.Fail(err)
	}

	out, err := c.Selector.Apply(resp, c, op.Field)
	if err != nil {
		c.State = operation.StateFailed
		return res.Fail(fmt.Errorf("%s: select %s: %w", d.Name, c.Selector, err))
	}

	c.State = operation.StateSucceeded
	log.Debug("request succeeded", "select", c.Selector.String())
	return res.Succeed(out, resp)
}
