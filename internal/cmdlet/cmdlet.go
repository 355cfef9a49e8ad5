// Package cmdlet runs one operation for a command invocation: a single call
// from command-line input, or one call per element of a streamed input.
package cmdlet

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/operation"
	"github.com/lex00/apigwv2-go/internal/pipeline"
)

// Invoker runs a bound invocation to a terminal state.
type Invoker interface {
	Invoke(ctx context.Context, op apigw.Operation, c *operation.Context) *operation.Result
}

// Record is one completed invocation.
type Record struct {
	// Index is the stream element index, or 0 for a single invocation.
	Index  int
	Result *operation.Result
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Declined  int
	// Invalid counts failures caught during binding, before any network call.
	Invalid int
}

// OK reports whether nothing failed.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Cmdlet binds and invokes a single operation.
type Cmdlet struct {
	Op      apigw.Operation
	Invoker Invoker
	// Emit receives each record as soon as it completes.
	Emit   func(Record) error
	Logger *slog.Logger
}

// Run invokes the operation once with in, or once per element of source
// when source is non-nil. Elements are processed sequentially and a failing
// element does not stop the ones after it. The returned error is reserved
// for problems with the run itself: cancellation, unreadable input or a
// failing Emit.
func (c *Cmdlet) Run(ctx context.Context, in operation.Input, source io.Reader) (Summary, error) {
	var sum Summary

	if source == nil {
		rec := Record{Result: c.invoke(ctx, in)}
		sum.add(rec.Result)
		return sum, c.emit(rec)
	}

	err := pipeline.Decode(source, func(el pipeline.Element) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		var res *operation.Result
		if el.Err != nil {
			res = (&operation.Result{Operation: c.Op.Descriptor().Name}).Fail(el.Err)
		} else {
			itemIn := in
			itemIn.Item = el.Item
			res = c.invoke(ctx, itemIn)
		}

		if res.Failed() {
			c.logger().Warn("pipeline element failed", "index", el.Index, "err", res.Err)
		}
		sum.add(res)
		return c.emit(Record{Index: el.Index, Result: res})
	})
	return sum, err
}

func (c *Cmdlet) invoke(ctx context.Context, in operation.Input) *operation.Result {
	d := c.Op.Descriptor()
	ictx, err := operation.Bind(d, in)
	if err != nil {
		return (&operation.Result{Operation: d.Name}).Fail(err)
	}
	return c.Invoker.Invoke(ctx, c.Op, ictx)
}

func (c *Cmdlet) emit(rec Record) error {
	if c.Emit == nil {
		return nil
	}
	return c.Emit(rec)
}

func (c *Cmdlet) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (s *Summary) add(res *operation.Result) {
	s.Total++
	switch {
	case res.Succeeded():
		s.Succeeded++
	case res.Declined():
		s.Declined++
	case res.Failed():
		s.Failed++
		var verr *operation.ValidationError
		if errors.As(res.Err, &verr) {
			s.Invalid++
		}
	}
}
