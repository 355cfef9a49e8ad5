package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lex00/apigwv2-go/internal/invoker"
)

func TestConfirmerFor(t *testing.T) {
	st := newStyles(&bytes.Buffer{})
	yes := invoker.ConfirmFunc(func(context.Context, string, string) (bool, error) { return true, nil })

	tests := []struct {
		name        string
		confirmer   invoker.Confirmer
		interactive bool
		stdinInUse  bool
		wantPrompt  bool
		wantNil     bool
	}{
		{name: "override wins", confirmer: yes, stdinInUse: true},
		{name: "no terminal declines", wantNil: true},
		{name: "stdin carries input", interactive: true, stdinInUse: true, wantNil: true},
		{name: "terminal prompts", interactive: true, wantPrompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{
				stderr:      &bytes.Buffer{},
				confirmer:   tt.confirmer,
				interactive: func() bool { return tt.interactive },
			}

			got := a.confirmerFor(st, tt.stdinInUse)
			switch {
			case tt.wantNil:
				assert.Nil(t, got)
			case tt.wantPrompt:
				assert.IsType(t, promptConfirmer{}, got)
			default:
				assert.NotNil(t, got)
				_, isPrompt := got.(promptConfirmer)
				assert.False(t, isPrompt)
			}
		})
	}
}
