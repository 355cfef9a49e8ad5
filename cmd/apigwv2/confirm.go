package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/lex00/apigwv2-go/internal/invoker"
)

// promptConfirmer asks on the terminal before a mutating call. The prompt
// is drawn on out so stdout stays clean for results.
type promptConfirmer struct {
	out    io.Writer
	styles styles
}

func (p promptConfirmer) Confirm(ctx context.Context, target, action string) (bool, error) {
	var accept bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %s", p.styles.Warning.Render(action), p.styles.Key.Render(target))).
				Description("Perform this operation?").
				Affirmative("Yes").
				Negative("No").
				Value(&accept),
		),
	).WithOutput(p.out)

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return accept, nil
}

// confirmerFor picks how mutating calls are confirmed. Without a terminal
// there is nobody to ask, so unforced mutating calls are declined.
func (a *app) confirmerFor(st styles, stdinInUse bool) invoker.Confirmer {
	if a.confirmer != nil {
		return a.confirmer
	}
	if stdinInUse || a.interactive == nil || !a.interactive() {
		return nil
	}
	return promptConfirmer{out: a.stderr, styles: st}
}
