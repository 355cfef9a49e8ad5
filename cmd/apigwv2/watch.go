package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	apigwv2 "github.com/lex00/apigwv2-go"
	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/config"
	"github.com/lex00/apigwv2-go/internal/operation"
)

// newWatchCmd creates the "watch" subcommand for re-running a batch whenever
// its input file changes.
func newWatchCmd(a *app) *cobra.Command {
	var (
		input      string
		debounce   time.Duration
		selectExpr string
		passThru   bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "watch <operation> --input FILE",
		Short: "Re-run an operation batch when its input file changes",
		Long: `Watch runs an operation once per element of an input file and runs the
whole batch again each time the file is saved.

The watch command:
- Runs the batch once at start
- Monitors the input file for writes and replacements
- Debounces rapid changes to avoid excessive runs
- Requires --force for operations that change resources

Examples:
    apigwv2 watch get-api-mapping --input mappings.yaml
    apigwv2 watch update-vpc-link --input links.json --force
    apigwv2 watch get-model-template --input models.json --debounce 1s`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			op, ok := apigw.Lookup(args[0])
			if !ok {
				return usageError(fmt.Errorf("unknown operation: %s", args[0]))
			}
			if input == "" || input == "-" {
				return usageError(fmt.Errorf("watch needs --input FILE"))
			}
			d := op.Descriptor()
			if d.Mutating && !force {
				return usageError(fmt.Errorf("%s changes resources; watch requires --force", d.Command))
			}

			settings, err := a.settings(cmd)
			if err != nil {
				return err
			}

			in := operation.Input{
				Select:    selectExpr,
				SelectSet: cmd.Flags().Changed("select"),
				PassThru:  passThru,
				Force:     force,
			}
			return runWatch(cmd.Context(), a, op, settings, in, watchOptions{
				input:    input,
				debounce: debounce,
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Input file of parameter sets (JSON or YAML)")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVar(&selectExpr, "select", "", "Output selector: *, a response field, or ^Parameter")
	cmd.Flags().BoolVar(&passThru, "pass-thru", false, "Output the pass-through parameter instead of the response")
	cmd.Flags().BoolVar(&force, "force", false, "Run mutating operations without confirmation")

	return cmd
}

type watchOptions struct {
	input    string
	debounce time.Duration
}

// runWatch runs the batch and re-runs it on changes until ctx is done.
func runWatch(ctx context.Context, a *app, op apigw.Operation, settings *config.Config, in operation.Input, opts watchOptions) error {
	path, err := filepath.Abs(opts.input)
	if err != nil {
		return usageError(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Editors often replace the file rather than write it, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	// No prompts in watch mode: mutating operations already required --force.
	b, err := a.newBatch(ctx, op, settings, true)
	if err != nil {
		return err
	}

	runOnce := func() {
		r, closeInput, err := a.openInput(path)
		if err != nil {
			fmt.Fprintf(a.stderr, "%s %v\n", b.styles.Error.Render("error:"), err)
			return
		}
		defer closeInput()

		sum, err := b.run(ctx, in, r)
		if err != nil {
			fmt.Fprintf(a.stderr, "%s %v\n", b.styles.Error.Render("error:"), err)
		}
		summary := apigwv2.RunSummary{
			Total:     sum.Total,
			Succeeded: sum.Succeeded,
			Failed:    sum.Failed,
			Declined:  sum.Declined,
			Invalid:   sum.Invalid,
		}
		if b.errOut != nil {
			_ = b.errOut.WriteRecord(summary)
			return
		}
		style := b.styles.Success
		if !summary.OK() {
			style = b.styles.Error
		}
		fmt.Fprintln(a.stderr, style.Render(fmt.Sprintf("%d run, %d succeeded, %d failed, %d declined",
			summary.Total, summary.Succeeded, summary.Failed, summary.Declined)))
	}

	fmt.Fprintf(a.stderr, "Watching: %s\n", path)
	runOnce()

	var debounceTimer *time.Timer
	rerun := make(chan struct{}, 1)

	fmt.Fprintln(a.stderr, "Watching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			fmt.Fprintf(a.stderr, "\n[%s] Change detected, running %s...\n", time.Now().Format("15:04:05"), op.Descriptor().Command)
			runOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(a.stderr, "Watch error: %v\n", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			fmt.Fprintln(a.stderr, "\nStopping watch...")
			return nil
		}
	}
}
