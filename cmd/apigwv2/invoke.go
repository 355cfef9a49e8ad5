package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	apigwv2 "github.com/lex00/apigwv2-go"
	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/cmdlet"
	"github.com/lex00/apigwv2-go/internal/config"
	"github.com/lex00/apigwv2-go/internal/invoker"
	"github.com/lex00/apigwv2-go/internal/operation"
	"github.com/lex00/apigwv2-go/internal/pipeline"
	"github.com/lex00/apigwv2-go/internal/render"
)

type invokeOptions struct {
	selectExpr string
	passThru   bool
	force      bool
	input      string
}

// newOperationCmd creates the subcommand for one operation.
func newOperationCmd(a *app, op apigw.Operation) *cobra.Command {
	d := op.Descriptor()
	opts := &invokeOptions{}
	positional := d.Positional()

	cmd := &cobra.Command{
		Use:     d.Command + usageArgs(positional),
		Aliases: []string{d.Name},
		Short:   d.Synopsis,
		Long:    operationHelp(d),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(len(positional))(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOperation(cmd, op, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SetNormalizeFunc(normalizeFlags(d))
	for _, p := range d.Params {
		flags.String(p.Name, "", paramUsage(p))
	}
	flags.StringVar(&opts.selectExpr, "select", d.DefaultSelect, "Output selector: *, a response field, or ^Parameter")
	flags.BoolVar(&opts.passThru, "pass-thru", false, "Output the "+d.PassThrough+" parameter instead of the response")
	flags.StringVar(&opts.input, "input", "", "Read parameter sets from a JSON or YAML file (- for stdin)")
	if d.Mutating {
		flags.BoolVar(&opts.force, "force", false, "Skip the confirmation prompt")
	}

	return cmd
}

func (a *app) runOperation(cmd *cobra.Command, op apigw.Operation, opts *invokeOptions, args []string) error {
	ctx := cmd.Context()
	settings, err := a.settings(cmd)
	if err != nil {
		return err
	}

	in := operation.Input{
		Named:      namedValues(cmd.Flags(), op.Descriptor()),
		Positional: args,
		Select:     opts.selectExpr,
		SelectSet:  cmd.Flags().Changed("select"),
		PassThru:   opts.passThru,
		Force:      opts.force,
	}

	var source io.Reader
	if opts.input != "" {
		r, closeInput, err := a.openInput(opts.input)
		if err != nil {
			return usageError(err)
		}
		defer closeInput()
		source = r
	}

	b, err := a.newBatch(ctx, op, settings, opts.input == "-")
	if err != nil {
		return err
	}

	sum, err := b.run(ctx, in, source)
	if err != nil {
		return err
	}
	return exitFor(sum)
}

// openInput opens path, or stdin for "-".
func (a *app) openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return a.stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// exitFor maps a run summary onto an exit status. A run where every item
// failed binding is a usage error.
func exitFor(sum cmdlet.Summary) error {
	switch {
	case sum.OK():
		return nil
	case sum.Invalid == sum.Total:
		return &exitError{code: exitUsage}
	default:
		return &exitError{code: exitFailure}
	}
}

// batch renders the records of one cmdlet run.
type batch struct {
	cmdlet    *cmdlet.Cmdlet
	out       *render.Writer
	errOut    *render.Writer // nil for text output
	stderr    io.Writer
	styles    styles
	streaming bool
}

func (a *app) newBatch(ctx context.Context, op apigw.Operation, settings *config.Config, stdinInUse bool) (*batch, error) {
	format, err := render.ParseFormat(settings.Format)
	if err != nil {
		return nil, usageError(err)
	}
	logger := newLogger(a.stderr, settings)

	client, region, err := a.newClient(ctx, settings)
	if err != nil {
		return nil, err
	}

	st := newStyles(a.stderr)
	inv := invoker.New(client,
		invoker.Config{Region: region, EndpointURL: settings.EndpointURL},
		invoker.WithLogger(logger),
		invoker.WithConfirmer(a.confirmerFor(st, stdinInUse)),
	)

	b := &batch{
		out:    render.NewWriter(a.stdout, format),
		stderr: a.stderr,
		styles: st,
	}
	if format != render.FormatText {
		b.errOut = render.NewWriter(a.stderr, format)
	}
	b.cmdlet = &cmdlet.Cmdlet{
		Op:      op,
		Invoker: inv,
		Emit:    b.emit,
		Logger:  logger.With("operation", op.Descriptor().Name),
	}
	return b, nil
}

func (b *batch) run(ctx context.Context, in operation.Input, source io.Reader) (cmdlet.Summary, error) {
	b.streaming = source != nil
	return b.cmdlet.Run(ctx, in, source)
}

func (b *batch) emit(rec cmdlet.Record) error {
	res := rec.Result
	switch {
	case res.Succeeded():
		if res.Output == nil {
			return nil
		}
		return b.out.Write(res.Output)

	case res.Declined():
		_, err := fmt.Fprintf(b.stderr, "%s%s %s: not confirmed (use --force to skip confirmation)\n",
			b.prefix(rec), b.styles.Warning.Render("skipped"), res.Operation)
		return err

	case res.Failed():
		if b.errOut != nil {
			return b.errOut.WriteRecord(failureOf(rec))
		}
		_, err := fmt.Fprintf(b.stderr, "%s%s %v\n", b.prefix(rec), b.styles.Error.Render("error:"), res.Err)
		return err
	}
	return nil
}

func (b *batch) prefix(rec cmdlet.Record) string {
	if !b.streaming {
		return ""
	}
	return b.styles.Dim.Render(fmt.Sprintf("[%d]", rec.Index)) + " "
}

// failureOf converts a failed record into its machine-readable form.
func failureOf(rec cmdlet.Record) apigwv2.Failure {
	res := rec.Result
	f := apigwv2.Failure{
		Index:     rec.Index,
		Operation: res.Operation,
		Kind:      apigwv2.KindError,
		Message:   res.Err.Error(),
		Warnings:  res.Warnings,
	}

	var (
		verr *operation.ValidationError
		terr *invoker.TransportError
		serr *invoker.ServiceError
		eerr *pipeline.ElementError
	)
	switch {
	case errors.As(res.Err, &verr):
		f.Kind = apigwv2.KindValidation
	case errors.As(res.Err, &terr):
		f.Kind = apigwv2.KindTransport
	case errors.As(res.Err, &serr):
		f.Kind = apigwv2.KindService
		f.Code = serr.Code
		f.RequestID = serr.RequestID
	case errors.As(res.Err, &eerr):
		f.Kind = apigwv2.KindInput
	}
	return f
}

// namedValues collects the parameter flags that were given.
func namedValues(flags *pflag.FlagSet, d *operation.Descriptor) operation.Values {
	values := operation.Values{}
	for _, p := range d.Params {
		if !flags.Changed(p.Name) {
			continue
		}
		v, err := flags.GetString(p.Name)
		if err != nil {
			continue
		}
		values[p.Name] = &v
	}
	return values
}

// commonFlags are the non-parameter flags, keyed by their normalized form.
var commonFlags = map[string]string{
	"select":   "select",
	"passthru": "pass-thru",
	"force":    "force",
	"input":    "input",
}

// normalizeFlags accepts parameter flags in any case and with or without
// dashes, so --VpcLinkId, --vpclinkid and --vpc-link-id are the same flag.
func normalizeFlags(d *operation.Descriptor) func(*pflag.FlagSet, string) pflag.NormalizedName {
	params := make(map[string]string, len(d.Params))
	for _, p := range d.Params {
		params[flagKey(p.Name)] = p.Name
	}
	return func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		key := flagKey(name)
		if canonical, ok := params[key]; ok {
			return pflag.NormalizedName(canonical)
		}
		if canonical, ok := commonFlags[key]; ok {
			return pflag.NormalizedName(canonical)
		}
		return pflag.NormalizedName(name)
	}
}

func flagKey(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
}

// kebab converts a parameter name to its dashed alias, e.g.
// "ApiMappingId" -> "api-mapping-id".
func kebab(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				sb.WriteByte('-')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

func paramUsage(p operation.ParameterSpec) string {
	var sb strings.Builder
	sb.WriteString(p.Description)
	if p.Required {
		sb.WriteString(" (required)")
	}
	fmt.Fprintf(&sb, " [alias --%s]", kebab(p.Name))
	return strings.TrimSpace(sb.String())
}

func usageArgs(positional []operation.ParameterSpec) string {
	var sb strings.Builder
	for _, p := range positional {
		sb.WriteString(" [" + p.Name + "]")
	}
	return sb.String()
}

func operationHelp(d *operation.Descriptor) string {
	var sb strings.Builder
	sb.WriteString(d.Synopsis)
	sb.WriteString("\n\nParameters:\n")
	for _, p := range d.Params {
		var notes []string
		if p.Required {
			notes = append(notes, "required")
		}
		if p.Position != operation.NoPosition {
			notes = append(notes, fmt.Sprintf("position %d", p.Position))
		}
		if p.PipelineValue {
			notes = append(notes, "accepts bare input values")
		} else if p.Pipeline {
			notes = append(notes, "accepts input by property name")
		}
		fmt.Fprintf(&sb, "    %-14s %s\n", p.Name, strings.Join(notes, ", "))
	}
	fmt.Fprintf(&sb, "\nDefault output: %s", describeSelect(d.DefaultSelect))
	if len(d.Fields) > 0 {
		fmt.Fprintf(&sb, "\nSelectable fields: %s", strings.Join(d.Fields, ", "))
	}
	if d.Mutating {
		sb.WriteString("\n\nThis operation changes the resource and asks for confirmation unless --force is given.")
	}
	return sb.String()
}

func describeSelect(expr string) string {
	if expr == "" || expr == "*" {
		return "the whole response"
	}
	return "the " + expr + " field"
}
