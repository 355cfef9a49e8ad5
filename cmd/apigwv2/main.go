// Command apigwv2 calls Amazon API Gateway V2 operations from the shell.
//
// Usage:
//
//	apigwv2 get-api-mapping example.com --ApiMappingId abc      Read an API mapping
//	apigwv2 get-model-template a1b2c3 --model-id m1              Print a model template
//	apigwv2 update-vpc-link vpc-123 --Name edge --force          Rename a VPC link
//	apigwv2 operations                                           List operations
//	apigwv2 version                                              Show version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/config"
	"github.com/lex00/apigwv2-go/internal/invoker"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries a process exit code. A nil err means the failure was
// already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// clientFactory builds the service client and reports the resolved region.
type clientFactory func(ctx context.Context, cfg *config.Config) (apigw.Client, string, error)

func newAWSClient(ctx context.Context, cfg *config.Config) (apigw.Client, string, error) {
	awsCfg, err := config.LoadAWS(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	return apigw.NewClient(awsCfg, cfg.EndpointURL), awsCfg.Region, nil
}

// app holds the global flags and the process streams shared by all commands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newClient clientFactory
	// confirmer overrides the interactive prompt.
	confirmer invoker.Confirmer
	// interactive reports whether a confirmation prompt can be shown.
	interactive func() bool

	configPath  string
	region      string
	profile     string
	endpointURL string
	format      string
	logLevel    string
	logFormat   string
	maxAttempts int
}

func newApp() *app {
	return &app{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newClient: newAWSClient,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, a *app, args []string) int {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(a.stderr, "Error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(a.stderr, "Error:", err)
	return exitFailure
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apigwv2",
		Short: "Call Amazon API Gateway V2 operations",
		Long: `apigwv2 calls Amazon API Gateway V2 operations from the shell.

Each operation is a subcommand whose flags are the operation's parameters:

    apigwv2 get-api-mapping example.com --ApiMappingId abc

Parameter sets can also be streamed as JSON or YAML, one call per element:

    cat links.json | apigwv2 update-vpc-link --input - --force`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	pf.StringVar(&a.region, "region", "", "AWS region")
	pf.StringVar(&a.profile, "profile", "", "Shared config profile")
	pf.StringVar(&a.endpointURL, "endpoint-url", "", "Override the service endpoint URL")
	pf.StringVarP(&a.format, "format", "f", "", "Output format: json, yaml or text")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	pf.IntVar(&a.maxAttempts, "max-attempts", 0, "Maximum attempts per call, including retries")

	for _, op := range apigw.Operations() {
		rootCmd.AddCommand(newOperationCmd(a, op))
	}
	rootCmd.AddCommand(
		newListCmd(a),
		newGraphCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// settings resolves the configuration: defaults, config file, environment,
// then explicitly given flags.
func (a *app) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, usageError(err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, usageError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("region") {
		cfg.Region = a.region
	}
	if flags.Changed("profile") {
		cfg.Profile = a.profile
	}
	if flags.Changed("endpoint-url") {
		cfg.EndpointURL = a.endpointURL
	}
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = a.maxAttempts
	}

	if err := cfg.Validate(); err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
