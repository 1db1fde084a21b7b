// Package cli implements the splice command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/codec"
	"github.com/roach88/splice/internal/config"
	"github.com/roach88/splice/internal/store"
)

// RootOptions holds global flags for all commands and the state derived
// from them before a command runs.
type RootOptions struct {
	Verbose      bool
	Format       string // report format: "text" | "json"
	ConfigPath   string
	Database     string
	OutputFormat string // document encoding: "json" | "yaml"
	Out          string

	// IDs overrides snapshot ID generation (for testing).
	IDs store.IDGenerator

	Config *config.Config
	Logger *slog.Logger
	RunID  string
}

// ValidFormats defines the allowed report formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the splice CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splice",
		Short: "Edit and compare timeline compositions",
		Long: `splice reads timeline documents (JSON or YAML), restructures them and
compares them.

Inputs are file paths, "-" for stdin, or snapshot:<id> when --db is set.
Documents are written to --out, or to stdout in --output-format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "report format (json|text)")
	flags.StringVar(&opts.ConfigPath, "config", "", "CUE configuration file")
	flags.StringVar(&opts.Database, "db", "", "snapshot database (overrides store.path)")
	flags.StringVar(&opts.OutputFormat, "output-format", "", "document encoding on stdout (json|yaml, overrides output_format)")
	flags.StringVarP(&opts.Out, "out", "o", "", "write the resulting document to this file")

	cmd.AddCommand(NewCatCommand(opts))
	cmd.AddCommand(NewStackCommand(opts))
	cmd.AddCommand(NewFlattenCommand(opts))
	cmd.AddCommand(NewStripTransitionsCommand(opts))
	cmd.AddCommand(NewTrimCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewClipsCommand(opts))
	cmd.AddCommand(NewMediaCommand(opts))
	cmd.AddCommand(NewUnlinkCommand(opts))
	cmd.AddCommand(NewRelinkCommand(opts))
	cmd.AddCommand(NewCopyMediaCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))

	return cmd
}

// setup validates global flags, loads configuration and configures logging.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, ErrCodeUsage,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	o.Config = cfg

	if o.OutputFormat == "" {
		o.OutputFormat = cfg.OutputFormat
	}
	if _, err := codec.ParseFormat(o.OutputFormat); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeUsage, "invalid --output-format", err)
	}
	if o.Database == "" {
		o.Database = cfg.Store.Path
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.RunID = uuid.Must(uuid.NewV7()).String()
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	o.Logger = slog.New(handler).With("run_id", o.RunID)
	o.Logger.Debug("command starting", "command", cmd.CommandPath(), "config", o.ConfigPath)
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		RunID:     o.RunID,
	}
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Execute runs the command tree and reports any error in the configured
// format. It returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// cobra's own argument and flag errors
		err = WrapExitError(ExitCommandError, ErrCodeUsage, "invalid usage", err)
	}
	if GetErrCode(err) != ErrCodeDifferences {
		f := opts.formatter(cmd)
		_ = f.Error(GetErrCode(err), err.Error(), nil)
	}
	return GetExitCode(err)
}
