package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/diff"
	"github.com/roach88/splice/internal/schema"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Ignore  []string
	Context int
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare the clips of two documents",
		Long: `Match clips between two documents by name and report what differs.

Names found on one side only, clip count mismatches and clips whose content
changed are differences; the command then exits 1, like diff(1). Names
repeated on either side cannot be matched and are listed as ambiguous
without failing the comparison.

Metadata paths listed with --ignore (default from config
diff.ignore_metadata) are masked before comparing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringSliceVar(&opts.Ignore, "ignore", nil, "metadata path to ignore, e.g. ALE/Modified Date (repeatable)")
	cmd.Flags().IntVar(&opts.Context, "context", 3, "lines of context around each change")
	return cmd
}

func runDiff(opts *DiffOptions, cmd *cobra.Command, argA, argB string) error {
	sides := make([]schema.ClipSource, 2)
	for i, arg := range []string{argA, argB} {
		doc, err := opts.readInput(cmd.Context(), cmd, arg)
		if err != nil {
			return err
		}
		src, ok := doc.(schema.ClipSource)
		if !ok {
			return NewExitError(ExitCommandError, ErrCodeInvalidInput,
				fmt.Sprintf("%s: cannot compare a %s", arg, doc.Kind()))
		}
		sides[i] = src
	}

	dopts := diff.DefaultOptions()
	dopts.IgnoreMetadata = opts.Config.Diff.IgnoreMetadata
	if cmd.Flags().Changed("ignore") {
		dopts.IgnoreMetadata = opts.Ignore
	}
	dopts.Context = opts.Context

	report, err := diff.Diff(sides[0], sides[1], dopts)
	if err != nil {
		return invalid("diff failed", err)
	}
	opts.logger().Debug("diff done",
		"count_a", report.CountA,
		"count_b", report.CountB,
		"changed", len(report.Changed),
		"ambiguous", len(report.Ambiguous),
	)

	f := opts.formatter(cmd)
	if f.Format == "json" {
		err = f.Success(report)
	} else {
		err = report.WriteText(cmd.OutOrStdout())
	}
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, "failed to write report", err)
	}

	if report.HasDifferences() {
		return NewExitError(ExitFailure, ErrCodeDifferences, "differences found")
	}
	return nil
}
