package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/codec"
	"github.com/roach88/splice/internal/schema"
	"github.com/roach88/splice/internal/store"
)

// SnapshotPrefix marks an input argument that names a stored snapshot.
const SnapshotPrefix = "snapshot:"

// openStore opens the configured snapshot database.
func (o *RootOptions) openStore() (*store.Store, error) {
	if o.Database == "" {
		return nil, NewExitError(ExitCommandError, ErrCodeUsage, "a snapshot database is required (--db or store.path)")
	}
	opts := []store.Option{store.WithLogger(o.logger())}
	if o.IDs != nil {
		opts = append(opts, store.WithIDGenerator(o.IDs))
	}
	st, err := store.Open(o.Database, opts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeStoreFailed, "failed to open database", err)
	}
	return st, nil
}

// readInput decodes one input argument: a file path, "-" for stdin in
// the output format, or snapshot:<id-or-digest>.
func (o *RootOptions) readInput(ctx context.Context, cmd *cobra.Command, arg string) (schema.Composition, error) {
	switch {
	case strings.HasPrefix(arg, SnapshotPrefix):
		st, err := o.openStore()
		if err != nil {
			return nil, err
		}
		defer st.Close()

		doc, err := st.Load(ctx, strings.TrimPrefix(arg, SnapshotPrefix))
		if errors.Is(err, store.ErrNotFound) {
			return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, "snapshot not found", err)
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeStoreFailed, "failed to load snapshot", err)
		}
		o.logger().Debug("input loaded", "snapshot", arg, "kind", doc.Kind())
		return doc, nil

	case arg == "-":
		f, _ := codec.ParseFormat(o.OutputFormat)
		doc, err := codec.Decode(cmd.InOrStdin(), f)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeReadFailed, "failed to read stdin", err)
		}
		return doc, nil

	default:
		doc, err := codec.ReadFile(arg)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeReadFailed, "failed to read input", err)
		}
		o.logger().Debug("input loaded", "path", arg, "kind", doc.Kind())
		return doc, nil
	}
}

// readTimelines reads every argument and collects its timelines. A
// Collection contributes all of its timelines in order.
func (o *RootOptions) readTimelines(ctx context.Context, cmd *cobra.Command, args []string) ([]*schema.Timeline, error) {
	var out []*schema.Timeline
	for _, arg := range args {
		doc, err := o.readInput(ctx, cmd, arg)
		if err != nil {
			return nil, err
		}
		switch v := doc.(type) {
		case *schema.Timeline:
			out = append(out, v)
		case *schema.Collection:
			out = append(out, v.Timelines...)
		default:
			return nil, NewExitError(ExitCommandError, ErrCodeInvalidInput,
				fmt.Sprintf("%s: expected a Timeline or Collection, got %s", arg, doc.Kind()))
		}
	}
	return out, nil
}

// combine returns the single timeline, or a Collection when there are
// several.
func combine(timelines []*schema.Timeline) schema.Composition {
	if len(timelines) == 1 {
		return timelines[0]
	}
	return &schema.Collection{Name: "Collection", Timelines: timelines}
}

// writeOutput writes doc to --out, or to stdout in the output format.
func (o *RootOptions) writeOutput(cmd *cobra.Command, doc schema.Composition) error {
	if o.Out != "" {
		if err := codec.WriteFile(o.Out, doc); err != nil {
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, "failed to write output", err)
		}
		o.logger().Info("document written", "path", o.Out, "kind", doc.Kind())
		return nil
	}

	f, _ := codec.ParseFormat(o.OutputFormat)
	if err := codec.Encode(cmd.OutOrStdout(), doc, f); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, "failed to write output", err)
	}
	return nil
}

// invalid wraps an operation error on decoded input.
func invalid(message string, err error) error {
	if schema.IsInvalidArgument(err) {
		return WrapExitError(ExitCommandError, ErrCodeInvalidInput, message, err)
	}
	return WrapExitError(ExitFailure, ErrCodeGeneric, message, err)
}
