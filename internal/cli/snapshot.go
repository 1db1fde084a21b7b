package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/store"
)

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and retrieve documents in the snapshot database",
		Long: `Snapshots freeze a document in the database given by --db (or
store.path). Saving content that is already stored returns the existing
snapshot. Any command input may then be given as snapshot:<id>.`,
	}

	cmd.AddCommand(newSnapshotSaveCommand(opts))
	cmd.AddCommand(newSnapshotListCommand(opts))
	cmd.AddCommand(newSnapshotShowCommand(opts))
	cmd.AddCommand(newSnapshotRemoveCommand(opts))
	return cmd
}

// snapshotLine is the text form of a snapshot.
type snapshotLine store.Snapshot

func (s snapshotLine) String() string {
	return fmt.Sprintf("%s\t%d\t%s\t%s\t%s", s.ID, s.Seq, s.Kind, s.Digest[:12], s.Name)
}

func newSnapshotSaveCommand(opts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <input>",
		Short: "Store a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.readInput(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if name == "" {
				name = args[0]
			}
			snap, created, err := st.Save(cmd.Context(), name, doc)
			if err != nil {
				return invalid("failed to save snapshot", err)
			}
			opts.logger().Info("snapshot", "id", snap.ID, "created", created)
			return opts.formatter(cmd).Success(snapshotLine(snap))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "snapshot name (default: the input argument)")
	return cmd
}

func newSnapshotListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snaps, err := st.List(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeStoreFailed, "failed to list snapshots", err)
			}

			f := opts.formatter(cmd)
			if f.Format == "json" {
				if snaps == nil {
					snaps = []store.Snapshot{}
				}
				return f.Success(snaps)
			}
			lines := make([]string, len(snaps))
			for i, s := range snaps {
				lines[i] = snapshotLine(s).String()
			}
			return f.Lines(lines, "No snapshots.")
		},
	}
}

func newSnapshotShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-digest>",
		Short: "Write a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.readInput(cmd.Context(), cmd, SnapshotPrefix+strings.TrimPrefix(args[0], SnapshotPrefix))
			if err != nil {
				return err
			}
			return opts.writeOutput(cmd, doc)
		},
	}
}

func newSnapshotRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			id := strings.TrimPrefix(args[0], SnapshotPrefix)
			if err := st.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return WrapExitError(ExitCommandError, ErrCodeNotFound, "snapshot not found", err)
				}
				return WrapExitError(ExitCommandError, ErrCodeStoreFailed, "failed to delete snapshot", err)
			}
			return opts.formatter(cmd).Success("deleted " + id)
		},
	}
}
