package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/media"
	"github.com/roach88/splice/internal/schema"
)

// readCombined reads args into one composition, as cat would write it.
func (o *RootOptions) readCombined(cmd *cobra.Command, args []string) (schema.Composition, error) {
	timelines, err := o.readTimelines(cmd.Context(), cmd, args)
	if err != nil {
		return nil, err
	}
	return combine(timelines), nil
}

// NewClipsCommand creates the clips command.
func NewClipsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clips <input>...",
		Short: "List clip names in document order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.readCombined(cmd, args)
			if err != nil {
				return err
			}
			clips := schema.Clips(doc.(schema.ClipSource))
			names := lo.Map(clips, func(c *schema.Clip, _ int) string { return c.Name })
			return opts.formatter(cmd).Lines(names, "")
		},
	}
}

// NewMediaCommand creates the media command.
func NewMediaCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "media <input>...",
		Short: "List the distinct media URLs referenced by clips",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.readCombined(cmd, args)
			if err != nil {
				return err
			}
			urls := media.URLs(doc.(schema.ClipSource))
			return opts.formatter(cmd).Lines(urls, "No media references found.")
		},
	}
}

// NewUnlinkCommand creates the unlink command.
func NewUnlinkCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <input>...",
		Short: "Remove every clip's media reference",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.readCombined(cmd, args)
			if err != nil {
				return err
			}
			out, err := media.Unlink(doc)
			if err != nil {
				return invalid("unlink failed", err)
			}
			return opts.writeOutput(cmd, out)
		},
	}
}

// RelinkOptions holds flags for the relink command.
type RelinkOptions struct {
	*RootOptions
	From string
	To   string
}

// NewRelinkCommand creates the relink command.
func NewRelinkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RelinkOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "relink <input>...",
		Short: "Rewrite the prefix of media URLs",
		Long: `Point clips at moved media by replacing a leading --from in every target
URL with --to. URLs without the prefix are left alone.

Example:
  splice relink cut.json --from /Volumes/Old/ --to /Volumes/New/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.readCombined(cmd, args)
			if err != nil {
				return err
			}
			out, n, err := media.Relink(cmd.Context(), doc, media.PrefixResolver{From: opts.From, To: opts.To})
			if err != nil {
				return invalid("relink failed", err)
			}
			opts.logger().Info("media relinked", "clips", n, "from", opts.From, "to", opts.To)
			return opts.writeOutput(cmd, out)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "URL prefix to replace")
	cmd.Flags().StringVar(&opts.To, "to", "", "replacement prefix")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

// CopyMediaOptions holds flags for the copy-media command.
type CopyMediaOptions struct {
	*RootOptions
	Dir string
}

// NewCopyMediaCommand creates the copy-media command.
func NewCopyMediaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CopyMediaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "copy-media <input>...",
		Short: "Copy referenced media into a folder and relink to the copies",
		Long: `Copy every referenced file (local paths, file:// and http(s) URLs) into
--dir and point clips at the copies. A copy is named after the last
element of its URL; when that name is already taken the existing file is
reused. Media that cannot be fetched is reported and left linked to its
original URL.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.readCombined(cmd, args)
			if err != nil {
				return err
			}
			copier := media.NewCopier(opts.Dir, opts.Config.HTTPTimeout())
			copier.Logger = opts.logger()

			out, results, err := copier.Copy(cmd.Context(), doc)
			if err != nil {
				return invalid("copy-media failed", err)
			}
			failed := lo.CountBy(results, func(r media.CopyResult) bool { return r.Error != "" })
			opts.logger().Info("media copied", "urls", len(results), "failed", failed, "dir", opts.Dir)
			return opts.writeOutput(cmd, out)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "destination folder")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
