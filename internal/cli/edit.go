package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/algo"
	"github.com/roach88/splice/internal/opentime"
	"github.com/roach88/splice/internal/schema"
)

// transformTimelines reads args, applies fn to every timeline and writes
// the result.
func (o *RootOptions) transformTimelines(cmd *cobra.Command, args []string, op string, fn func(*schema.Timeline) (*schema.Timeline, error)) error {
	timelines, err := o.readTimelines(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}
	out := make([]*schema.Timeline, 0, len(timelines))
	for _, tl := range timelines {
		next, err := fn(tl)
		if err != nil {
			return invalid(op+" failed", err)
		}
		out = append(out, next)
	}
	o.logger().Debug(op+" done", "timelines", len(out))
	return o.writeOutput(cmd, combine(out))
}

// NewCatCommand creates the cat command.
func NewCatCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <input>...",
		Short: "Re-encode documents, combining several into a Collection",
		Long: `Read timeline documents and write them back out.

One input is written as is; several are combined into a Collection. Use
this to convert between JSON and YAML or to normalize a hand-edited file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.transformTimelines(cmd, args, "cat", func(tl *schema.Timeline) (*schema.Timeline, error) {
				return tl, nil
			})
		},
	}
}

// StackOptions holds flags for the stack command.
type StackOptions struct {
	*RootOptions
	Name string
}

// NewStackCommand creates the stack command.
func NewStackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stack <input>...",
		Short: "Stack the tracks of every input into one timeline",
		Long: `Build a single timeline whose stack holds every track of every input,
input order first. A timeline with exactly one track lends that track its
own name, so the result shows which track came from which file.

Example:
  splice stack reel1.json reel2.json --name "All Reels"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timelines, err := opts.readTimelines(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			name := opts.Name
			if name == "" {
				name = opts.Config.StackName
			}
			stacked := algo.StackTimelines(name, timelines...)
			opts.logger().Info("timelines stacked", "name", name, "inputs", len(timelines), "tracks", stacked.Tracks.Len())
			return opts.writeOutput(cmd, stacked)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "name of the stacked timeline (default from config stack_name)")
	return cmd
}

// NewFlattenCommand creates the flatten command.
func NewFlattenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flatten <input>...",
		Short: "Collapse each timeline's tracks into one",
		Long: `Replace every timeline's tracks with a single track showing what plays.

The first track is the foremost: its visible clips are kept, and the spans
it leaves empty (gaps, hidden clips) are filled from the tracks behind it.
Transitions are dropped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.transformTimelines(cmd, args, "flatten", flattenTimeline)
		},
	}
}

func flattenTimeline(tl *schema.Timeline) (*schema.Timeline, error) {
	stack := tl.Tracks
	if stack == nil {
		stack = schema.NewStack(schema.DefaultStackName)
	}
	track, err := algo.FlattenStack(stack)
	if err != nil {
		return nil, err
	}
	out := &schema.Timeline{Name: tl.Name, Metadata: tl.Metadata.Clone(), Tracks: schema.NewStack(stack.Name, track)}
	out.Tracks.Metadata = stack.Metadata.Clone()
	return out, nil
}

// NewStripTransitionsCommand creates the strip-transitions command.
func NewStripTransitionsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "strip-transitions <input>...",
		Short: "Remove every transition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.transformTimelines(cmd, args, "strip-transitions", func(tl *schema.Timeline) (*schema.Timeline, error) {
				if tl.Tracks != nil {
					opts.logger().Debug("removing transitions", "timeline", tl.Name, "count", algo.CountTransitions(tl.Tracks))
				}
				return algo.TimelineWithoutTransitions(tl)
			})
		},
	}
}

// TrimOptions holds flags for the trim command.
type TrimOptions struct {
	*RootOptions
	Start    int64
	Duration int64
	Rate     int64
}

// NewTrimCommand creates the trim command.
func NewTrimCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrimOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trim <input>...",
		Short: "Keep only a time range of every track",
		Long: `Cut every track down to [start, start+duration), counted in frames at
--rate. Clips straddling an edge are shortened; the result keeps the
original track positions.

Example:
  splice trim cut.json --start 48 --duration 240 --rate 24`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Rate <= 0 || opts.Duration < 0 {
				return NewExitError(ExitCommandError, ErrCodeUsage, "--rate must be positive and --duration non-negative")
			}
			r := opentime.TimeRange{
				StartTime: opentime.NewRationalTime(opts.Start, opts.Rate),
				Duration:  opentime.NewRationalTime(opts.Duration, opts.Rate),
			}
			return opts.transformTimelines(cmd, args, "trim", func(tl *schema.Timeline) (*schema.Timeline, error) {
				return trimTimeline(tl, r)
			})
		},
	}

	cmd.Flags().Int64Var(&opts.Start, "start", 0, "first frame to keep")
	cmd.Flags().Int64Var(&opts.Duration, "duration", 0, "number of frames to keep")
	cmd.Flags().Int64Var(&opts.Rate, "rate", 24, "frames per second of --start and --duration")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func trimTimeline(tl *schema.Timeline, r opentime.TimeRange) (*schema.Timeline, error) {
	out := tl.Clone()
	if out.Tracks == nil {
		return out, nil
	}
	for i, track := range out.Tracks.Tracks {
		trimmed, err := algo.TrimTrackToRange(track, r)
		if err != nil {
			return nil, err
		}
		out.Tracks.Tracks[i] = trimmed
	}
	return out, nil
}
