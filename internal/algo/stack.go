package algo

import (
	"github.com/samber/lo"

	"github.com/roach88/splice/internal/schema"
)

// DefaultStackedName is the conventional name for StackTimelines output.
const DefaultStackedName = "Stacked Timelines"

// StackTracks returns a new stack holding deep copies of tracks, in order.
// Nil tracks are skipped.
func StackTracks(name string, tracks ...*schema.Track) *schema.Stack {
	copies := lo.FilterMap(tracks, func(t *schema.Track, _ int) (*schema.Track, bool) {
		if t == nil {
			return nil, false
		}
		return t.Clone(), true
	})
	return schema.NewStack(name, copies...)
}

// StackTimelines builds a timeline named name whose stack holds copies of
// every input timeline's tracks, input order first, then track order. A
// timeline contributing exactly one track lends that track its own name.
func StackTimelines(name string, timelines ...*schema.Timeline) *schema.Timeline {
	out := schema.NewTimeline(name)
	out.Tracks.Name = name
	for _, tl := range timelines {
		if tl == nil || tl.Tracks == nil {
			continue
		}
		stacked := StackTracks(name, tl.Tracks.Tracks...)
		if stacked.Len() == 1 {
			stacked.At(0).Name = tl.Name
		}
		out.Tracks.Tracks = append(out.Tracks.Tracks, stacked.Tracks...)
	}
	return out
}
