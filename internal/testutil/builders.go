// Package testutil provides builders and deterministic generators for tests.
//
// All builders use a fixed rate of 24 ticks per second so expected values
// can be written as plain frame counts:
//
//	track := testutil.Track(t, "V1",
//		testutil.Clip("A", 0, 5),
//		testutil.Gap(5),
//	)
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/splice/internal/opentime"
	"github.com/roach88/splice/internal/schema"
)

// Rate is the tick rate every builder uses.
const Rate = 24

// RT returns v frames at Rate.
func RT(v int64) opentime.RationalTime {
	return opentime.NewRationalTime(v, Rate)
}

// Range returns [start, start+dur) in frames at Rate.
func Range(start, dur int64) opentime.TimeRange {
	return opentime.TimeRange{StartTime: RT(start), Duration: RT(dur)}
}

// RangePtr is Range for optional range fields.
func RangePtr(start, dur int64) *opentime.TimeRange {
	r := Range(start, dur)
	return &r
}

// Clip returns a visible clip using source frames [start, start+dur).
func Clip(name string, start, dur int64) *schema.Clip {
	return schema.NewClip(name, nil, RangePtr(start, dur))
}

// MediaClip returns a clip referencing url with the given available range
// and no source range.
func MediaClip(name, url string, start, dur int64) *schema.Clip {
	return schema.NewClip(name, &schema.MediaReference{TargetURL: url, AvailableRange: RangePtr(start, dur)}, nil)
}

// HiddenClip returns a clip marked invisible.
func HiddenClip(name string, start, dur int64) *schema.Clip {
	c := Clip(name, start, dur)
	c.Hidden = true
	return c
}

// Gap returns a gap of dur frames.
func Gap(dur int64) *schema.Gap {
	return schema.NewGap(RT(dur))
}

// Transition returns a dissolve overlapping in and out frames.
func Transition(name string, in, out int64) *schema.Transition {
	return schema.NewTransition(name, schema.TransitionTypeDissolve, RT(in), RT(out))
}

// Track builds a video track, failing the test on invalid items.
func Track(t testing.TB, name string, items ...schema.Item) *schema.Track {
	t.Helper()
	track, err := schema.NewTrack(name, schema.TrackKindVideo, items...)
	require.NoError(t, err)
	return track
}

// Timeline builds a timeline over the given tracks.
func Timeline(name string, tracks ...*schema.Track) *schema.Timeline {
	return schema.NewTimeline(name, tracks...)
}

// Names returns the names of a track's items in order.
func Names(track *schema.Track) []string {
	var out []string
	for _, it := range track.Items() {
		out = append(out, schema.NameOf(it))
	}
	return out
}
