package algo

import (
	"github.com/roach88/splice/internal/opentime"
	"github.com/roach88/splice/internal/schema"
)

// FlattenedTrackName names the track FlattenStack produces.
const FlattenedTrackName = "Flattened"

// FlattenStack collapses a stack into one track. The foremost track wins:
// its visible items are copied as they are, and every span it leaves
// invisible (a gap or a hidden clip) is filled from the tracks behind it,
// trimmed to that span.
//
// A span no track fills is not dropped: it keeps the invisible item that
// opened it, trimmed to the span. This departs from emitting nothing for
// such a span so that the result always covers exactly the foremost
// track's extent and flattening a flattened stack changes nothing. The
// cost is that an unfilled hidden clip survives into the output.
//
// Transitions contribute nothing: they are neither copied nor filled from
// below. A nil track anywhere in the stack is an InvalidArgument error.
func FlattenStack(c schema.Composition) (*schema.Track, error) {
	s, ok := c.(*schema.Stack)
	if !ok || s == nil {
		return nil, schema.NewInvalidArgumentError("flatten", "not a valid Stack")
	}
	if len(s.Tracks) == 0 {
		return schema.NewTrack(FlattenedTrackName, schema.TrackKindVideo)
	}
	for i, t := range s.Tracks {
		if t == nil {
			return nil, schema.NewInvalidArgumentError("flatten", "track %d is nil", i)
		}
	}

	top := s.Tracks[0]
	f := &flattener{tracks: s.Tracks}
	if err := f.fill(0, top.AvailableRange(), hole{}); err != nil {
		return nil, err
	}
	return schema.NewTrackAt(FlattenedTrackName, top.TrackKind, top.Start(), f.out...)
}

// hole is the invisible item whose span is being filled from below, with
// the range it occupies.
type hole struct {
	item schema.Item
	span opentime.TimeRange
}

type flattener struct {
	tracks []*schema.Track
	out    []schema.Item
}

// fill emits items covering span, taken from track idx and, where it is
// invisible or absent, from the tracks behind it.
func (f *flattener) fill(idx int, span opentime.TimeRange, h hole) error {
	if span.IsEmpty() {
		return nil
	}
	if idx >= len(f.tracks) {
		return f.emitHole(h, span)
	}

	trimmed, err := TrimTrackToRange(f.tracks[idx], span)
	if err != nil {
		return err
	}

	cursor := span.StartTime
	for i, r := range trimmed.Ranges() {
		it := trimmed.At(i)
		if _, ok := it.(*schema.Transition); ok {
			continue
		}
		if r.StartTime.After(cursor) {
			if err := f.fill(idx+1, opentime.TimeRange{StartTime: cursor, Duration: r.StartTime.Sub(cursor)}, h); err != nil {
				return err
			}
		}
		if it.Visible() {
			// trimmed is a fresh copy, its items can be moved as is.
			f.out = append(f.out, it)
		} else if err := f.fill(idx+1, r, hole{item: it, span: r}); err != nil {
			return err
		}
		cursor = r.EndTimeExclusive()
	}

	end := span.EndTimeExclusive()
	if cursor.Before(end) {
		return f.fill(idx+1, opentime.TimeRange{StartTime: cursor, Duration: end.Sub(cursor)}, h)
	}
	return nil
}

// emitHole emits the hole's item trimmed to span, or a plain gap when no
// item opened the hole.
func (f *flattener) emitHole(h hole, span opentime.TimeRange) error {
	if h.item == nil {
		f.out = append(f.out, schema.NewGap(span.Duration))
		return nil
	}
	it, err := trimItem(h.item, h.span, span)
	if err != nil {
		return err
	}
	f.out = append(f.out, it)
	return nil
}
