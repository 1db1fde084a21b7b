package schema

import (
	"iter"

	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/opentime"
)

// Track kinds.
const (
	TrackKindVideo = "Video"
	TrackKindAudio = "Audio"
)

// Track is an ordered sequence of items laid end to end. Transitions
// overlap their neighbours and take no track time.
//
// Positions start at Start(), which is zero for authored tracks. A track
// produced by trimming keeps the coordinates of the range it was cut to.
type Track struct {
	Name      string
	TrackKind string
	Metadata  meta.Map

	start opentime.RationalTime
	items []Item
}

// NewTrack creates a track starting at zero.
func NewTrack(name, kind string, items ...Item) (*Track, error) {
	return NewTrackAt(name, kind, opentime.RationalTime{}, items...)
}

// NewTrackAt creates a track whose first item starts at start.
func NewTrackAt(name, kind string, start opentime.RationalTime, items ...Item) (*Track, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	t := &Track{Name: name, TrackKind: kind, start: start}
	if err := t.Append(items...); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Track) Kind() Kind { return KindTrack }

// Append adds items to the end of the track. Every item must have a
// computable, non-negative duration; on error the track is unchanged.
func (t *Track) Append(items ...Item) error {
	for i, it := range items {
		if it == nil {
			return NewInvalidArgumentError("append", "item %d is nil", i)
		}
		if _, err := itemDuration(it); err != nil {
			return err
		}
	}
	t.items = append(t.items, items...)
	return nil
}

// itemDuration is the track time an item consumes.
func itemDuration(it Item) (opentime.RationalTime, error) {
	r, err := it.TrimmedRange()
	if err != nil {
		return opentime.RationalTime{}, err
	}
	if err := r.Validate(); err != nil {
		return opentime.RationalTime{}, err
	}
	if it.Kind() == KindTransition {
		return opentime.RationalTime{}, nil
	}
	return r.Duration, nil
}

// mustDuration is itemDuration for items already validated by Append.
func mustDuration(it Item) opentime.RationalTime {
	d, _ := itemDuration(it)
	return d
}

// Len returns the number of items.
func (t *Track) Len() int { return len(t.items) }

// At returns the i'th item.
func (t *Track) At(i int) Item { return t.items[i] }

// Items iterates over (index, item) pairs in order.
func (t *Track) Items() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		for i, it := range t.items {
			if !yield(i, it) {
				return
			}
		}
	}
}

// Start returns the track-coordinate position of the first item.
func (t *Track) Start() opentime.RationalTime { return t.start }

// Duration is the sum of the non-transition item durations.
func (t *Track) Duration() opentime.RationalTime {
	var d opentime.RationalTime
	for _, it := range t.items {
		d = d.Add(mustDuration(it))
	}
	return d
}

// AvailableRange is the span the track's items cover.
func (t *Track) AvailableRange() opentime.TimeRange {
	return opentime.TimeRange{StartTime: t.start, Duration: t.Duration()}
}

// RangeOf returns the range item i occupies in track coordinates.
// A transition's range straddles the preceding cut:
// [cut - InOffset, cut + OutOffset).
func (t *Track) RangeOf(i int) (opentime.TimeRange, error) {
	if i < 0 || i >= len(t.items) {
		return opentime.TimeRange{}, NewInvalidArgumentError("range of", "index %d out of bounds [0, %d)", i, len(t.items))
	}
	cursor := t.start
	for _, it := range t.items[:i] {
		cursor = cursor.Add(mustDuration(it))
	}
	return rangeAt(t.items[i], cursor), nil
}

// Ranges returns RangeOf for every item, computed in one pass.
func (t *Track) Ranges() []opentime.TimeRange {
	out := make([]opentime.TimeRange, len(t.items))
	cursor := t.start
	for i, it := range t.items {
		out[i] = rangeAt(it, cursor)
		cursor = cursor.Add(mustDuration(it))
	}
	return out
}

func rangeAt(it Item, cursor opentime.RationalTime) opentime.TimeRange {
	if tr, ok := it.(*Transition); ok {
		return opentime.TimeRange{
			StartTime: cursor.Sub(tr.InOffset),
			Duration:  tr.InOffset.Add(tr.OutOffset),
		}
	}
	return opentime.TimeRange{StartTime: cursor, Duration: mustDuration(it)}
}

// Clone returns a deep copy of the track and all its items.
func (t *Track) Clone() *Track {
	if t == nil {
		return nil
	}
	out := &Track{
		Name:      t.Name,
		TrackKind: t.TrackKind,
		Metadata:  t.Metadata.Clone(),
		start:     t.start,
	}
	if t.items != nil {
		out.items = make([]Item, len(t.items))
		for i, it := range t.items {
			out.items[i] = it.Clone()
		}
	}
	return out
}

// EachClip yields the track's clips in order.
func (t *Track) EachClip() iter.Seq[*Clip] {
	return func(yield func(*Clip) bool) {
		for _, it := range t.items {
			if c, ok := it.(*Clip); ok && !yield(c) {
				return
			}
		}
	}
}
