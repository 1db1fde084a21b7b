// Package algo implements the structural operations over composition trees:
// trimming, flattening, stacking and transition removal. Every operation
// reads its input and builds a new tree; inputs are never modified.
package algo

import (
	"github.com/roach88/splice/internal/opentime"
	"github.com/roach88/splice/internal/schema"
)

// TrimTrackToRange returns a new track holding only the part of track that
// intersects r. The result keeps track coordinates: its Start is
// max(track.Start(), r.StartTime).
//
// Items entirely inside r are copied unchanged. Items straddling an edge of
// r are copied with a SourceRange shortened to the overlap. Zero-length
// items are dropped, as are transitions not entirely inside r.
func TrimTrackToRange(track *schema.Track, r opentime.TimeRange) (*schema.Track, error) {
	if track == nil {
		return nil, schema.NewInvalidArgumentError("trim", "track is nil")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var items []schema.Item
	for i, itemRange := range track.Ranges() {
		it := track.At(i)
		if itemRange.IsEmpty() {
			continue
		}
		if r.ContainsRange(itemRange) {
			items = append(items, it.Clone())
			continue
		}
		if _, ok := it.(*schema.Transition); ok {
			continue
		}
		overlap, ok := itemRange.Intersect(r)
		if !ok || overlap.IsEmpty() {
			continue
		}
		trimmed, err := trimItem(it, itemRange, overlap)
		if err != nil {
			return nil, err
		}
		items = append(items, trimmed)
	}

	out, err := schema.NewTrackAt(track.Name, track.TrackKind, opentime.Max(track.Start(), r.StartTime), items...)
	if err != nil {
		return nil, err
	}
	out.Metadata = track.Metadata.Clone()
	return out, nil
}

// trimItem copies it, narrowing its SourceRange to the part that plays
// during span. itemRange is where it sits in its track.
func trimItem(it schema.Item, itemRange, span opentime.TimeRange) (schema.Item, error) {
	if span.Equal(itemRange) {
		return it.Clone(), nil
	}
	src, err := it.TrimmedRange()
	if err != nil {
		return nil, err
	}
	offset := span.StartTime.Sub(itemRange.StartTime)
	trimmed := opentime.TimeRange{
		StartTime: src.StartTime.Add(offset),
		Duration:  span.Duration,
	}
	out := it.Clone()
	out.Base().SourceRange = &trimmed
	return out, nil
}
