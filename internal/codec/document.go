package codec

import (
	"fmt"

	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/opentime"
	"github.com/roach88/splice/internal/schema"
)

// Wire shapes. Field order here is output order.

type mediaDoc struct {
	Name           string              `json:"name,omitempty" yaml:"name,omitempty"`
	TargetURL      string              `json:"target_url,omitempty" yaml:"target_url,omitempty"`
	AvailableRange *opentime.TimeRange `json:"available_range,omitempty" yaml:"available_range,omitempty"`
	Metadata       meta.Map            `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// itemDoc carries every item kind; fields foreign to a kind must be absent.
type itemDoc struct {
	Kind           string                 `json:"kind" yaml:"kind"`
	Name           string                 `json:"name,omitempty" yaml:"name,omitempty"`
	SourceRange    *opentime.TimeRange    `json:"source_range,omitempty" yaml:"source_range,omitempty"`
	Hidden         bool                   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	MediaReference *mediaDoc              `json:"media_reference,omitempty" yaml:"media_reference,omitempty"`
	TransitionType string                 `json:"transition_type,omitempty" yaml:"transition_type,omitempty"`
	InOffset       *opentime.RationalTime `json:"in_offset,omitempty" yaml:"in_offset,omitempty"`
	OutOffset      *opentime.RationalTime `json:"out_offset,omitempty" yaml:"out_offset,omitempty"`
	Metadata       meta.Map               `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type trackDoc struct {
	Kind      string                 `json:"kind" yaml:"kind"`
	Name      string                 `json:"name,omitempty" yaml:"name,omitempty"`
	TrackKind string                 `json:"track_kind,omitempty" yaml:"track_kind,omitempty"`
	Start     *opentime.RationalTime `json:"start,omitempty" yaml:"start,omitempty"`
	Items     []itemDoc              `json:"items" yaml:"items"`
	Metadata  meta.Map               `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type stackDoc struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Tracks   []trackDoc `json:"tracks" yaml:"tracks"`
	Metadata meta.Map   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type timelineDoc struct {
	Kind     string    `json:"kind" yaml:"kind"`
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Tracks   *stackDoc `json:"tracks,omitempty" yaml:"tracks,omitempty"`
	Metadata meta.Map  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type collectionDoc struct {
	Kind      string        `json:"kind" yaml:"kind"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Timelines []timelineDoc `json:"timelines" yaml:"timelines"`
	Metadata  meta.Map      `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// kindDoc reads only the discriminator.
type kindDoc struct {
	Kind string `json:"kind" yaml:"kind"`
}

// toDocument converts a composition to its wire shape.
func toDocument(c schema.Composition) (any, error) {
	switch v := c.(type) {
	case *schema.Timeline:
		if v != nil {
			return encodeTimeline(v), nil
		}
	case *schema.Collection:
		if v != nil {
			return encodeCollection(v), nil
		}
	case *schema.Stack:
		if v != nil {
			return encodeStack(v), nil
		}
	case *schema.Track:
		if v != nil {
			return encodeTrack(v), nil
		}
	case *schema.Clip:
		if v != nil {
			return encodeItem(v), nil
		}
	}
	return nil, &Error{Code: ErrCodeUnsupportedKind, Message: fmt.Sprintf("cannot encode %T as a document", c)}
}

func encodeMedia(r *schema.MediaReference) *mediaDoc {
	if r == nil {
		return nil
	}
	return &mediaDoc{Name: r.Name, TargetURL: r.TargetURL, AvailableRange: r.AvailableRange, Metadata: r.Metadata}
}

func encodeItem(it schema.Item) itemDoc {
	b := it.Base()
	d := itemDoc{Kind: string(it.Kind()), Name: b.Name, SourceRange: b.SourceRange, Metadata: b.Metadata}
	switch v := it.(type) {
	case *schema.Clip:
		d.Hidden = v.Hidden
		d.MediaReference = encodeMedia(v.MediaReference)
	case *schema.Transition:
		d.TransitionType = v.TransitionType
		in, out := v.InOffset, v.OutOffset
		d.InOffset, d.OutOffset = &in, &out
	}
	return d
}

func encodeTrack(t *schema.Track) trackDoc {
	d := trackDoc{
		Kind:      string(schema.KindTrack),
		Name:      t.Name,
		TrackKind: t.TrackKind,
		Items:     make([]itemDoc, 0, t.Len()),
		Metadata:  t.Metadata,
	}
	if start := t.Start(); !start.IsZero() {
		d.Start = &start
	}
	for _, it := range t.Items() {
		d.Items = append(d.Items, encodeItem(it))
	}
	return d
}

func encodeStack(s *schema.Stack) stackDoc {
	d := stackDoc{Kind: string(schema.KindStack), Name: s.Name, Tracks: make([]trackDoc, 0, s.Len()), Metadata: s.Metadata}
	for _, t := range s.Tracks {
		d.Tracks = append(d.Tracks, encodeTrack(t))
	}
	return d
}

func encodeTimeline(tl *schema.Timeline) timelineDoc {
	d := timelineDoc{Kind: string(schema.KindTimeline), Name: tl.Name, Metadata: tl.Metadata}
	if tl.Tracks != nil {
		s := encodeStack(tl.Tracks)
		d.Tracks = &s
	}
	return d
}

func encodeCollection(c *schema.Collection) collectionDoc {
	d := collectionDoc{Kind: string(schema.KindCollection), Name: c.Name, Timelines: make([]timelineDoc, 0, len(c.Timelines)), Metadata: c.Metadata}
	for _, tl := range c.Timelines {
		d.Timelines = append(d.Timelines, encodeTimeline(tl))
	}
	return d
}

func expectKind(got string, want schema.Kind, where string) error {
	if got != string(want) {
		return malformed(nil, "%s: kind %q, want %q", where, got, want)
	}
	return nil
}

// validTimes checks every range and offset an item document carries.
func validTimes(d itemDoc) error {
	ranges := []*opentime.TimeRange{d.SourceRange}
	if d.MediaReference != nil {
		ranges = append(ranges, d.MediaReference.AvailableRange)
	}
	for _, r := range ranges {
		if r == nil {
			continue
		}
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, t := range []*opentime.RationalTime{d.InOffset, d.OutOffset} {
		if t == nil {
			continue
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func decodeItem(d itemDoc, where string) (schema.Item, error) {
	if err := validTimes(d); err != nil {
		return nil, malformed(err, "%s: %s %q", where, d.Kind, d.Name)
	}
	base := schema.ItemBase{Name: d.Name, SourceRange: d.SourceRange, Metadata: d.Metadata}
	transitionFields := d.TransitionType != "" || d.InOffset != nil || d.OutOffset != nil

	switch schema.Kind(d.Kind) {
	case schema.KindClip:
		if transitionFields {
			return nil, malformed(nil, "%s: clip %q has transition fields", where, d.Name)
		}
		c := &schema.Clip{ItemBase: base, Hidden: d.Hidden}
		if d.MediaReference != nil {
			m := d.MediaReference
			c.MediaReference = &schema.MediaReference{Name: m.Name, TargetURL: m.TargetURL, AvailableRange: m.AvailableRange, Metadata: m.Metadata}
		}
		return c, nil
	case schema.KindGap:
		if transitionFields || d.Hidden || d.MediaReference != nil {
			return nil, malformed(nil, "%s: gap %q has clip or transition fields", where, d.Name)
		}
		return &schema.Gap{ItemBase: base}, nil
	case schema.KindTransition:
		if d.SourceRange != nil || d.Hidden || d.MediaReference != nil {
			return nil, malformed(nil, "%s: transition %q has clip fields", where, d.Name)
		}
		tr := &schema.Transition{ItemBase: base, TransitionType: d.TransitionType}
		if d.InOffset != nil {
			tr.InOffset = *d.InOffset
		}
		if d.OutOffset != nil {
			tr.OutOffset = *d.OutOffset
		}
		return tr, nil
	}
	return nil, malformed(nil, "%s: unknown item kind %q", where, d.Kind)
}

func decodeTrack(d trackDoc, where string) (*schema.Track, error) {
	if err := expectKind(d.Kind, schema.KindTrack, where); err != nil {
		return nil, err
	}
	items := make([]schema.Item, 0, len(d.Items))
	for i, id := range d.Items {
		it, err := decodeItem(id, fmt.Sprintf("%s.items[%d]", where, i))
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	var start opentime.RationalTime
	if d.Start != nil {
		start = *d.Start
	}
	t, err := schema.NewTrackAt(d.Name, d.TrackKind, start, items...)
	if err != nil {
		return nil, malformed(err, "%s: invalid track %q", where, d.Name)
	}
	t.Metadata = d.Metadata
	return t, nil
}

func decodeStack(d stackDoc, where string) (*schema.Stack, error) {
	if err := expectKind(d.Kind, schema.KindStack, where); err != nil {
		return nil, err
	}
	s := &schema.Stack{Name: d.Name, Metadata: d.Metadata}
	for i, td := range d.Tracks {
		t, err := decodeTrack(td, fmt.Sprintf("%s.tracks[%d]", where, i))
		if err != nil {
			return nil, err
		}
		s.Tracks = append(s.Tracks, t)
	}
	return s, nil
}

func decodeTimeline(d timelineDoc, where string) (*schema.Timeline, error) {
	if err := expectKind(d.Kind, schema.KindTimeline, where); err != nil {
		return nil, err
	}
	tl := &schema.Timeline{Name: d.Name, Metadata: d.Metadata}
	if d.Tracks == nil {
		tl.Tracks = schema.NewStack(schema.DefaultStackName)
		return tl, nil
	}
	s, err := decodeStack(*d.Tracks, where+".tracks")
	if err != nil {
		return nil, err
	}
	tl.Tracks = s
	return tl, nil
}

func decodeCollection(d collectionDoc, where string) (*schema.Collection, error) {
	if err := expectKind(d.Kind, schema.KindCollection, where); err != nil {
		return nil, err
	}
	c := &schema.Collection{Name: d.Name, Metadata: d.Metadata}
	for i, td := range d.Timelines {
		tl, err := decodeTimeline(td, fmt.Sprintf("%s.timelines[%d]", where, i))
		if err != nil {
			return nil, err
		}
		c.Timelines = append(c.Timelines, tl)
	}
	return c, nil
}
