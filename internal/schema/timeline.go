package schema

import (
	"iter"

	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/opentime"
)

// DefaultStackName names the stack a new Timeline creates.
const DefaultStackName = "tracks"

// Timeline is a named top-level composition owning one Stack.
type Timeline struct {
	Name     string
	Metadata meta.Map
	Tracks   *Stack
}

// NewTimeline creates a timeline whose stack holds the given tracks.
func NewTimeline(name string, tracks ...*Track) *Timeline {
	return &Timeline{Name: name, Tracks: NewStack(DefaultStackName, tracks...)}
}

func (tl *Timeline) Kind() Kind { return KindTimeline }

// Duration is the duration of the timeline's stack.
func (tl *Timeline) Duration() opentime.RationalTime {
	if tl.Tracks == nil {
		return opentime.RationalTime{}
	}
	return tl.Tracks.Duration()
}

// Clone returns a deep copy.
func (tl *Timeline) Clone() *Timeline {
	if tl == nil {
		return nil
	}
	out := &Timeline{Name: tl.Name, Metadata: tl.Metadata.Clone()}
	if tl.Tracks != nil {
		out.Tracks = tl.Tracks.Clone()
	}
	return out
}

// EachClip yields every clip in the timeline's stack.
func (tl *Timeline) EachClip() iter.Seq[*Clip] {
	if tl.Tracks == nil {
		return func(func(*Clip) bool) {}
	}
	return tl.Tracks.EachClip()
}

// WithClips returns a copy of the timeline after applying fn to each of the
// copy's clips. The receiver is not modified.
func (tl *Timeline) WithClips(fn func(*Clip)) *Timeline {
	out := tl.Clone()
	for c := range out.EachClip() {
		fn(c)
	}
	return out
}

// Collection groups timelines.
type Collection struct {
	Name      string
	Metadata  meta.Map
	Timelines []*Timeline
}

func (c *Collection) Kind() Kind { return KindCollection }

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := &Collection{Name: c.Name, Metadata: c.Metadata.Clone()}
	if c.Timelines != nil {
		out.Timelines = make([]*Timeline, len(c.Timelines))
		for i, tl := range c.Timelines {
			out.Timelines[i] = tl.Clone()
		}
	}
	return out
}

// EachClip yields clips timeline by timeline.
func (c *Collection) EachClip() iter.Seq[*Clip] {
	return func(yield func(*Clip) bool) {
		for _, tl := range c.Timelines {
			if tl == nil {
				continue
			}
			for clip := range tl.EachClip() {
				if !yield(clip) {
					return
				}
			}
		}
	}
}

// WithClips returns a copy of the collection after applying fn to each of
// the copy's clips.
func (c *Collection) WithClips(fn func(*Clip)) *Collection {
	out := c.Clone()
	for clip := range out.EachClip() {
		fn(clip)
	}
	return out
}

// ClipSource is anything clips can be enumerated from.
type ClipSource interface {
	EachClip() iter.Seq[*Clip]
}

// ClipList is a plain list of clips.
type ClipList []*Clip

func (l ClipList) EachClip() iter.Seq[*Clip] {
	return func(yield func(*Clip) bool) {
		for _, c := range l {
			if !yield(c) {
				return
			}
		}
	}
}

// Clips collects a source's clips into a slice.
func Clips(src ClipSource) []*Clip {
	var out []*Clip
	for c := range src.EachClip() {
		out = append(out, c)
	}
	return out
}
