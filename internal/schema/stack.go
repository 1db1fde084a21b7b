package schema

import (
	"iter"

	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/opentime"
)

// Stack layers tracks over a shared time axis. Tracks[0] is the foremost
// track; each later track lies behind the ones before it.
type Stack struct {
	Name     string
	Metadata meta.Map
	Tracks   []*Track
}

// NewStack creates a stack owning the given tracks.
func NewStack(name string, tracks ...*Track) *Stack {
	return &Stack{Name: name, Tracks: tracks}
}

func (s *Stack) Kind() Kind { return KindStack }

// Len returns the number of tracks.
func (s *Stack) Len() int { return len(s.Tracks) }

// At returns the i'th track.
func (s *Stack) At(i int) *Track { return s.Tracks[i] }

// Duration is the longest track extent measured from zero.
func (s *Stack) Duration() opentime.RationalTime {
	var d opentime.RationalTime
	for _, t := range s.Tracks {
		if t == nil {
			continue
		}
		d = opentime.Max(d, t.AvailableRange().EndTimeExclusive())
	}
	return d
}

// Clone returns a deep copy.
func (s *Stack) Clone() *Stack {
	out := &Stack{Name: s.Name, Metadata: s.Metadata.Clone()}
	if s.Tracks != nil {
		out.Tracks = make([]*Track, len(s.Tracks))
		for i, t := range s.Tracks {
			out.Tracks[i] = t.Clone()
		}
	}
	return out
}

// EachClip yields clips track by track, foremost track first.
func (s *Stack) EachClip() iter.Seq[*Clip] {
	return func(yield func(*Clip) bool) {
		for _, t := range s.Tracks {
			if t == nil {
				continue
			}
			for c := range t.EachClip() {
				if !yield(c) {
					return
				}
			}
		}
	}
}
