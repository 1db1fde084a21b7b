package algo

import (
	"github.com/samber/lo"

	"github.com/roach88/splice/internal/schema"
)

// TrackWithoutTransitions returns a copy of t with every transition removed.
// Transitions take no track time, so the remaining items keep their ranges.
func TrackWithoutTransitions(t *schema.Track) (*schema.Track, error) {
	if t == nil {
		return nil, schema.NewInvalidArgumentError("strip transitions", "track is nil")
	}
	var items []schema.Item
	for _, it := range t.Items() {
		if it.Kind() != schema.KindTransition {
			items = append(items, it.Clone())
		}
	}
	out, err := schema.NewTrackAt(t.Name, t.TrackKind, t.Start(), items...)
	if err != nil {
		return nil, err
	}
	out.Metadata = t.Metadata.Clone()
	return out, nil
}

// StackWithoutTransitions applies TrackWithoutTransitions to every track.
func StackWithoutTransitions(s *schema.Stack) (*schema.Stack, error) {
	if s == nil {
		return nil, schema.NewInvalidArgumentError("strip transitions", "stack is nil")
	}
	tracks, err := mapErr(s.Tracks, TrackWithoutTransitions)
	if err != nil {
		return nil, err
	}
	out := schema.NewStack(s.Name, tracks...)
	out.Metadata = s.Metadata.Clone()
	return out, nil
}

// TimelineWithoutTransitions returns a copy of tl without transitions.
func TimelineWithoutTransitions(tl *schema.Timeline) (*schema.Timeline, error) {
	if tl == nil {
		return nil, schema.NewInvalidArgumentError("strip transitions", "timeline is nil")
	}
	out := &schema.Timeline{Name: tl.Name, Metadata: tl.Metadata.Clone()}
	if tl.Tracks != nil {
		s, err := StackWithoutTransitions(tl.Tracks)
		if err != nil {
			return nil, err
		}
		out.Tracks = s
	}
	return out, nil
}

// CountTransitions reports how many transitions a stack holds.
func CountTransitions(s *schema.Stack) int {
	return lo.SumBy(s.Tracks, func(t *schema.Track) int {
		n := 0
		for _, it := range t.Items() {
			if it.Kind() == schema.KindTransition {
				n++
			}
		}
		return n
	})
}

func mapErr[T, R any](in []T, fn func(T) (R, error)) ([]R, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]R, 0, len(in))
	for _, v := range in {
		r, err := fn(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
