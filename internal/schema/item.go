package schema

import (
	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/opentime"
)

// Kind names the schema type of an entity.
type Kind string

const (
	KindClip       Kind = "Clip"
	KindGap        Kind = "Gap"
	KindTransition Kind = "Transition"
	KindTrack      Kind = "Track"
	KindStack      Kind = "Stack"
	KindTimeline   Kind = "Timeline"
	KindCollection Kind = "Collection"
)

// Composition is any entity of the tree. Operations that require a specific
// kind accept a Composition and reject others with InvalidArgumentError.
type Composition interface {
	Kind() Kind
}

// Item is one element of a Track. Only *Clip, *Gap and *Transition
// implement it.
type Item interface {
	Composition

	// Base exposes the attributes shared by every item.
	Base() *ItemBase

	// Visible reports whether the item shows content. Gaps and
	// transitions never do; clips do unless hidden.
	Visible() bool

	// TrimmedRange is the portion of the item's own media used, falling
	// back to the available range when no source range is set.
	TrimmedRange() (opentime.TimeRange, error)

	// Clone returns a deep copy.
	Clone() Item
}

// ItemBase holds the attributes common to all items.
type ItemBase struct {
	Name        string
	SourceRange *opentime.TimeRange
	Metadata    meta.Map
}

func (b ItemBase) clone() ItemBase {
	out := ItemBase{Name: b.Name, Metadata: b.Metadata.Clone()}
	if b.SourceRange != nil {
		r := *b.SourceRange
		out.SourceRange = &r
	}
	return out
}

// MediaReference points at external media. The core only reads its
// AvailableRange.
type MediaReference struct {
	Name           string
	TargetURL      string
	AvailableRange *opentime.TimeRange
	Metadata       meta.Map
}

// Clone returns a deep copy. A nil reference clones to nil.
func (r *MediaReference) Clone() *MediaReference {
	if r == nil {
		return nil
	}
	out := &MediaReference{
		Name:      r.Name,
		TargetURL: r.TargetURL,
		Metadata:  r.Metadata.Clone(),
	}
	if r.AvailableRange != nil {
		ar := *r.AvailableRange
		out.AvailableRange = &ar
	}
	return out
}

// IsMissing reports whether the reference has no target locator.
func (r *MediaReference) IsMissing() bool {
	return r == nil || r.TargetURL == ""
}

// Clip is a visible segment of media.
type Clip struct {
	ItemBase
	Hidden         bool
	MediaReference *MediaReference
}

// NewClip creates a clip. sourceRange may be nil when the media reference
// carries an available range.
func NewClip(name string, ref *MediaReference, sourceRange *opentime.TimeRange) *Clip {
	return &Clip{ItemBase: ItemBase{Name: name, SourceRange: sourceRange}, MediaReference: ref}
}

func (c *Clip) Kind() Kind { return KindClip }

func (c *Clip) Base() *ItemBase { return &c.ItemBase }

func (c *Clip) Visible() bool { return !c.Hidden }

func (c *Clip) Clone() Item { return c.CloneClip() }

// CloneClip is Clone with the concrete type.
func (c *Clip) CloneClip() *Clip {
	return &Clip{
		ItemBase:       c.ItemBase.clone(),
		Hidden:         c.Hidden,
		MediaReference: c.MediaReference.Clone(),
	}
}

// AvailableRange returns the media reference's available range, if any.
func (c *Clip) AvailableRange() (opentime.TimeRange, bool) {
	if c.MediaReference == nil || c.MediaReference.AvailableRange == nil {
		return opentime.TimeRange{}, false
	}
	return *c.MediaReference.AvailableRange, true
}

func (c *Clip) TrimmedRange() (opentime.TimeRange, error) {
	if c.SourceRange != nil {
		return *c.SourceRange, nil
	}
	if ar, ok := c.AvailableRange(); ok {
		return ar, nil
	}
	return opentime.TimeRange{}, opentime.NewInvalidRangeError("clip %q has neither a source range nor an available range", c.Name)
}

// Gap is empty space in a track.
type Gap struct {
	ItemBase
}

// NewGap creates a gap of the given duration.
func NewGap(duration opentime.RationalTime) *Gap {
	r := opentime.TimeRange{StartTime: opentime.NewRationalTime(0, duration.Rate), Duration: duration}
	return &Gap{ItemBase: ItemBase{SourceRange: &r}}
}

func (g *Gap) Kind() Kind { return KindGap }

func (g *Gap) Base() *ItemBase { return &g.ItemBase }

func (g *Gap) Visible() bool { return false }

func (g *Gap) Clone() Item { return &Gap{ItemBase: g.ItemBase.clone()} }

func (g *Gap) TrimmedRange() (opentime.TimeRange, error) {
	if g.SourceRange == nil {
		return opentime.TimeRange{}, opentime.NewInvalidRangeError("gap %q has no source range", g.Name)
	}
	return *g.SourceRange, nil
}

// Transition blends the neighbouring items. It overlaps InOffset of the
// preceding item and OutOffset of the following one and occupies no track
// time of its own.
type Transition struct {
	ItemBase
	TransitionType string
	InOffset       opentime.RationalTime
	OutOffset      opentime.RationalTime
}

// TransitionTypeDissolve is the common cross-dissolve.
const TransitionTypeDissolve = "SMPTE_Dissolve"

// NewTransition creates a transition.
func NewTransition(name, transitionType string, in, out opentime.RationalTime) *Transition {
	return &Transition{ItemBase: ItemBase{Name: name}, TransitionType: transitionType, InOffset: in, OutOffset: out}
}

func (tr *Transition) Kind() Kind { return KindTransition }

func (tr *Transition) Base() *ItemBase { return &tr.ItemBase }

func (tr *Transition) Visible() bool { return false }

func (tr *Transition) Clone() Item {
	return &Transition{
		ItemBase:       tr.ItemBase.clone(),
		TransitionType: tr.TransitionType,
		InOffset:       tr.InOffset,
		OutOffset:      tr.OutOffset,
	}
}

func (tr *Transition) TrimmedRange() (opentime.TimeRange, error) {
	for _, off := range []opentime.RationalTime{tr.InOffset, tr.OutOffset} {
		if err := off.Validate(); err != nil {
			return opentime.TimeRange{}, err
		}
	}
	if tr.InOffset.Value < 0 || tr.OutOffset.Value < 0 {
		return opentime.TimeRange{}, opentime.NewInvalidRangeError("transition %q has a negative offset", tr.Name)
	}
	d := tr.InOffset.Add(tr.OutOffset)
	return opentime.TimeRange{StartTime: opentime.NewRationalTime(0, d.Rate), Duration: d}, nil
}

// NameOf returns the item's name.
func NameOf(it Item) string {
	return it.Base().Name
}
