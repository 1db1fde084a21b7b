// Package diff compares two compositions clip by clip.
//
// Clips are matched by name. A name found once on each side is compared by
// rendering both clips to text and line-diffing the renderings; a name found
// more than once on either side cannot be matched reliably and is reported
// as ambiguous instead.
package diff

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/samber/lo"

	"github.com/roach88/splice/internal/codec"
	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/schema"
)

// IgnoreSentinel replaces ignored metadata values before comparison.
const IgnoreSentinel = "IGNORE"

// DefaultIgnoreMetadata lists metadata paths that change on every export.
var DefaultIgnoreMetadata = []string{"ALE/Modified Date"}

// Renderer turns a clip into comparable text. Output must be deterministic
// and should put one field per line.
type Renderer interface {
	RenderClip(c *schema.Clip) (string, error)
}

// Options tune a comparison.
type Options struct {
	// IgnoreMetadata holds "/"-separated metadata paths whose values are
	// not compared. Paths absent from a clip are skipped.
	IgnoreMetadata []string

	// Renderer renders clips for comparison. Defaults to codec.JSON.
	Renderer Renderer

	// LabelA and LabelB name the two sides in diff headers.
	// Default to "a" and "b".
	LabelA, LabelB string

	// Context is the number of unchanged lines around each hunk.
	Context int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		IgnoreMetadata: DefaultIgnoreMetadata,
		Renderer:       codec.JSON{},
		LabelA:         "a",
		LabelB:         "b",
		Context:        3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Renderer == nil {
		o.Renderer = d.Renderer
	}
	if o.LabelA == "" {
		o.LabelA = d.LabelA
	}
	if o.LabelB == "" {
		o.LabelB = d.LabelB
	}
	if o.Context <= 0 {
		o.Context = d.Context
	}
	return o
}

// Diff compares the clips of a and b. Neither input is modified.
func Diff(a, b schema.ClipSource, opts Options) (*Report, error) {
	if a == nil || b == nil {
		return nil, schema.NewInvalidArgumentError("diff", "both sides must be non-nil")
	}
	opts = opts.withDefaults()

	clipsA, clipsB := schema.Clips(a), schema.Clips(b)
	report := &Report{
		LabelA:        opts.LabelA,
		LabelB:        opts.LabelB,
		CountA:        len(clipsA),
		CountB:        len(clipsB),
		CountMismatch: len(clipsA) != len(clipsB),
	}

	byA := lo.GroupBy(clipsA, clipName)
	byB := lo.GroupBy(clipsB, clipName)
	namesA := lo.Uniq(lo.Map(clipsA, func(c *schema.Clip, _ int) string { return c.Name }))
	namesB := lo.Uniq(lo.Map(clipsB, func(c *schema.Clip, _ int) string { return c.Name }))
	setA := mapset.NewThreadUnsafeSet(namesA...)
	setB := mapset.NewThreadUnsafeSet(namesB...)

	report.OnlyInA = lo.Filter(namesA, func(n string, _ int) bool { return !setB.Contains(n) })
	report.OnlyInB = lo.Filter(namesB, func(n string, _ int) bool { return !setA.Contains(n) })

	for _, name := range namesA {
		if !setB.Contains(name) {
			continue
		}
		ca, cb := byA[name], byB[name]
		if len(ca) != 1 || len(cb) != 1 {
			report.Ambiguous = append(report.Ambiguous, Ambiguous{Name: name, CountA: len(ca), CountB: len(cb)})
			continue
		}
		text, err := compareClips(ca[0], cb[0], opts)
		if err != nil {
			return nil, err
		}
		if text != "" {
			report.Changed = append(report.Changed, Changed{Name: name, Diff: text})
		}
	}
	return report, nil
}

func clipName(c *schema.Clip) string { return c.Name }

// compareClips returns the unified diff of both renderings, or "" when they
// match.
func compareClips(a, b *schema.Clip, opts Options) (string, error) {
	ra, err := opts.Renderer.RenderClip(normalize(a, opts.IgnoreMetadata))
	if err != nil {
		return "", err
	}
	rb, err := opts.Renderer.RenderClip(normalize(b, opts.IgnoreMetadata))
	if err != nil {
		return "", err
	}
	if ra == rb {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(ra),
		B:        difflib.SplitLines(rb),
		FromFile: opts.LabelA + "/" + a.Name,
		ToFile:   opts.LabelB + "/" + b.Name,
		Context:  opts.Context,
	})
}

// normalize returns a copy of c with every ignored metadata path that exists
// set to IgnoreSentinel.
func normalize(c *schema.Clip, ignore []string) *schema.Clip {
	out := c.CloneClip()
	for _, path := range ignore {
		if updated, ok := out.Metadata.WithPath(strings.Split(path, "/"), meta.String(IgnoreSentinel)); ok {
			out.Metadata = updated
		}
	}
	return out
}
