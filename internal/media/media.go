// Package media rewrites the media references of a composition's clips.
//
// Every operation works on a copy and leaves its input untouched.
package media

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"

	"github.com/roach88/splice/internal/schema"
)

// Resolver picks a new reference for a clip. Returning nil and no error
// leaves the clip as it is.
type Resolver interface {
	Resolve(ctx context.Context, c *schema.Clip) (*schema.MediaReference, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, c *schema.Clip) (*schema.MediaReference, error)

func (f ResolverFunc) Resolve(ctx context.Context, c *schema.Clip) (*schema.MediaReference, error) {
	return f(ctx, c)
}

// PrefixResolver swaps a leading From in a target URL for To.
type PrefixResolver struct {
	From string
	To   string
}

func (p PrefixResolver) Resolve(_ context.Context, c *schema.Clip) (*schema.MediaReference, error) {
	if c.MediaReference.IsMissing() || p.From == "" || !strings.HasPrefix(c.MediaReference.TargetURL, p.From) {
		return nil, nil
	}
	ref := c.MediaReference.Clone()
	ref.TargetURL = p.To + strings.TrimPrefix(ref.TargetURL, p.From)
	return ref, nil
}

// Unlink returns a copy of c in which no clip has a media reference.
func Unlink(c schema.Composition) (schema.Composition, error) {
	return edit(c, func(clip *schema.Clip) error {
		clip.MediaReference = nil
		return nil
	})
}

// Relink returns a copy of c with every clip's reference passed through r,
// and the number of clips whose reference changed.
func Relink(ctx context.Context, c schema.Composition, r Resolver) (schema.Composition, int, error) {
	if r == nil {
		return nil, 0, schema.NewInvalidArgumentError("relink", "resolver must be non-nil")
	}
	n := 0
	out, err := edit(c, func(clip *schema.Clip) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ref, err := r.Resolve(ctx, clip)
		if err != nil {
			return err
		}
		if ref != nil {
			clip.MediaReference = ref
			n++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, n, nil
}

// URLs lists the distinct target URLs of src in document order. Clips
// without a reference or with an empty URL are skipped.
func URLs(src schema.ClipSource) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	return lo.FilterMap(schema.Clips(src), func(c *schema.Clip, _ int) (string, bool) {
		if c.MediaReference.IsMissing() {
			return "", false
		}
		return c.MediaReference.TargetURL, seen.Add(c.MediaReference.TargetURL)
	})
}

// edit deep-copies c and applies fn to each clip of the copy.
func edit(c schema.Composition, fn func(*schema.Clip) error) (schema.Composition, error) {
	var (
		out schema.Composition
		src schema.ClipSource
	)
	switch v := c.(type) {
	case *schema.Timeline:
		cp := v.Clone()
		out, src = cp, cp
	case *schema.Collection:
		cp := v.Clone()
		out, src = cp, cp
	case *schema.Stack:
		cp := v.Clone()
		out, src = cp, cp
	case *schema.Track:
		cp := v.Clone()
		out, src = cp, cp
	case *schema.Clip:
		cp := v.CloneClip()
		out, src = cp, schema.ClipList{cp}
	default:
		return nil, schema.NewInvalidArgumentError("media", "cannot edit clips of %T", c)
	}
	for clip := range src.EachClip() {
		if err := fn(clip); err != nil {
			return nil, err
		}
	}
	return out, nil
}
