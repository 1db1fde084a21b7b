package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/splice/internal/opentime"
	"github.com/roach88/splice/internal/schema"
	tu "github.com/roach88/splice/internal/testutil"
)

func items(track *schema.Track) []schema.Item {
	var out []schema.Item
	for _, it := range track.Items() {
		out = append(out, it)
	}
	return out
}

func TestTrimTrackToRange_SplitsBoundaryItems(t *testing.T) {
	track := tu.Track(t, "V1", tu.Clip("A", 100, 10), tu.Clip("B", 0, 10))

	out, err := TrimTrackToRange(track, tu.Range(5, 10))
	require.NoError(t, err)

	assert.Equal(t, []schema.Item{tu.Clip("A", 105, 5), tu.Clip("B", 0, 5)}, items(out))
	assert.True(t, out.Start().Equal(tu.RT(5)), "result keeps track coordinates")

	ranges := out.Ranges()
	require.Len(t, ranges, 2)
	assert.True(t, ranges[0].Equal(tu.Range(5, 5)))
	assert.True(t, ranges[1].Equal(tu.Range(10, 5)))
	assert.Equal(t, "V1", out.Name)
}

func TestTrimTrackToRange_ContainingRangeIsProjection(t *testing.T) {
	track := tu.Track(t, "V1", tu.Clip("A", 0, 10), tu.Gap(4), tu.Transition("X", 1, 1), tu.Clip("B", 3, 6))

	for _, r := range []opentime.TimeRange{tu.Range(0, 20), tu.Range(0, 100)} {
		out, err := TrimTrackToRange(track, r)
		require.NoError(t, err)
		assert.Equal(t, items(track), items(out), "range %s", r)
		assert.True(t, out.Duration().Equal(track.Duration()))
	}
}

func TestTrimTrackToRange_OutsideSpanIsEmpty(t *testing.T) {
	track := tu.Track(t, "V1", tu.Clip("A", 0, 10))

	tests := []struct {
		name string
		r    opentime.TimeRange
	}{
		{"after end", tu.Range(10, 5)},
		{"far after", tu.Range(50, 5)},
		{"empty range", tu.Range(3, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := TrimTrackToRange(track, tt.r)
			require.NoError(t, err)
			assert.Equal(t, 0, out.Len())
		})
	}
}

func TestTrimTrackToRange_Transitions(t *testing.T) {
	track := tu.Track(t, "V1", tu.Clip("A", 0, 10), tu.Transition("X", 2, 2), tu.Clip("B", 0, 10))

	// X spans [8, 12)
	partial, err := TrimTrackToRange(track, tu.Range(0, 11))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tu.Names(partial), "partial transition dropped")

	inside, err := TrimTrackToRange(track, tu.Range(5, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "X", "B"}, tu.Names(inside))
}

func TestTrimTrackToRange_DropsZeroDurationItems(t *testing.T) {
	track := tu.Track(t, "V1", tu.Clip("A", 0, 4), tu.Clip("Z", 0, 0), tu.Clip("B", 0, 4))

	out, err := TrimTrackToRange(track, tu.Range(0, 8))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tu.Names(out))
}

func TestTrimTrackToRange_UsesAvailableRange(t *testing.T) {
	track := tu.Track(t, "V1", tu.MediaClip("M", "file:///m.mov", 50, 20))

	out, err := TrimTrackToRange(track, tu.Range(5, 5))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	c := out.At(0).(*schema.Clip)
	assert.Equal(t, tu.RangePtr(55, 5), c.SourceRange)
	assert.Equal(t, "file:///m.mov", c.MediaReference.TargetURL)
}

func TestTrimTrackToRange_Errors(t *testing.T) {
	_, err := TrimTrackToRange(nil, tu.Range(0, 1))
	assert.True(t, schema.IsInvalidArgument(err))

	_, err = TrimTrackToRange(tu.Track(t, "V1"), tu.Range(0, -1))
	assert.True(t, opentime.IsInvalidRange(err))
}

func TestTrimTrackToRange_DoesNotAlias(t *testing.T) {
	track := tu.Track(t, "V1", tu.Clip("A", 0, 10))

	out, err := TrimTrackToRange(track, tu.Range(0, 10))
	require.NoError(t, err)
	assert.NotSame(t, track.At(0), out.At(0))

	out.At(0).Base().Name = "changed"
	assert.Equal(t, "A", schema.NameOf(track.At(0)))
}
