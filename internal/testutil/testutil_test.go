package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedIDGenerator_ReturnsInOrderThenFallsBack(t *testing.T) {
	gen := NewFixedIDGenerator("a", "b")

	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Equal(t, "id-3", gen.Generate())
	assert.Equal(t, "id-4", gen.Generate())
}

func TestFixedIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedIDGenerator()
	const n = 100

	var wg sync.WaitGroup
	results := make([]string, n)
	for i := range n {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = gen.Generate()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range results {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestBuilders(t *testing.T) {
	track := Track(t, "V1", Clip("A", 10, 5), Gap(3), HiddenClip("H", 0, 2), Transition("X", 1, 1))

	assert.Equal(t, []string{"A", "", "H", "X"}, Names(track))
	assert.True(t, track.Duration().Equal(RT(10)))
	assert.False(t, track.At(2).Visible())

	c := MediaClip("M", "file:///m.mov", 0, 48)
	r, err := c.TrimmedRange()
	require.NoError(t, err)
	assert.Equal(t, Range(0, 48), r)
}
