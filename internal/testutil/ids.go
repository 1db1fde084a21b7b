package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns predetermined IDs for testing.
//
// This enables deterministic snapshot IDs and golden output comparison.
// When the list is exhausted it falls back to "id-<n>" so tests that do not
// care about exact IDs need not list them.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
//
//	gen := NewFixedIDGenerator("snap-1", "snap-2")
//	gen.Generate() // "snap-1"
//	gen.Generate() // "snap-2"
//	gen.Generate() // "id-3"
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if g.idx <= len(g.ids) {
		return g.ids[g.idx-1]
	}
	return fmt.Sprintf("id-%d", g.idx)
}
