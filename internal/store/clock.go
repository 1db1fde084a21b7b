package store

import "sync/atomic"

// clock hands out strictly increasing snapshot sequence numbers.
//
// The store resumes it from MAX(seq) on open, so numbers keep increasing
// across processes sharing one database file sequentially.
type clock struct {
	seq atomic.Int64
}

func newClockAt(start int64) *clock {
	c := &clock{}
	c.seq.Store(start)
	return c
}

func (c *clock) next() int64 {
	return c.seq.Add(1)
}

func (c *clock) current() int64 {
	return c.seq.Load()
}
