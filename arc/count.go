package arc

import "sync/atomic"

// Count is the atomic strong-reference count at the head of every shared
// block. Go's atomics are sequentially consistent, which is stronger than
// the relaxed-increment, release-decrement protocol the count requires.
type Count struct {
	refs atomic.Int64
}

// Init sets the count to 1, the reference handed to the block's first owner.
func (c *Count) Init() {
	c.refs.Store(1)
}

// Retain adds one strong reference. The caller must already hold one, so
// retaining a count that has reached zero is a contract violation.
func (c *Count) Retain() {
	if c.refs.Add(1) <= 1 {
		panic("attempting to retain a block that has already been released")
	}
}

// Release drops one strong reference and reports whether it was the last
// one, at which point the caller must destroy the block.
func (c *Count) Release() bool {
	refs := c.refs.Add(-1)
	if refs < 0 {
		panic("attempting to release a block more times than it was retained")
	}

	return refs == 0
}

// Refs loads the current count. The value is stale as soon as it is read and
// is only good for diagnostics and tests.
func (c *Count) Refs() int64 {
	return c.refs.Load()
}
