package arc

import (
	"unsafe"

	"github.com/vkngwrapper/armory/rawmem"
)

// Handle is a two-word reference to a shared block: the block's base address
// plus the element count, which Go cannot fold into the pointer the way it
// can for slices. Copying a Handle is free and shares the block without
// touching the count; Retain and Release are the only operations that move
// ownership. The zero Handle references no block and must not be used.
type Handle[H, T any] struct {
	p *block[H, T]
	n int
}

// Header returns the block's header. The pointer stays valid until the last
// reference is released.
func (h Handle[H, T]) Header() *H {
	return &h.p.header
}

// Len returns the element count the block was built with.
func (h Handle[H, T]) Len() int {
	return h.n
}

// Slice returns the block's elements. The slice aliases block memory rather
// than copying it, so it must not be used after the last reference is
// released, and writes through it are visible to every holder of the block.
func (h Handle[H, T]) Slice() []T {
	return unsafe.Slice((*T)(unsafe.Pointer(&h.p.slice)), h.n)
}

// Retain adds a strong reference and returns the same handle for chaining.
func (h Handle[H, T]) Retain() Handle[H, T] {
	h.p.count.Retain()
	return h
}

// Release drops a strong reference. The last release returns the block's
// memory; no view obtained from the handle may be used afterward.
func (h Handle[H, T]) Release() {
	if h.p.count.Release() {
		rawmem.Dealloc(unsafe.Pointer(h.p))
	}
}

// Refs is a diagnostic snapshot of the block's strong count.
func (h Handle[H, T]) Refs() int64 {
	return h.p.count.Refs()
}
