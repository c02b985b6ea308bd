package arc

import "unsafe"

// Text is a handle to a block whose elements are the bytes of a string. It
// has the same layout as Handle[H, byte]; the two views can be re-typed into
// each other freely because they describe the same block.
type Text[H any] struct {
	h Handle[H, byte]
}

// TextFromBytes re-types a byte handle as text over the same block. No count
// traffic.
func TextFromBytes[H any](h Handle[H, byte]) Text[H] {
	return Text[H]{h: h}
}

// Header returns the block's header. The pointer stays valid until the last
// reference is released.
func (t Text[H]) Header() *H {
	return t.h.Header()
}

// Len returns the text length in bytes.
func (t Text[H]) Len() int {
	return t.h.Len()
}

// String returns the block's bytes as a string without copying them. The
// result aliases block memory and must not be used after the last reference
// is released.
func (t Text[H]) String() string {
	if t.h.n == 0 {
		return ""
	}

	return unsafe.String((*byte)(unsafe.Pointer(&t.h.p.slice)), t.h.n)
}

// Bytes returns the block's bytes without copying them. Writing through the
// result would be visible through every String view, so treat it as
// read-only unless the block is known to be unshared.
func (t Text[H]) Bytes() []byte {
	return t.h.Slice()
}

// AsBytes re-types the text as a plain byte handle over the same block. No
// count traffic.
func (t Text[H]) AsBytes() Handle[H, byte] {
	return t.h
}

// Retain adds a strong reference and returns the same handle for chaining.
func (t Text[H]) Retain() Text[H] {
	t.h.Retain()
	return t
}

// Release drops a strong reference. The last release returns the block's
// memory; no view obtained from the handle may be used afterward.
func (t Text[H]) Release() {
	t.h.Release()
}

// Refs is a diagnostic snapshot of the block's strong count.
func (t Text[H]) Refs() int64 {
	return t.h.Refs()
}
