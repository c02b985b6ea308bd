package arc

import (
	"unsafe"

	"github.com/vkngwrapper/armory/rawmem"
)

// ThinHandle is a single-word reference to a block whose header carries the
// element count inline, as a HeaderWithLength. It trades one extra load on
// Len and Slice for a pointer-sized footprint, which matters when handles
// are embedded in other structures by the million.
type ThinHandle[H, T any] struct {
	p *block[HeaderWithLength[H], T]
}

// ThinFromHeaderAndProducer builds a block from the producer's elements,
// stamping the declared count into the inline header, and returns the sole
// reference as a thin handle.
func ThinFromHeaderAndProducer[H, T any](header H, items Producer[T]) ThinHandle[H, T] {
	count := items.Remaining()
	fat := buildFromProducer(NewHeaderWithLength(header, count), count, items)

	return ThinHandle[H, T]{p: fat.p}
}

// ThinFromHeaderAndSlice builds a block holding a copy of items, stamping
// len(items) into the inline header, and returns the sole reference as a
// thin handle.
func ThinFromHeaderAndSlice[H, T any](header H, items []T) ThinHandle[H, T] {
	fat := FromHeaderAndSlice(NewHeaderWithLength(header, len(items)), items)

	return ThinHandle[H, T]{p: fat.p}
}

// ToThin converts a fat handle over an inline-length header into the
// single-word form. The handle's element count must match the inline length;
// handles produced by the thin builders always do. No count traffic.
func ToThin[H, T any](h Handle[HeaderWithLength[H], T]) ThinHandle[H, T] {
	if h.Len() != h.Header().Length {
		panic("inline header length does not match the handle's element count")
	}

	return ThinHandle[H, T]{p: h.p}
}

// Fat re-attaches the inline length as an explicit handle over the same
// block. No count traffic.
func (t ThinHandle[H, T]) Fat() Handle[HeaderWithLength[H], T] {
	return Handle[HeaderWithLength[H], T]{p: t.p, n: t.p.header.Length}
}

// Header returns the caller's header, without the inline length wrapper.
func (t ThinHandle[H, T]) Header() *H {
	return &t.p.header.Header
}

// Len returns the element count stored in the inline header.
func (t ThinHandle[H, T]) Len() int {
	return t.p.header.Length
}

// Slice returns the block's elements. The same aliasing rules as
// Handle.Slice apply.
func (t ThinHandle[H, T]) Slice() []T {
	return unsafe.Slice((*T)(unsafe.Pointer(&t.p.slice)), t.p.header.Length)
}

// Retain adds a strong reference and returns the same handle for chaining.
func (t ThinHandle[H, T]) Retain() ThinHandle[H, T] {
	t.p.count.Retain()
	return t
}

// Release drops a strong reference. The last release returns the block's
// memory; no view obtained from the handle may be used afterward.
func (t ThinHandle[H, T]) Release() {
	if t.p.count.Release() {
		rawmem.Dealloc(unsafe.Pointer(t.p))
	}
}

// Refs is a diagnostic snapshot of the block's strong count.
func (t ThinHandle[H, T]) Refs() int64 {
	return t.p.count.Refs()
}
