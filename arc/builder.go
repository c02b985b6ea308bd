package arc

import (
	"unsafe"

	"github.com/vkngwrapper/armory/rawmem"
)

// FromHeaderAndProducer builds a block holding header plus every element the
// producer yields and returns the sole reference to it. The producer must
// deliver exactly the count it declared through Remaining; lying in either
// direction panics the build. If the producer itself panics mid-build, the
// partially initialized block stays allocated, since no reference was ever
// handed out to release it; rawmem.ReportLeaks will find such blocks.
func FromHeaderAndProducer[H, T any](header H, items Producer[T]) Handle[H, T] {
	return buildFromProducer(header, items.Remaining(), items)
}

func buildFromProducer[H, T any](header H, count int, items Producer[T]) Handle[H, T] {
	lay := layoutOf[H, T](count)

	blk := (*block[H, T])(rawmem.Alloc(lay.size, lay.alignment))
	blk.count.Init()
	blk.header = header

	cursor := unsafe.Pointer(&blk.slice)
	for i := 0; i < count; i++ {
		item, ok := items.Next()
		if !ok {
			panic("producer yielded fewer elements than it declared")
		}
		*(*T)(cursor) = item
		cursor = unsafe.Add(cursor, lay.elemSize)
	}
	if _, ok := items.Next(); ok {
		panic("producer yielded more elements than it declared")
	}

	return Handle[H, T]{p: blk, n: count}
}

// FromHeaderAndSlice builds a block holding header plus a copy of items,
// filling the element region with one bulk copy.
func FromHeaderAndSlice[H, T any](header H, items []T) Handle[H, T] {
	count := len(items)
	lay := layoutOf[H, T](count)

	blk := (*block[H, T])(rawmem.Alloc(lay.size, lay.alignment))
	blk.count.Init()
	blk.header = header

	if count > 0 {
		copy(unsafe.Slice((*T)(unsafe.Pointer(&blk.slice)), count), items)
	}

	return Handle[H, T]{p: blk, n: count}
}

// FromHeaderAndString builds a text block over the bytes of s without an
// intermediate copy of the string data.
func FromHeaderAndString[H any](header H, s string) Text[H] {
	var view []byte
	if len(s) > 0 {
		view = unsafe.Slice(unsafe.StringData(s), len(s))
	}

	return Text[H]{h: FromHeaderAndSlice(header, view)}
}
