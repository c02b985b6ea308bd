package arc

// Producer yields the elements for a block under construction. Remaining
// declares how many elements are left so the block can be sized with a
// single allocation; the builders consult it exactly once, before the first
// Next call, and a producer that delivers any other number of elements than
// it declared is in breach of contract and panics the build.
type Producer[T any] interface {
	// Remaining returns the number of elements left to yield.
	Remaining() int
	// Next returns the next element, or false once every element has been
	// yielded.
	Next() (T, bool)
}

type sliceProducer[T any] struct {
	items []T
}

// NewSliceProducer returns a Producer yielding the provided items in order.
// The items are read one at a time during the build; the slice itself is
// not retained.
func NewSliceProducer[T any](items []T) Producer[T] {
	return &sliceProducer[T]{items: items}
}

func (p *sliceProducer[T]) Remaining() int {
	return len(p.items)
}

func (p *sliceProducer[T]) Next() (T, bool) {
	if len(p.items) == 0 {
		var zero T
		return zero, false
	}

	item := p.items[0]
	p.items = p.items[1:]
	return item, true
}
