package arc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/armory/arc"
	"github.com/vkngwrapper/armory/rawmem"
	"go.uber.org/mock/gomock"
)

type sampleHeader struct {
	A uint32
	B uint8
}

func TestFromHeaderAndSlice_RoundTrip(t *testing.T) {
	before := rawmem.LiveBlocks()

	items := []uint16{1, 2, 3, 4, 5, 6, 7}
	handle := arc.FromHeaderAndSlice(sampleHeader{A: 42, B: 17}, items)

	require.Equal(t, sampleHeader{A: 42, B: 17}, *handle.Header())
	require.Equal(t, 7, handle.Len())
	require.Equal(t, items, handle.Slice())
	require.EqualValues(t, 1, handle.Refs())
	require.Equal(t, before+1, rawmem.LiveBlocks())

	// the block owns its own copy of the elements
	items[0] = 99
	require.EqualValues(t, 1, handle.Slice()[0])

	handle.Release()
	require.Equal(t, before, rawmem.LiveBlocks())
}

func TestFromHeaderAndProducer_RoundTrip(t *testing.T) {
	before := rawmem.LiveBlocks()

	producer := arc.NewSliceProducer([]uint16{1, 2, 3, 4, 5, 6, 7})
	handle := arc.FromHeaderAndProducer(sampleHeader{A: 42, B: 17}, producer)

	require.Equal(t, sampleHeader{A: 42, B: 17}, *handle.Header())
	require.Equal(t, []uint16{1, 2, 3, 4, 5, 6, 7}, handle.Slice())

	handle.Release()
	require.Equal(t, before, rawmem.LiveBlocks())
}

func TestFromHeaderAndSlice_Empty(t *testing.T) {
	before := rawmem.LiveBlocks()

	handle := arc.FromHeaderAndSlice(sampleHeader{A: 5}, []uint64(nil))

	require.Equal(t, 0, handle.Len())
	require.Empty(t, handle.Slice())
	require.Equal(t, sampleHeader{A: 5}, *handle.Header())

	handle.Release()
	require.Equal(t, before, rawmem.LiveBlocks())
}

func TestFromHeaderAndProducer_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)

	producer := NewMockProducer[uint64](ctrl)
	producer.EXPECT().Remaining().Return(0).Times(1)
	// the exhaustion probe still runs for empty sequences
	producer.EXPECT().Next().Return(uint64(0), false).Times(1)

	handle := arc.FromHeaderAndProducer(uint32(7), producer)

	require.Equal(t, 0, handle.Len())
	require.Empty(t, handle.Slice())
	require.EqualValues(t, 7, *handle.Header())

	handle.Release()
}

func TestFromHeaderAndProducer_DeclaredTooMany(t *testing.T) {
	ctrl := gomock.NewController(t)

	producer := NewMockProducer[uint16](ctrl)
	producer.EXPECT().Remaining().Return(3).Times(1)
	producer.EXPECT().Next().Return(uint16(1), true)
	producer.EXPECT().Next().Return(uint16(2), true)
	producer.EXPECT().Next().Return(uint16(0), false)

	before := rawmem.LiveBlocks()
	require.PanicsWithValue(t, "producer yielded fewer elements than it declared", func() {
		arc.FromHeaderAndProducer(sampleHeader{}, producer)
	})

	// the half-built block is deliberately left allocated
	require.Equal(t, before+1, rawmem.LiveBlocks())
}

func TestFromHeaderAndProducer_DeclaredTooFew(t *testing.T) {
	ctrl := gomock.NewController(t)

	producer := NewMockProducer[uint16](ctrl)
	producer.EXPECT().Remaining().Return(2).Times(1)
	producer.EXPECT().Next().Return(uint16(1), true)
	producer.EXPECT().Next().Return(uint16(2), true)
	producer.EXPECT().Next().Return(uint16(3), true)

	before := rawmem.LiveBlocks()
	require.PanicsWithValue(t, "producer yielded more elements than it declared", func() {
		arc.FromHeaderAndProducer(sampleHeader{}, producer)
	})

	require.Equal(t, before+1, rawmem.LiveBlocks())
}

func TestFromHeaderAndProducer_SizeOverflow(t *testing.T) {
	ctrl := gomock.NewController(t)

	producer := NewMockProducer[uint64](ctrl)
	producer.EXPECT().Remaining().Return(math.MaxInt).Times(1)

	before := rawmem.LiveBlocks()
	require.Panics(t, func() {
		arc.FromHeaderAndProducer(uint8(0), producer)
	})

	// overflow is caught before any memory is reserved
	require.Equal(t, before, rawmem.LiveBlocks())
}

func TestFromHeaderAndProducer_NegativeCount(t *testing.T) {
	ctrl := gomock.NewController(t)

	producer := NewMockProducer[uint16](ctrl)
	producer.EXPECT().Remaining().Return(-1).Times(1)

	require.PanicsWithValue(t, "producer declared a negative element count", func() {
		arc.FromHeaderAndProducer(uint8(0), producer)
	})
}

func TestFromHeaderAndSlice_ZeroSizeElements(t *testing.T) {
	require.Panics(t, func() {
		arc.FromHeaderAndSlice(uint32(1), []struct{}{{}, {}})
	})
}

func TestFromHeaderAndSlice_PointerBearingTypes(t *testing.T) {
	require.Panics(t, func() {
		arc.FromHeaderAndSlice("boxed", []uint32{1})
	})
	require.Panics(t, func() {
		arc.FromHeaderAndSlice(uint32(1), []*uint32{nil})
	})
	require.Panics(t, func() {
		arc.FromHeaderAndSlice(uint32(1), []struct{ S []byte }{{}})
	})
}

type explodingProducer struct {
	explodeAfter int
	yielded      uint16
}

func (p *explodingProducer) Remaining() int {
	return p.explodeAfter + 2
}

func (p *explodingProducer) Next() (uint16, bool) {
	if int(p.yielded) == p.explodeAfter {
		panic("producer exploded")
	}
	p.yielded++
	return p.yielded, true
}

func TestFromHeaderAndProducer_LeaksOnProducerPanic(t *testing.T) {
	before := rawmem.LiveBlocks()

	require.PanicsWithValue(t, "producer exploded", func() {
		arc.FromHeaderAndProducer(sampleHeader{}, &explodingProducer{explodeAfter: 1})
	})

	require.Equal(t, before+1, rawmem.LiveBlocks())
	require.GreaterOrEqual(t, rawmem.ReportLeaks(), 1)
}

func TestHandleRetainRelease(t *testing.T) {
	before := rawmem.LiveBlocks()

	handle := arc.FromHeaderAndSlice(uint64(3), []byte{9})
	extra := handle.Retain()
	require.EqualValues(t, 2, handle.Refs())

	handle.Release()
	require.Equal(t, before+1, rawmem.LiveBlocks())
	require.EqualValues(t, 9, extra.Slice()[0])

	extra.Release()
	require.Equal(t, before, rawmem.LiveBlocks())
}

func TestHandleSharesElementMemory(t *testing.T) {
	handle := arc.FromHeaderAndSlice(uint8(0), []uint32{1, 2, 3})
	defer handle.Release()

	extra := handle.Retain()
	defer extra.Release()

	handle.Slice()[1] = 20
	require.Equal(t, []uint32{1, 20, 3}, extra.Slice())
}
