package arc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/armory/arc"
	"github.com/vkngwrapper/armory/rawmem"
)

func TestFromHeaderAndString_RoundTrip(t *testing.T) {
	before := rawmem.LiveBlocks()

	contents := "header slices all the way down"
	text := arc.FromHeaderAndString(sampleHeader{A: 42, B: 17}, contents)

	require.Equal(t, contents, text.String())
	require.Equal(t, len(contents), text.Len())
	require.Equal(t, sampleHeader{A: 42, B: 17}, *text.Header())
	require.Equal(t, []byte(contents), text.Bytes())

	text.Release()
	require.Equal(t, before, rawmem.LiveBlocks())
}

func TestFromHeaderAndString_Empty(t *testing.T) {
	before := rawmem.LiveBlocks()

	text := arc.FromHeaderAndString(uint64(1), "")

	require.Equal(t, "", text.String())
	require.Equal(t, 0, text.Len())
	require.EqualValues(t, 1, *text.Header())

	text.Release()
	require.Equal(t, before, rawmem.LiveBlocks())
}

func TestTextSharesBlockWithByteHandle(t *testing.T) {
	text := arc.FromHeaderAndString(uint8(0), "abc")

	raw := text.AsBytes()
	require.Equal(t, []byte("abc"), raw.Slice())

	again := arc.TextFromBytes(raw)
	require.Equal(t, "abc", again.String())

	// re-typing moved no references
	require.EqualValues(t, 1, text.Refs())
	text.Release()
}

func TestTextRetainRelease(t *testing.T) {
	before := rawmem.LiveBlocks()

	text := arc.FromHeaderAndString(uint8(1), "shared")
	extra := text.Retain()
	require.EqualValues(t, 2, text.Refs())

	text.Release()
	require.Equal(t, "shared", extra.String())

	extra.Release()
	require.Equal(t, before, rawmem.LiveBlocks())
}
