package rawmem

import (
	"sync"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/armory/memutils"
	"golang.org/x/exp/slog"

	// Block addresses are held as raw uintptr keys in the pin registry, which
	// is only sound while the Go heap does not move allocations.
	_ "go4.org/unsafe/assume-no-moving-gc"
)

// pin keeps one live block's backing buffer reachable by the garbage
// collector and remembers the span handed to the caller.
type pin struct {
	raw       []byte
	size      int
	alignment uint
}

var (
	mu     sync.Mutex
	pins   = swiss.NewMap[uintptr, pin](42)
	logger = slog.Default()
)

// SetLogger replaces the logger used for leak reports. Passing nil restores
// the process default logger.
func SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	mu.Lock()
	defer mu.Unlock()
	logger = log
}

// Alloc reserves a fresh zeroed block of size bytes whose base address is a
// multiple of alignment, which must be a power of two. The block stays live
// until the returned pointer is passed to Dealloc; losing the pointer leaks
// the block for the life of the process. Blocks are never moved, reused, or
// resized. Alloc panics if size arithmetic overflows and aborts the process
// if the heap cannot satisfy the reservation.
func Alloc(size int, alignment uint) unsafe.Pointer {
	if size <= 0 {
		panic("attempting to allocate a block of non-positive size")
	}
	if alignment == 0 {
		panic("attempting to allocate a block with zero alignment")
	}
	memutils.DebugCheckPow2(alignment, "block alignment")

	reserve, ok := memutils.AddChecked(size, int(alignment)+memutils.DebugMargin)
	if !ok {
		panic(cerrors.Wrapf(memutils.SizeOverflowError, "block of size %d at alignment %d", size, alignment))
	}

	raw := make([]byte, reserve)
	base := unsafe.Pointer(&raw[0])
	if misalign := uintptr(base) & uintptr(alignment-1); misalign != 0 {
		base = unsafe.Add(base, uintptr(alignment)-misalign)
	}
	memutils.WriteMagicValue(base, size)

	mu.Lock()
	defer mu.Unlock()
	pins.Put(uintptr(base), pin{raw: raw, size: size, alignment: alignment})

	return base
}

// Dealloc returns a block obtained from Alloc. The pointer must be the exact
// base address Alloc returned, and each block can be returned only once.
// In debug builds the block's corruption margin is verified before release.
func Dealloc(ptr unsafe.Pointer) {
	addr := uintptr(ptr)

	mu.Lock()
	p, ok := pins.Get(addr)
	if ok {
		pins.Delete(addr)
	}
	mu.Unlock()

	if !ok {
		panic("attempting to release a block rawmem does not own")
	}

	if !memutils.ValidateMagicValue(ptr, p.size) {
		panic("MEMORY CORRUPTION DETECTED PAST END OF BLOCK")
	}
}

// LiveBlocks returns the number of blocks that have been allocated and not
// yet returned.
func LiveBlocks() int {
	mu.Lock()
	defer mu.Unlock()

	return pins.Count()
}
