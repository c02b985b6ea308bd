package arc

import (
	"reflect"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/armory/memutils"
)

// block is the in-memory shape of a shared allocation: the strong count,
// then the caller's header, then the elements. The zero-length trailing
// array contributes no size, but it folds the element alignment into the
// struct's alignment and marks the offset where elements begin.
type block[H, T any] struct {
	count  Count
	header H
	slice  [0]T
}

var _ memutils.Validatable = &layout{}

type layout struct {
	size      int
	alignment uint
	sliceOff  int
	elemSize  int
	count     int
}

// layoutOf computes the single-allocation layout for a block of count
// elements. All size arithmetic is overflow-checked; a request that escapes
// the int range panics before any memory is reserved.
func layoutOf[H, T any](count int) layout {
	if count < 0 {
		panic("producer declared a negative element count")
	}

	var zeroElem T
	elemSize := int(unsafe.Sizeof(zeroElem))
	if elemSize == 0 {
		panic(cerrors.Wrapf(ZeroSizeElementError, "element type %s", reflect.TypeOf((*T)(nil)).Elem()))
	}
	mustBePointerFree[H]("header")
	mustBePointerFree[T]("element")

	var proto block[H, T]
	lay := layout{
		alignment: uint(unsafe.Alignof(proto)),
		sliceOff:  int(unsafe.Offsetof(proto.slice)),
		elemSize:  elemSize,
		count:     count,
	}

	sliceBytes, ok := memutils.MulChecked(elemSize, count)
	if !ok {
		panic(cerrors.Wrapf(memutils.SizeOverflowError, "%d elements of %d bytes", count, elemSize))
	}
	usable, ok := memutils.AddChecked(lay.sliceOff, sliceBytes)
	if !ok {
		panic(cerrors.Wrapf(memutils.SizeOverflowError, "%d element bytes after offset %d", sliceBytes, lay.sliceOff))
	}
	lay.size, ok = memutils.AlignUpChecked(usable, lay.alignment)
	if !ok {
		panic(cerrors.Wrapf(memutils.SizeOverflowError, "rounding %d bytes up to alignment %d", usable, lay.alignment))
	}

	memutils.DebugValidate(&lay)
	return lay
}

func (l *layout) Validate() error {
	if l.count < 0 {
		return errors.Errorf("layout holds a negative element count %d", l.count)
	}
	if l.elemSize <= 0 {
		return errors.Errorf("layout holds a non-positive element size %d", l.elemSize)
	}
	if err := memutils.CheckPow2(l.alignment, "block alignment"); err != nil {
		return err
	}
	if l.sliceOff < int(unsafe.Sizeof(Count{})) {
		return errors.Errorf("element offset %d overlaps the reference count", l.sliceOff)
	}
	if l.size < l.sliceOff+l.elemSize*l.count {
		return errors.Errorf("block size %d cannot hold %d elements behind offset %d", l.size, l.count, l.sliceOff)
	}
	if l.size&int(l.alignment-1) != 0 {
		return errors.Errorf("block size %d is not a multiple of alignment %d", l.size, l.alignment)
	}
	return nil
}

func mustBePointerFree[V any](role string) {
	t := reflect.TypeOf((*V)(nil)).Elem()
	if typeHasPointers(t) {
		panic(cerrors.Wrapf(ManagedPointersError, "%s type %s", role, t))
	}
}

func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
