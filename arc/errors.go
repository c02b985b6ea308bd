package arc

import "github.com/pkg/errors"

// ZeroSizeElementError is the error wrapped into panics raised when a block is requested
// for an element type with no size. Every element must advance the write cursor, or
// element addresses stop being distinct.
var ZeroSizeElementError error = errors.New("element type must occupy at least one byte")

// ManagedPointersError is the error wrapped into panics raised when a header or element
// type contains Go-managed pointers. Block memory is invisible to the garbage collector,
// so a pointer stored there would not keep its target alive.
var ManagedPointersError error = errors.New("type contains Go-managed pointers")
