package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// SizeOverflowError is the error wrapped into panics raised when block size arithmetic
// escapes the int range. Requests that large cannot be satisfied and usually indicate
// a corrupted element count.
var SizeOverflowError error = errors.New("block size arithmetic overflows")
