package arc

// HeaderWithLength pairs a caller header with the element count of the block
// it lives in. Storing the count inside the allocation is what lets a handle
// shrink to a single pointer; see ThinHandle.
type HeaderWithLength[H any] struct {
	Header H
	Length int
}

// NewHeaderWithLength returns a HeaderWithLength pairing header with length.
func NewHeaderWithLength[H any](header H, length int) HeaderWithLength[H] {
	return HeaderWithLength[H]{Header: header, Length: length}
}
