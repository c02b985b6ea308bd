package memutils

// Validatable is implemented by types that can run internal consistency
// checks on themselves. DebugValidate promotes the returned error to a panic
// in debug builds.
type Validatable interface {
	Validate() error
}
