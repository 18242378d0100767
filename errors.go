package bimap

// Error is the error type of the package.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound is returned by AtLeft and AtRight when the key is
	// absent.
	ErrNotFound = Error("bimap: key not found")

	// ErrInvalidIterator is returned when erasing through an end
	// iterator, an iterator whose pair has already been erased, or an
	// iterator obtained from another Bimap. Dereferencing such an
	// iterator panics with this error.
	ErrInvalidIterator = Error("bimap: invalid iterator")

	// ErrCorrupt is wrapped by the errors Verify returns.
	ErrCorrupt = Error("bimap: corrupt structure")
)
