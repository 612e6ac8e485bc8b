package lister

import "fmt"

// WalkError reports a filesystem access failure (permission, I/O) at a
// specific path. Any WalkError aborts the whole List call; partial results
// are discarded.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// EncodingError reports a path component that is not valid UTF-8. It is a
// distinct kind from WalkError so callers can tell encoding problems apart
// from permission problems.
type EncodingError struct {
	Path string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("path is not valid UTF-8: %q", e.Path)
}
