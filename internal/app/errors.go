package app

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrSourceMissing  = errors.Base("source directory does not exist")
	ErrInvalidPattern = errors.Base("invalid glob pattern")
	ErrScanDirectory  = errors.Base("reading font directory")
	ErrDestination    = errors.Base("preparing destination directory")
	ErrCopyAborted    = errors.Base("copy aborted")
)

// PathError ties one of the sentinel errors above to the path (or pattern)
// it concerns. errors.Is matches both the sentinel and the wrapped cause.
type PathError struct {
	Op   error
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func (e *PathError) Is(target error) bool { return target == e.Op }
