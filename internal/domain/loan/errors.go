package loan

import "errors"

var (
	// ErrStaleStatus is returned by guarded updates when the row no longer has
	// the status the caller read.
	ErrStaleStatus = errors.New("loan status changed concurrently")
)
