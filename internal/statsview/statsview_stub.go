//go:build !statsview
// +build !statsview

package statsview

import (
	"errors"
	"io"
)

// ErrNotAvailable is returned by Launch in builds without the statsview tag
var ErrNotAvailable = errors.New("statsview not available: build with -tags statsview")

// Launch does nothing in this build.
func Launch(addr string, output io.Writer) error {
	return ErrNotAvailable
}

// Available returns false: this build has no stats server.
func Available() bool {
	return false
}
