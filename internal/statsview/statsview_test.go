//go:build !statsview
// +build !statsview

package statsview

import (
	"bytes"
	"errors"
	"testing"
)

func TestStubLaunch(t *testing.T) {
	if Available() {
		t.Fatal("Available() true without the statsview tag")
	}

	var out bytes.Buffer
	if err := Launch(DefaultAddress, &out); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Launch() error = %v, want ErrNotAvailable", err)
	}
	if out.Len() != 0 {
		t.Errorf("Launch() wrote %q", out.String())
	}
}
