//go:build !darwin && !windows && !linux

package input

import (
	"fmt"
	"runtime"
)

func newKeyboard() (Keyboard, error) {
	return nil, fmt.Errorf("input injection is not supported on %s", runtime.GOOS)
}
