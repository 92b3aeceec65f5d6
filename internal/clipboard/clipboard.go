// Package clipboard wraps the system clipboard behind a text-only interface.
//
// Backends, in order of preference:
//
//	native : golang.design/x/clipboard (Cocoa, Win32, X11)
//	shell  : github.com/atotto/clipboard (wl-clipboard, xclip, xsel, pbcopy)
//	none   : every call fails with ErrUnavailable
//
// The backend is chosen once, in New.
package clipboard

import (
	"errors"
	"log/slog"

	shellclip "github.com/atotto/clipboard"
	"golang.design/x/clipboard"
)

var (
	// ErrEmpty means the clipboard holds no text.
	ErrEmpty = errors.New("clipboard is empty or does not contain text")
	// ErrUnavailable means the clipboard could not be opened.
	ErrUnavailable = errors.New("clipboard is not available")
)

// Error is returned by every failing clipboard operation.
type Error struct {
	Op  string // "read" or "write"
	Err error
}

func (e *Error) Error() string { return "clipboard " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Clipboard reads and writes the text content of the system clipboard.
type Clipboard interface {
	// Name returns a human-readable name for the backend.
	Name() string
	// SetText replaces the clipboard contents with text.
	SetText(text string) error
	// Text returns the current clipboard text.
	Text() (string, error)
}

// New returns the best clipboard backend available in this environment.
// It never fails: without any usable backend the returned Clipboard reports
// ErrUnavailable on every call.
func New() Clipboard {
	cb := choose(clipboard.Init, !shellclip.Unsupported)
	slog.Info("clipboard backend selected", "backend", cb.Name())
	return cb
}

func choose(initNative func() error, shellSupported bool) Clipboard {
	err := initNative()
	if err == nil {
		return nativeBackend{}
	}
	slog.Debug("native clipboard unavailable", "err", err)
	if shellSupported {
		return shellBackend{}
	}
	return unavailableBackend{cause: err}
}

type unavailableBackend struct {
	cause error
}

func (unavailableBackend) Name() string { return "none" }

func (b unavailableBackend) SetText(string) error {
	return &Error{Op: "write", Err: b.err()}
}

func (b unavailableBackend) Text() (string, error) {
	return "", &Error{Op: "read", Err: b.err()}
}

func (b unavailableBackend) err() error {
	if b.cause == nil {
		return ErrUnavailable
	}
	return errors.Join(ErrUnavailable, b.cause)
}
