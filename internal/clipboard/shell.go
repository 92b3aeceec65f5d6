package clipboard

import (
	"errors"

	shellclip "github.com/atotto/clipboard"
)

// shellBackend delegates to the platform clipboard utilities. It covers
// Wayland sessions where the native X11 backend cannot initialise.
type shellBackend struct{}

func (shellBackend) Name() string { return "shell" }

func (shellBackend) SetText(text string) error {
	if err := shellclip.WriteAll(text); err != nil {
		return &Error{Op: "write", Err: errors.Join(ErrUnavailable, err)}
	}
	return nil
}

func (shellBackend) Text() (string, error) {
	text, err := shellclip.ReadAll()
	if err != nil {
		return "", &Error{Op: "read", Err: errors.Join(ErrUnavailable, err)}
	}
	if text == "" {
		return "", &Error{Op: "read", Err: ErrEmpty}
	}
	return text, nil
}
