package clipboard

import "golang.design/x/clipboard"

// nativeBackend talks to the OS clipboard through golang.design/x/clipboard.
// That package signals failures with nil results rather than errors.
type nativeBackend struct{}

func (nativeBackend) Name() string { return "native" }

func (nativeBackend) SetText(text string) error {
	if clipboard.Write(clipboard.FmtText, []byte(text)) == nil {
		return &Error{Op: "write", Err: ErrUnavailable}
	}
	return nil
}

func (nativeBackend) Text() (string, error) {
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", &Error{Op: "read", Err: ErrEmpty}
	}
	return string(data), nil
}
