package bridge

import (
	"encoding/json"
	"time"
)

// Message types on the wire.
const (
	TypeResult = "result"
	TypeError  = "error"
	TypeEvent  = "event"
)

// Request is sent by the UI layer to invoke a command.
type Request struct {
	ID   string          `json:"id"`
	Cmd  string          `json:"cmd"`            // "copy_to_clipboard", "type_text", ...
	Args json.RawMessage `json:"args,omitempty"` // command arguments object
}

// Response is sent by the shell: a command result, a command error, or an
// unsolicited event.
type Response struct {
	Type    string          `json:"type"`              // "result", "error", "event"
	ID      string          `json:"id,omitempty"`      // request ID for result/error
	Result  json.RawMessage `json:"result,omitempty"`  // JSON-encoded command result
	Message string          `json:"message,omitempty"` // human-readable error
	Event   string          `json:"event,omitempty"`   // event name
}

// TextArgs are the arguments of copy_to_clipboard and copy_and_paste.
type TextArgs struct {
	Text *string `json:"text"`
}

// TypeTextArgs are the arguments of type_text.
type TypeTextArgs struct {
	Text    *string `json:"text"`
	DelayMs *int64  `json:"delay_ms,omitempty"`
}

// Commands is the command surface the bridge routes to. Implemented by
// commands.Service.
type Commands interface {
	CopyToClipboard(text string) error
	GetClipboardText() (string, error)
	SimulatePaste() error
	CopyAndPaste(text string) error
	TypeText(text string, delay *time.Duration) error
}

// RemoteError is a command failure reported by the shell.
type RemoteError struct {
	Cmd     string
	Message string
}

func (e *RemoteError) Error() string { return e.Cmd + ": " + e.Message }
