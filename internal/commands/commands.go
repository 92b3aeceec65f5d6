// Package commands implements the command surface exposed to the UI layer:
// clipboard read/write, synthetic paste and character-by-character typing.
package commands

import (
	"errors"
	"runtime"
	"time"

	"antigravity-voice/internal/input"
)

// Names of the operations as the UI layer invokes them.
const (
	CopyToClipboard  = "copy_to_clipboard"
	GetClipboardText = "get_clipboard_text"
	SimulatePaste    = "simulate_paste"
	CopyAndPaste     = "copy_and_paste"
	TypeText         = "type_text"
)

// ErrNegativeDelay is returned by TypeText for a negative per-character delay.
var ErrNegativeDelay = errors.New("delay_ms must not be negative")

// Clipboard is the subset of clipboard.Clipboard the service needs.
type Clipboard interface {
	SetText(text string) error
	Text() (string, error)
}

// Keyboard is the subset of input.Keyboard the service needs.
type Keyboard interface {
	Chord(c input.Chord) error
	TypeRune(r rune) error
}

// Timings are the fixed waits around synthetic input.
type Timings struct {
	// PasteSettle is waited before the paste chord in SimulatePaste.
	PasteSettle time.Duration
	// CopyPasteGap separates the clipboard write from the chord in CopyAndPaste.
	CopyPasteGap time.Duration
	// TypeDelay is the default pause after each typed character.
	TypeDelay time.Duration
}

// DefaultTimings returns the stock delays.
func DefaultTimings() Timings {
	return Timings{
		PasteSettle:  50 * time.Millisecond,
		CopyPasteGap: 100 * time.Millisecond,
		TypeDelay:    10 * time.Millisecond,
	}
}

// Service performs the commands against a clipboard and a keyboard.
// Operations block their caller for the configured waits and cannot be
// interrupted.
type Service struct {
	clip    Clipboard
	kb      Keyboard
	chord   input.Chord
	timings Timings
	sleep   func(time.Duration)
}

// Option configures a Service.
type Option func(*Service)

// WithTimings overrides the default delays.
func WithTimings(t Timings) Option {
	return func(s *Service) { s.timings = t }
}

// WithPasteChord overrides the platform paste chord.
func WithPasteChord(c input.Chord) Option {
	return func(s *Service) { s.chord = c }
}

// WithSleep replaces time.Sleep.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Service) { s.sleep = fn }
}

// New returns a Service. The paste chord is looked up once for the running
// platform.
func New(clip Clipboard, kb Keyboard, opts ...Option) *Service {
	s := &Service{
		clip:    clip,
		kb:      kb,
		chord:   input.PasteChordFor(runtime.GOOS),
		timings: DefaultTimings(),
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PasteChord returns the chord SimulatePaste and CopyAndPaste send.
func (s *Service) PasteChord() input.Chord { return s.chord }

// CopyToClipboard replaces the clipboard text. The previous contents are lost.
func (s *Service) CopyToClipboard(text string) error {
	return s.clip.SetText(text)
}

// GetClipboardText returns the clipboard text.
func (s *Service) GetClipboardText() (string, error) {
	return s.clip.Text()
}

// SimulatePaste waits for the clipboard to settle and sends the paste chord.
func (s *Service) SimulatePaste() error {
	s.wait(s.timings.PasteSettle)
	return s.kb.Chord(s.chord)
}

// CopyAndPaste writes text to the clipboard and pastes it. The chord is not
// sent if the write fails; a failed chord leaves the clipboard modified.
func (s *Service) CopyAndPaste(text string) error {
	if err := s.clip.SetText(text); err != nil {
		return err
	}
	s.wait(s.timings.CopyPasteGap)
	return s.kb.Chord(s.chord)
}

// TypeText types text one character at a time, pausing delay after each
// one. A nil delay uses the configured default. Typing stops at the first
// failure; characters before it have already been delivered.
func (s *Service) TypeText(text string, delay *time.Duration) error {
	d := s.timings.TypeDelay
	if delay != nil {
		d = *delay
	}
	if d < 0 {
		return ErrNegativeDelay
	}

	for _, r := range text {
		if err := s.kb.TypeRune(r); err != nil {
			return err
		}
		s.wait(d)
	}
	return nil
}

func (s *Service) wait(d time.Duration) {
	if d > 0 {
		s.sleep(d)
	}
}
