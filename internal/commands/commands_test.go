package commands

import (
	"errors"
	"reflect"
	"runtime"
	"testing"
	"time"

	"antigravity-voice/internal/clipboard"
	"antigravity-voice/internal/input"
)

// recorder logs every OS-facing call in order.
type recorder struct {
	calls []string
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

type fakeClipboard struct {
	rec      *recorder
	text     string
	has      bool
	writeErr error
}

func (c *fakeClipboard) SetText(text string) error {
	c.rec.add("set:" + text)
	if c.writeErr != nil {
		return c.writeErr
	}
	c.text, c.has = text, true
	return nil
}

func (c *fakeClipboard) Text() (string, error) {
	if !c.has {
		return "", &clipboard.Error{Op: "read", Err: clipboard.ErrEmpty}
	}
	return c.text, nil
}

type fakeKeyboard struct {
	rec      *recorder
	chordErr error
	failAt   rune
}

func (k *fakeKeyboard) Chord(c input.Chord) error {
	k.rec.add("chord:" + c.String())
	return k.chordErr
}

func (k *fakeKeyboard) TypeRune(r rune) error {
	if k.failAt != 0 && r == k.failAt {
		return &input.InjectionError{Op: "type", Err: input.ErrPermission}
	}
	k.rec.add("type:" + string(r))
	return nil
}

func newService(t *testing.T, opts ...Option) (*Service, *recorder, *fakeClipboard, *fakeKeyboard) {
	t.Helper()
	rec := &recorder{}
	clip := &fakeClipboard{rec: rec}
	kb := &fakeKeyboard{rec: rec}
	base := []Option{
		WithPasteChord(input.Chord{Modifier: input.ModControl, Key: 'v'}),
		WithSleep(func(d time.Duration) { rec.add("sleep:" + d.String()) }),
	}
	return New(clip, kb, append(base, opts...)...), rec, clip, kb
}

func TestClipboardRoundTrip(t *testing.T) {
	svc, _, _, _ := newService(t)

	if err := svc.CopyToClipboard("X"); err != nil {
		t.Fatalf("CopyToClipboard: %v", err)
	}
	got, err := svc.GetClipboardText()
	if err != nil {
		t.Fatalf("GetClipboardText: %v", err)
	}
	if got != "X" {
		t.Fatalf("got %q, want %q", got, "X")
	}
}

func TestGetClipboardText_Empty(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.GetClipboardText()
	if !errors.Is(err, clipboard.ErrEmpty) {
		t.Fatalf("got %v, want ErrEmpty", err)
	}
}

func TestSimulatePaste_SettlesThenChords(t *testing.T) {
	svc, rec, _, _ := newService(t)

	if err := svc.SimulatePaste(); err != nil {
		t.Fatalf("SimulatePaste: %v", err)
	}
	want := []string{"sleep:50ms", "chord:Control+V"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls: got %v, want %v", rec.calls, want)
	}
}

func TestSimulatePaste_PermissionDenied(t *testing.T) {
	svc, _, _, kb := newService(t)
	kb.chordErr = &input.InjectionError{Op: "chord", Err: input.ErrPermission}

	err := svc.SimulatePaste()
	var ierr *input.InjectionError
	if !errors.As(err, &ierr) || !errors.Is(err, input.ErrPermission) {
		t.Fatalf("got %v, want permission *InjectionError", err)
	}
}

func TestCopyAndPaste_CopiesBeforeChord(t *testing.T) {
	svc, rec, clip, _ := newService(t)

	if err := svc.CopyAndPaste("hola"); err != nil {
		t.Fatalf("CopyAndPaste: %v", err)
	}
	want := []string{"set:hola", "sleep:100ms", "chord:Control+V"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls: got %v, want %v", rec.calls, want)
	}
	if clip.text != "hola" {
		t.Fatalf("clipboard: got %q", clip.text)
	}
}

func TestCopyAndPaste_NoChordWhenCopyFails(t *testing.T) {
	svc, rec, clip, _ := newService(t)
	clip.writeErr = &clipboard.Error{Op: "write", Err: clipboard.ErrUnavailable}

	err := svc.CopyAndPaste("hola")
	if !errors.Is(err, clipboard.ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
	want := []string{"set:hola"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls: got %v, want %v", rec.calls, want)
	}
}

func TestCopyAndPaste_ChordFailureKeepsClipboard(t *testing.T) {
	svc, _, clip, kb := newService(t)
	kb.chordErr = &input.InjectionError{Op: "chord", Err: input.ErrPermission}

	if err := svc.CopyAndPaste("hola"); err == nil {
		t.Fatal("expected error from chord")
	}
	if clip.text != "hola" {
		t.Fatalf("clipboard rolled back: got %q", clip.text)
	}
}

func TestTypeText_ZeroDelay(t *testing.T) {
	svc, rec, _, _ := newService(t)
	zero := time.Duration(0)

	if err := svc.TypeText("ab", &zero); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	want := []string{"type:a", "type:b"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls: got %v, want %v", rec.calls, want)
	}
}

func TestTypeText_DefaultDelay(t *testing.T) {
	svc, rec, _, _ := newService(t)

	if err := svc.TypeText("añ", nil); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	want := []string{"type:a", "sleep:10ms", "type:ñ", "sleep:10ms"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls: got %v, want %v", rec.calls, want)
	}
}

func TestTypeText_ConfiguredDelay(t *testing.T) {
	svc, rec, _, _ := newService(t, WithTimings(Timings{TypeDelay: 25 * time.Millisecond}))

	if err := svc.TypeText("a", nil); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	want := []string{"type:a", "sleep:25ms"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls: got %v, want %v", rec.calls, want)
	}
}

func TestTypeText_EmptyIsNoop(t *testing.T) {
	svc, rec, _, _ := newService(t)

	if err := svc.TypeText("", nil); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("calls: got %v, want none", rec.calls)
	}
}

func TestTypeText_StopsAtFirstFailure(t *testing.T) {
	svc, rec, _, kb := newService(t)
	kb.failAt = 'b'
	zero := time.Duration(0)

	err := svc.TypeText("abc", &zero)
	if !errors.Is(err, input.ErrPermission) {
		t.Fatalf("got %v, want ErrPermission", err)
	}
	want := []string{"type:a"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls: got %v, want %v", rec.calls, want)
	}
}

func TestTypeText_NegativeDelay(t *testing.T) {
	svc, rec, _, _ := newService(t)
	neg := -time.Millisecond

	if err := svc.TypeText("ab", &neg); !errors.Is(err, ErrNegativeDelay) {
		t.Fatalf("got %v, want ErrNegativeDelay", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("keystrokes sent before validation: %v", rec.calls)
	}
}

func TestNew_UsesPlatformChord(t *testing.T) {
	svc := New(&fakeClipboard{rec: &recorder{}}, &fakeKeyboard{rec: &recorder{}})
	want := input.PasteChordFor(runtime.GOOS)
	if got := svc.PasteChord(); got != want {
		t.Fatalf("chord: got %v, want %v", got, want)
	}
}
