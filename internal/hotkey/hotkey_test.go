package hotkey

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"golang.design/x/hotkey"

	"antigravity-voice/internal/events"
)

type fakeBinding struct {
	mu           sync.Mutex
	registered   bool
	unregistered bool
	err          error
	mods         []hotkey.Modifier
	key          hotkey.Key
	keydown      chan hotkey.Event
}

func (b *fakeBinding) Register() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.registered = true
	return nil
}

func (b *fakeBinding) Unregister() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unregistered = true
	return nil
}

func (b *fakeBinding) Keydown() <-chan hotkey.Event { return b.keydown }

func withFake(h *Handler, b *fakeBinding) {
	b.keydown = make(chan hotkey.Event, 4)
	h.newBinding = func(mods []hotkey.Modifier, key hotkey.Key) binding {
		b.mods = mods
		b.key = key
		return b
	}
}

func TestComboString(t *testing.T) {
	if got, want := DictationCombo.String(), "ctrl+super+space"; got != want {
		t.Fatalf("DictationCombo = %q, want %q", got, want)
	}
}

func TestRegisterConvertsCombo(t *testing.T) {
	h := New(nil)
	b := &fakeBinding{}
	withFake(h, b)

	if err := h.Register(DictationCombo); err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer h.Unregister()

	want := []hotkey.Modifier{modifierMap[ModCtrl], modifierMap[ModSuper]}
	if !reflect.DeepEqual(b.mods, want) {
		t.Fatalf("mods = %v, want %v", b.mods, want)
	}
	if b.key != hotkey.KeySpace {
		t.Fatalf("key = %v, want space", b.key)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	h := New(nil)
	withFake(h, &fakeBinding{})

	if err := h.Register(DictationCombo); err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer h.Unregister()

	if err := h.Register(DictationCombo); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register = %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegisterFailure(t *testing.T) {
	h := New(nil)
	errTaken := errors.New("hotkey taken")
	withFake(h, &fakeBinding{err: errTaken})

	err := h.Register(DictationCombo)
	if !errors.Is(err, errTaken) {
		t.Fatalf("Register = %v, want %v", err, errTaken)
	}
	// Неудачная регистрация не занимает слот.
	withFake(h, &fakeBinding{})
	if err := h.Register(DictationCombo); err != nil {
		t.Fatalf("Register after failure: %v", err)
	}
	h.Unregister()
}

func TestRegisterUnknownKey(t *testing.T) {
	h := New(nil)
	withFake(h, &fakeBinding{})
	if err := h.Register(Combo{Modifiers: []Modifier{ModCtrl}, Key: "f13"}); err == nil {
		t.Fatal("Register accepted an unknown key")
	}
	if err := h.Register(Combo{Modifiers: []Modifier{"hyper"}, Key: KeySpace}); err == nil {
		t.Fatal("Register accepted an unknown modifier")
	}
}

func TestUnregister(t *testing.T) {
	h := New(nil)
	b := &fakeBinding{}
	withFake(h, b)

	if err := h.Register(DictationCombo); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := h.Unregister(); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if !b.unregistered {
		t.Fatal("binding was not unregistered")
	}
	if err := h.Unregister(); err != nil {
		t.Fatalf("second Unregister: %v", err)
	}
}

type fakeTarget struct {
	mu    sync.Mutex
	calls []string
	fired chan struct{}
}

func (f *fakeTarget) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeTarget) Show()  { f.record("show") }
func (f *fakeTarget) Focus() { f.record("focus") }

func (f *fakeTarget) Emit(name string) int {
	f.record("emit:" + name)
	if f.fired != nil {
		f.fired <- struct{}{}
	}
	return 1
}

func (f *fakeTarget) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestActivate(t *testing.T) {
	target := &fakeTarget{}
	NewShortcut(target).Activate()

	want := []string{"show", "focus", "emit:" + events.StartDictation}
	if got := target.snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestShortcutKeydownDebounced(t *testing.T) {
	target := &fakeTarget{fired: make(chan struct{}, 4)}
	s := NewShortcut(target)
	b := &fakeBinding{}
	withFake(s.handler, b)

	if err := s.Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer s.Unregister()

	// Автоповтор клавиши: два keydown подряд дают одну активацию.
	b.keydown <- hotkey.Event{}
	b.keydown <- hotkey.Event{}

	select {
	case <-target.fired:
	case <-time.After(time.Second):
		t.Fatal("shortcut was not activated")
	}
	select {
	case <-target.fired:
		t.Fatal("key repeat activated the shortcut twice")
	case <-time.After(100 * time.Millisecond):
	}

	var emits int
	for _, c := range target.snapshot() {
		if c == "emit:"+events.StartDictation {
			emits++
		}
	}
	if emits != 1 {
		t.Fatalf("start-dictation emitted %d times, want 1", emits)
	}
}
