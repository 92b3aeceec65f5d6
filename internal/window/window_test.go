package window

import (
	"testing"

	"antigravity-voice/internal/events"
	"antigravity-voice/internal/i18n"
)

type countingEmitter struct {
	names []string
}

func (e *countingEmitter) Emit(name string) int {
	e.names = append(e.names, name)
	return 1
}

func TestNewWindowIsHidden(t *testing.T) {
	w := New(&countingEmitter{})
	if w.Visible() {
		t.Fatal("new window is visible")
	}
	// Focus and Hide on a hidden window are no-ops.
	w.Focus()
	w.Hide()
	if w.Visible() {
		t.Fatal("window became visible")
	}
}

func TestEmitForwardsToEmitter(t *testing.T) {
	em := &countingEmitter{}
	w := New(em)

	if got := w.Emit(events.StartDictation); got != 1 {
		t.Fatalf("Emit: got %d, want 1", got)
	}
	if len(em.names) != 1 || em.names[0] != events.StartDictation {
		t.Fatalf("emitted: %v", em.names)
	}
}

func TestStatusFollowsDictation(t *testing.T) {
	w := New(&countingEmitter{})

	if got, _, _ := w.status(); got != i18n.T("window_idle") {
		t.Fatalf("initial status: got %q", got)
	}
	w.Emit("something-else")
	if got, _, _ := w.status(); got != i18n.T("window_idle") {
		t.Fatalf("status after unrelated event: got %q", got)
	}
	w.Emit(events.StartDictation)
	if got, _, _ := w.status(); got != i18n.T("window_dictating") {
		t.Fatalf("status after start-dictation: got %q", got)
	}
}
