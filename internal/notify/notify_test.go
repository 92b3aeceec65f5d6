package notify

import (
	"testing"

	"antigravity-voice/internal/i18n"
)

type sent struct{ title, message string }

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	prev := send
	send = func(title, message string) error {
		got = append(got, sent{title, message})
		return nil
	}
	t.Cleanup(func() { send = prev })
	return &got
}

func TestReady(t *testing.T) {
	got := capture(t)
	New(true).Ready()

	if len(*got) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*got))
	}
	if n := (*got)[0]; n.title != i18n.T("app_name") || n.message != i18n.T("notify_ready") {
		t.Fatalf("notification = %+v", n)
	}
}

func TestDisabled(t *testing.T) {
	got := capture(t)
	n := New(false)
	n.Ready()
	if len(*got) != 0 {
		t.Fatalf("disabled notifier sent %v", *got)
	}
}
