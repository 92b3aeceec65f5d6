package events

import "testing"

func TestEmit_ReachesEverySubscriberOnce(t *testing.T) {
	bus := NewBus()
	a, cancelA := bus.Subscribe()
	defer cancelA()
	b, cancelB := bus.Subscribe()
	defer cancelB()

	if got := bus.Emit(StartDictation); got != 2 {
		t.Fatalf("delivered: got %d, want 2", got)
	}

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Name != StartDictation {
				t.Fatalf("%s: got %q", name, ev.Name)
			}
		default:
			t.Fatalf("%s: no event", name)
		}
		select {
		case ev := <-ch:
			t.Fatalf("%s: duplicate event %q", name, ev.Name)
		default:
		}
	}
}

func TestEmit_WithoutSubscribers(t *testing.T) {
	if got := NewBus().Emit(StartDictation); got != 0 {
		t.Fatalf("delivered: got %d, want 0", got)
	}
}

func TestEmit_DropsForFullSubscriber(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer; i++ {
		bus.Emit(StartDictation)
	}
	if got := bus.Emit(StartDictation); got != 0 {
		t.Fatalf("delivered to full subscriber: got %d, want 0", got)
	}
	if got := len(ch); got != subscriberBuffer {
		t.Fatalf("buffered: got %d, want %d", got, subscriberBuffer)
	}
}

func TestCancel_ClosesAndUnregisters(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	if got := bus.Subscribers(); got != 1 {
		t.Fatalf("subscribers: got %d, want 1", got)
	}

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("channel still open after cancel")
	}
	if got := bus.Subscribers(); got != 0 {
		t.Fatalf("subscribers after cancel: got %d, want 0", got)
	}
	if got := bus.Emit(StartDictation); got != 0 {
		t.Fatalf("delivered after cancel: got %d", got)
	}
}
