package events

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/npratt/swcedit/internal/morph"
)

func added(id int) Event {
	return &NodeAddedEvent{BaseEvent: NewEditorEvent(EventNodeAdded), NodeID: morph.NodeID(id), ParentID: 1}
}

func drain(ch <-chan Event) int {
	count := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return count
			}
			count++
		default:
			return count
		}
	}
}

func TestNewRouter(t *testing.T) {
	t.Run("default buffer size", func(t *testing.T) {
		r := NewRouter(0, nil)
		if r.bufferSize != DefaultBufferSize {
			t.Errorf("expected buffer size %d, got %d", DefaultBufferSize, r.bufferSize)
		}
	})

	t.Run("negative buffer size uses default", func(t *testing.T) {
		r := NewRouter(-10, nil)
		if r.bufferSize != DefaultBufferSize {
			t.Errorf("expected buffer size %d, got %d", DefaultBufferSize, r.bufferSize)
		}
	})

	t.Run("custom buffer size", func(t *testing.T) {
		r := NewRouter(50, nil)
		if r.bufferSize != 50 {
			t.Errorf("expected buffer size 50, got %d", r.bufferSize)
		}
	})
}

func TestRouterEmitSubscribe(t *testing.T) {
	t.Run("single subscriber receives event", func(t *testing.T) {
		r := NewRouter(10, nil)
		defer r.Close()

		ch := r.Subscribe()
		r.Emit(added(7))

		select {
		case received := <-ch:
			ev, ok := received.(*NodeAddedEvent)
			if !ok {
				t.Fatalf("expected *NodeAddedEvent, got %T", received)
			}
			if ev.NodeID != 7 || ev.Type() != EventNodeAdded {
				t.Errorf("unexpected event %+v", ev)
			}
		case <-time.After(time.Second):
			t.Error("timeout waiting for event")
		}
	})

	t.Run("multiple subscribers each receive all events", func(t *testing.T) {
		r := NewRouter(10, nil)
		defer r.Close()

		subs := []<-chan Event{r.Subscribe(), r.Subscribe(), r.Subscribe()}
		for i := range 3 {
			r.Emit(added(i + 2))
		}

		for i, ch := range subs {
			if got := drain(ch); got != 3 {
				t.Errorf("subscriber %d got %d events, want 3", i, got)
			}
		}
	})
}

func TestRouterSubscribeBuffered(t *testing.T) {
	r := NewRouter(10, nil)
	defer r.Close()

	ch := r.SubscribeBuffered(1000)
	for i := range 500 {
		r.Emit(added(i))
	}

	if got := drain(ch); got != 500 {
		t.Errorf("expected 500 buffered events, got %d", got)
	}
}

func TestRouterUnsubscribe(t *testing.T) {
	t.Run("unsubscribe removes subscriber", func(t *testing.T) {
		r := NewRouter(10, nil)
		defer r.Close()

		ch1 := r.Subscribe()
		ch2 := r.Subscribe()
		r.Unsubscribe(ch1)
		r.Emit(added(2))

		select {
		case _, ok := <-ch1:
			if ok {
				t.Error("expected ch1 to be closed")
			}
		default:
			t.Error("ch1 should be readable (closed)")
		}

		if got := drain(ch2); got != 1 {
			t.Errorf("ch2 got %d events, want 1", got)
		}
	})

	t.Run("unsubscribe unknown channel is safe", func(t *testing.T) {
		r := NewRouter(10, nil)
		defer r.Close()

		r.Unsubscribe(make(chan Event))
	})
}

func TestRouterClose(t *testing.T) {
	t.Run("close closes all subscriber channels", func(t *testing.T) {
		r := NewRouter(10, nil)
		ch1 := r.Subscribe()
		ch2 := r.Subscribe()

		r.Close()

		for i, ch := range []<-chan Event{ch1, ch2} {
			select {
			case _, ok := <-ch:
				if ok {
					t.Errorf("expected channel %d to be closed", i)
				}
			default:
				t.Errorf("channel %d should be readable (closed)", i)
			}
		}
	})

	t.Run("emit after close is no-op", func(t *testing.T) {
		r := NewRouter(10, nil)
		ch := r.Subscribe()
		r.Close()

		r.Emit(added(2))

		if _, ok := <-ch; ok {
			t.Error("expected channel to be closed, not receive event")
		}
	})

	t.Run("subscribe after close returns closed channel", func(t *testing.T) {
		r := NewRouter(10, nil)
		r.Close()

		if _, ok := <-r.Subscribe(); ok {
			t.Error("expected channel to be closed")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		r := NewRouter(10, nil)
		r.Subscribe()

		r.Close()
		r.Close()
	})
}

func TestRouterFullBuffer(t *testing.T) {
	var logs bytes.Buffer
	r := NewRouter(2, slog.New(slog.NewTextHandler(&logs, nil)))
	defer r.Close()

	ch := r.SubscribeBuffered(2)
	for i := range 10 {
		r.Emit(added(i))
	}

	if got := drain(ch); got != 2 {
		t.Errorf("expected 2 events (buffer full, rest dropped), got %d", got)
	}
	if r.Dropped() != 8 {
		t.Errorf("Dropped() = %d, want 8", r.Dropped())
	}
	if !strings.Contains(logs.String(), "event_type=node.added") {
		t.Errorf("drop warning missing event type: %s", logs.String())
	}
}

func TestRouterConcurrency(t *testing.T) {
	r := NewRouter(100, nil)
	defer r.Close()

	subscribers := make([]<-chan Event, 10)
	for i := range subscribers {
		subscribers[i] = r.Subscribe()
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				r.Emit(added(j))
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 10 {
			r.Unsubscribe(r.Subscribe())
		}
	}()

	wg.Wait()

	for _, ch := range subscribers {
		drain(ch)
	}
}
