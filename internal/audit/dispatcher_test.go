package audit

import (
	"sync"
	"testing"
	"time"
)

type collectSink struct {
	mu     sync.Mutex
	events []Kind
	block  chan struct{} // when non-nil, Emit waits on it
}

func (s *collectSink) Emit(kind Kind, _ map[string]string) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, kind)
}

func (s *collectSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	sink := &collectSink{}
	d := NewDispatcher(sink, 16)

	d.Emit(KindLoginSucceeded, map[string]string{"user_id": "1"})
	d.Emit(KindLoginFailed, nil)
	d.Close()

	if sink.len() != 2 {
		t.Fatalf("expected 2 delivered events, got %d", sink.len())
	}
}

func TestDispatcher_CloseDrainsBuffer(t *testing.T) {
	sink := &collectSink{}
	d := NewDispatcher(sink, 64)

	for i := 0; i < 50; i++ {
		d.Emit(KindRegistered, nil)
	}
	d.Close()

	if sink.len() != 50 {
		t.Fatalf("expected all 50 events drained on close, got %d", sink.len())
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := &collectSink{block: block}
	d := NewDispatcher(sink, 1)

	// The consumer is stuck on the first event; the buffer holds one more.
	// Everything past that must be dropped, not block the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Emit(KindRateLimited, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}

	close(block)
	d.Close()

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events to be counted")
	}
}

func TestDispatcher_EmitAfterCloseIsNoop(t *testing.T) {
	sink := &collectSink{}
	d := NewDispatcher(sink, 4)
	d.Close()

	d.Emit(KindRegistered, nil)
	d.Close() // double close is safe

	if sink.len() != 0 {
		t.Fatalf("expected no deliveries after close, got %d", sink.len())
	}
}

func TestLogSink_RedactsSensitiveAttrs(t *testing.T) {
	// The redaction set is the contract; a sink must never see these keys.
	for _, key := range []string{"password", "token", "secret"} {
		if _, ok := redacted[key]; !ok {
			t.Fatalf("%q missing from redaction set", key)
		}
	}
}
