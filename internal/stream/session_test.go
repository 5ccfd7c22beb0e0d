package stream

import (
	"context"
	"testing"
)

func TestRingBufferEvictsOldest(t *testing.T) {
	rb := newRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.append(&Event{Sequence: uint64(i)})
	}
	snap := rb.snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	if snap[0].Sequence != 2 || snap[2].Sequence != 4 {
		t.Fatalf("unexpected window: %d..%d", snap[0].Sequence, snap[2].Sequence)
	}
}

func TestSessionPublishAndSubscribe(t *testing.T) {
	s := NewSession(context.Background(), Config{BufferSize: 8, ListenerBuffer: 8})
	s.MarkOpen()
	s.Publish(&Event{Direction: DirReceive, Payload: []byte("early")})

	l := s.Subscribe()
	defer l.Cancel()

	if len(l.Snapshot.Events) != 1 || string(l.Snapshot.Events[0].Payload) != "early" {
		t.Fatalf("snapshot missing pre-subscribe event: %+v", l.Snapshot.Events)
	}
	if l.Snapshot.State != StateOpen {
		t.Fatalf("expected open state in snapshot, got %s", l.Snapshot.State)
	}

	s.Publish(&Event{Direction: DirSend, Payload: []byte("hello")})
	evt := <-l.C
	if evt.Direction != DirSend || string(evt.Payload) != "hello" {
		t.Fatalf("unexpected event %+v", evt)
	}

	stats := s.StatsSnapshot()
	if stats.EventsTotal != 2 || stats.BytesTotal != uint64(len("early")+len("hello")) {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestSessionDropOldestKeepsListenerAlive(t *testing.T) {
	s := NewSession(context.Background(), Config{
		BufferSize:     8,
		ListenerBuffer: 1,
		DropPolicy:     DropOldest,
	})
	l := s.Subscribe()
	defer l.Cancel()

	s.Publish(&Event{Payload: []byte("one")})
	s.Publish(&Event{Payload: []byte("two")})

	evt := <-l.C
	if string(evt.Payload) != "two" {
		t.Fatalf("expected newest event to survive, got %q", evt.Payload)
	}
}

func TestSessionCloseReleasesListeners(t *testing.T) {
	s := NewSession(context.Background(), Config{})
	l := s.Subscribe()

	s.Close(nil)

	if _, ok := <-l.C; ok {
		t.Fatalf("expected listener channel closed")
	}
	select {
	case <-s.Done():
	default:
		t.Fatalf("expected done channel closed")
	}
	if state, err := s.State(); state != StateClosed || err != nil {
		t.Fatalf("unexpected terminal state %s (%v)", state, err)
	}
}

func TestSessionCloseWithErrorMarksFailed(t *testing.T) {
	s := NewSession(context.Background(), Config{})
	s.Close(context.DeadlineExceeded)
	state, err := s.State()
	if state != StateFailed || err == nil {
		t.Fatalf("expected failed state with error, got %s (%v)", state, err)
	}
}
