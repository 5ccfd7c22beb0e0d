package stream

import (
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
)

type Direction int

const (
	DirNA Direction = iota
	DirSend
	DirReceive
)

type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosing
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Event is one entry in a session transcript: a frame sent or received, or a
// lifecycle marker such as the close handshake.
type Event struct {
	Direction Direction
	Timestamp time.Time
	Sequence  uint64

	Payload []byte

	Code   websocket.StatusCode
	Reason string
}

var seqCounter uint64

func nextSequence() uint64 {
	return atomic.AddUint64(&seqCounter, 1)
}

// ringBuffer keeps the most recent events; old transcript entries fall off
// the front once capacity is reached.
type ringBuffer struct {
	buf   []*Event
	start int
	size  int
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &ringBuffer{buf: make([]*Event, capacity)}
}

func (r *ringBuffer) append(evt *Event) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = evt
		r.size++
		return
	}
	r.buf[r.start] = evt
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ringBuffer) snapshot() []*Event {
	out := make([]*Event, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}
