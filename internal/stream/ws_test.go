package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/avask/termapi/internal/errdef"
)

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close(websocket.StatusInternalError, "server teardown")
		ctx := r.Context()
		for {
			kind, payload, err := ws.Read(ctx)
			if err != nil {
				return
			}
			if err := ws.Write(ctx, kind, payload); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForEvent(t *testing.T, l Listener, dir Direction) *Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt, ok := <-l.C:
			if !ok {
				t.Fatalf("listener closed while waiting for direction %d", dir)
			}
			if evt.Direction == dir {
				return evt
			}
		case <-deadline:
			t.Fatalf("timed out waiting for direction %d", dir)
		}
	}
}

func TestDialSendEchoClose(t *testing.T) {
	server := echoServer(t)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := Dial(ctx, wsURL(server), DialOptions{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	l := conn.Session().Subscribe()
	defer l.Cancel()

	if err := conn.Send(ctx, `{"ping":1}`); err != nil {
		t.Fatalf("send: %v", err)
	}

	sent := waitForEvent(t, l, DirSend)
	if string(sent.Payload) != `{"ping":1}` {
		t.Fatalf("unexpected sent payload %q", sent.Payload)
	}
	echoed := waitForEvent(t, l, DirReceive)
	if string(echoed.Payload) != `{"ping":1}` {
		t.Fatalf("unexpected echoed payload %q", echoed.Payload)
	}

	if err := conn.Close(websocket.StatusNormalClosure, "done"); err != nil {
		t.Fatalf("close: %v", err)
	}
	<-conn.Session().Done()
	if state, err := conn.Session().State(); state != StateClosed || err != nil {
		t.Fatalf("unexpected terminal state %s (%v)", state, err)
	}
}

func TestDialFailureIsHTTPError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Dial(ctx, "ws://127.0.0.1:1/nope", DialOptions{})
	if !errdef.IsCode(err, errdef.CodeHTTP) {
		t.Fatalf("expected http-coded error, got %v", err)
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	server := echoServer(t)
	defer server.Close()

	ctx := context.Background()
	conn, err := Dial(ctx, wsURL(server), DialOptions{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := conn.Close(websocket.StatusNormalClosure, "bye"); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := conn.Send(ctx, "late"); err == nil {
		t.Fatalf("expected error sending on closed session")
	}
}
