package stream

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/avask/termapi/internal/errdef"
)

const defaultSendQueue = 32

type DialOptions struct {
	Headers     http.Header
	DialTimeout time.Duration
	Session     Config
	// DialFunc overrides the websocket dial, primarily for tests.
	DialFunc func(context.Context, string, *websocket.DialOptions) (*websocket.Conn, *http.Response, error)
}

type outbound struct {
	payload []byte
	result  chan error
}

// Conn couples a live websocket to its transcript session. A single writer
// goroutine owns all frame writes; Send hands payloads to it and waits for
// the write result.
type Conn struct {
	session *Session
	ws      *websocket.Conn
	sendCh  chan outbound
}

// Dial opens a websocket and starts the read and write pumps. The returned
// Conn must be closed by its owner; abandoning it leaks the socket.
func Dial(ctx context.Context, url string, opts DialOptions) (*Conn, error) {
	dial := opts.DialFunc
	if dial == nil {
		dial = websocket.Dial
	}

	dialCtx := ctx
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}

	ws, resp, err := dial(dialCtx, url, &websocket.DialOptions{
		HTTPHeader: opts.Headers,
	})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "dial websocket %s", url)
	}

	session := NewSession(ctx, opts.Session)
	session.MarkOpen()

	conn := &Conn{
		session: session,
		ws:      ws,
		sendCh:  make(chan outbound, defaultSendQueue),
	}
	go conn.readPump()
	go conn.writePump()
	return conn, nil
}

func (c *Conn) Session() *Session {
	return c.session
}

// Send queues one text frame. It blocks until the writer picks it up and
// reports the write result, or the context/session ends first.
func (c *Conn) Send(ctx context.Context, payload string) error {
	out := outbound{payload: []byte(payload), result: make(chan error, 1)}
	select {
	case c.sendCh <- out:
	case <-ctx.Done():
		return errdef.Wrap(errdef.CodeHTTP, ctx.Err(), "queue websocket message")
	case <-c.session.Done():
		return errdef.New(errdef.CodeHTTP, "websocket session closed")
	}

	select {
	case err := <-out.result:
		return err
	case <-ctx.Done():
		return errdef.Wrap(errdef.CodeHTTP, ctx.Err(), "send websocket message")
	}
}

// Close performs the close handshake and ends the session. Safe to call
// after a failure; the session keeps its first error.
func (c *Conn) Close(code websocket.StatusCode, reason string) error {
	c.session.MarkClosing()
	err := c.ws.Close(code, reason)
	c.session.Publish(&Event{
		Direction: DirNA,
		Code:      code,
		Reason:    reason,
	})
	c.session.Close(nil)
	return err
}

func (c *Conn) readPump() {
	for {
		_, payload, err := c.ws.Read(c.session.Context())
		if err != nil {
			state, _ := c.session.State()
			if state == StateClosing || state == StateClosed {
				c.session.Close(nil)
				return
			}
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				c.session.Publish(&Event{Direction: DirNA, Code: status})
				c.session.Close(nil)
				return
			}
			c.session.Close(errdef.Wrap(errdef.CodeHTTP, err, "read websocket frame"))
			return
		}
		c.session.Publish(&Event{
			Direction: DirReceive,
			Payload:   payload,
		})
	}
}

func (c *Conn) writePump() {
	for {
		select {
		case out := <-c.sendCh:
			err := c.ws.Write(c.session.Context(), websocket.MessageText, out.payload)
			if err == nil {
				c.session.Publish(&Event{
					Direction: DirSend,
					Payload:   out.payload,
				})
			} else {
				err = errdef.Wrap(errdef.CodeHTTP, err, "write websocket frame")
			}
			out.result <- err
		case <-c.session.Done():
			return
		}
	}
}
