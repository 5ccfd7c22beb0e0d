package model

import "time"

// ErrorKind classifies a failed send. Values originate in the protocol
// executors and are carried through unmodified.
type ErrorKind string

const (
	ErrNone              ErrorKind = ""
	ErrCancelled         ErrorKind = "cancelled"
	ErrTimedOut          ErrorKind = "timed_out"
	ErrConnectionRefused ErrorKind = "connection_refused"
	ErrDNS               ErrorKind = "dns_failure"
	ErrTLS               ErrorKind = "tls_failure"
	ErrTransport         ErrorKind = "transport"
)

// Response is immutable once produced. A new send always builds a new
// Response; nothing mutates one in place, so an in-flight send can never race
// a stale render.
type Response struct {
	StatusCode int
	Status     string
	Headers    Headers
	Body       string
	Latency    time.Duration
	Err        ErrorKind
	ErrDetail  string
}

func (r *Response) Failed() bool {
	return r != nil && r.Err != ErrNone
}

func ErrorResponse(kind ErrorKind, detail string, latency time.Duration) *Response {
	return &Response{Err: kind, ErrDetail: detail, Latency: latency}
}
