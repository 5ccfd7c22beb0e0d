package telemetry

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	instr, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := instr.(noopInstrumenter); !ok {
		t.Fatalf("expected noop instrumenter, got %T", instr)
	}
}

func TestRequestSpanLifecycle(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	instr, err := New(Config{ServiceName: "termapi-test"}, WithSpanProcessor(recorder))
	if err != nil {
		t.Fatalf("new instrumenter: %v", err)
	}
	defer func() {
		if err := instr.Shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}()

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/users", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	_, span := instr.Start(context.Background(), RequestStart{
		HTTPRequest: req,
		Protocol:    "http",
	})
	span.End(RequestResult{StatusCode: 200})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name() != "GET api.example.com" {
		t.Fatalf("unexpected span name %q", got.Name())
	}
	if got.Status().Code != codes.Ok {
		t.Fatalf("expected ok status, got %v", got.Status())
	}
}

func TestRequestSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	instr, err := New(Config{ServiceName: "termapi-test"}, WithSpanProcessor(recorder))
	if err != nil {
		t.Fatalf("new instrumenter: %v", err)
	}
	defer instr.Shutdown(context.Background())

	req, _ := http.NewRequest(http.MethodPost, "https://api.example.com/login", nil)
	_, span := instr.Start(context.Background(), RequestStart{HTTPRequest: req})
	span.End(RequestResult{Err: errors.New("connection refused")})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("expected error status, got %v", spans[0].Status())
	}
}
