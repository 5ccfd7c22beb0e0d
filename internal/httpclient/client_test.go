package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/model"
)

func TestExecuteAppliesHeadersAndAuth(t *testing.T) {
	var seen http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.Header().Set("X-Server", "test")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	req := &model.HTTPRequest{
		Method: model.MethodGet,
		URL:    server.URL,
		Headers: model.Headers{
			model.NewHeader("Accept", "application/json"),
			{Name: "X-Disabled", Value: "nope", Enabled: false},
		},
		Auth: model.BearerAuth("tok123"),
	}

	resp, err := NewClient().Execute(context.Background(), req, nil, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.Failed() {
		t.Fatalf("unexpected failure: %s %s", resp.Err, resp.ErrDetail)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != `{"ok":true}` {
		t.Fatalf("unexpected response %+v", resp)
	}
	if seen.Get("Authorization") != "Bearer tok123" {
		t.Fatalf("missing bearer header, got %q", seen.Get("Authorization"))
	}
	if seen.Get("Accept") != "application/json" {
		t.Fatalf("missing accept header")
	}
	if seen.Get("X-Disabled") != "" {
		t.Fatalf("disabled header must not be sent")
	}
	if got, ok := resp.Headers.Get("X-Server"); !ok || got != "test" {
		t.Fatalf("response headers not captured: %v", resp.Headers)
	}
	if resp.Latency <= 0 {
		t.Fatalf("latency not measured")
	}
}

func TestExecuteSendsBody(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	req := &model.HTTPRequest{
		Method: model.MethodPost,
		URL:    server.URL,
		Body:   `{"u":"a"}`,
	}
	resp, err := NewClient().Execute(context.Background(), req, nil, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if string(body) != `{"u":"a"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestExecuteValidationError(t *testing.T) {
	req := &model.HTTPRequest{Method: model.MethodGet}
	_, err := NewClient().Execute(context.Background(), req, nil, Options{})
	if !errdef.IsCode(err, errdef.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteConnectionRefused(t *testing.T) {
	req := &model.HTTPRequest{
		Method: model.MethodGet,
		URL:    "http://127.0.0.1:1/unreachable",
	}
	resp, err := NewClient().Execute(context.Background(), req, nil, Options{})
	if err != nil {
		t.Fatalf("transport failures must map into the response, got %v", err)
	}
	if resp.Err != model.ErrConnectionRefused {
		t.Fatalf("expected connection_refused, got %s (%s)", resp.Err, resp.ErrDetail)
	}
}

func TestExecuteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	req := &model.HTTPRequest{Method: model.MethodGet, URL: server.URL}
	resp, err := NewClient().Execute(context.Background(), req, nil, Options{
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.Err != model.ErrTimedOut {
		t.Fatalf("expected timed_out, got %s (%s)", resp.Err, resp.ErrDetail)
	}
}

func TestExecuteCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	req := &model.HTTPRequest{Method: model.MethodGet, URL: server.URL}
	resp, err := NewClient().Execute(ctx, req, nil, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.Err != model.ErrCancelled {
		t.Fatalf("expected cancelled, got %s (%s)", resp.Err, resp.ErrDetail)
	}
}

func TestExecuteRedirectPolicy(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "landed")
	}))
	defer target.Close()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer origin.Close()

	req := &model.HTTPRequest{Method: model.MethodGet, URL: origin.URL}

	resp, err := NewClient().Execute(context.Background(), req, nil, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("redirects must not be followed by default, got %d", resp.StatusCode)
	}

	resp, err = NewClient().Execute(context.Background(), req, nil, Options{FollowRedirects: true})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != "landed" {
		t.Fatalf("expected redirect followed, got %d %q", resp.StatusCode, resp.Body)
	}
}

func TestExecuteGraphQL(t *testing.T) {
	var payload graphqlPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		io.WriteString(w, `{"data":{}}`)
	}))
	defer server.Close()

	req := &model.GraphQLRequest{
		Endpoint:  server.URL,
		Query:     "query { viewer { login } }",
		Variables: `{"first": 10}`,
	}
	resp, err := NewClient().ExecuteGraphQL(context.Background(), req, nil, Options{})
	if err != nil {
		t.Fatalf("execute graphql: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if payload.Query != req.Query {
		t.Fatalf("query not forwarded: %q", payload.Query)
	}
	if string(payload.Variables) != `{"first": 10}` {
		t.Fatalf("variables not forwarded: %s", payload.Variables)
	}
}

func TestExecuteGraphQLRejectsBadVariables(t *testing.T) {
	req := &model.GraphQLRequest{
		Endpoint:  "https://api.example.com/graphql",
		Query:     "{ ping }",
		Variables: "{not json",
	}
	_, err := NewClient().ExecuteGraphQL(context.Background(), req, nil, Options{})
	if !errdef.IsCode(err, errdef.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
