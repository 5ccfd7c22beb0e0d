package curl

import (
	"reflect"
	"testing"

	"github.com/avask/termapi/internal/model"
)

func TestCommandOrdering(t *testing.T) {
	req := &model.HTTPRequest{
		Method: model.MethodPost,
		URL:    "https://api.example.com/login",
		Headers: model.Headers{
			model.NewHeader("Content-Type", "application/json"),
		},
		Auth: model.BasicAuth("alice", "pw"),
		Body: `{"a":1}`,
	}
	got := Command(req)
	want := `curl -X POST 'https://api.example.com/login' ` +
		`-H 'Content-Type: application/json' --user 'alice:pw' -d '{"a":1}'`
	if got != want {
		t.Fatalf("unexpected command:\n got %s\nwant %s", got, want)
	}
}

func TestShellQuoteSingleQuotes(t *testing.T) {
	got := shellQuote("it's")
	if got != `'it'"'"'s'` {
		t.Fatalf("unexpected quoting %s", got)
	}
}

// Exported commands must survive a POSIX tokenizer byte for byte, including
// bodies with single quotes and header values with spaces.
func TestExportSurvivesShellTokenizer(t *testing.T) {
	req := &model.HTTPRequest{
		Method: model.MethodPost,
		URL:    "https://example.com/items",
		Headers: model.Headers{
			model.NewHeader("X-Note", "two words here"),
		},
		Body: `{"msg":"don't panic"}`,
	}
	tokens, err := splitTokens(Command(req))
	if err != nil {
		t.Fatalf("tokenizer rejected export: %v", err)
	}
	var body, note string
	for i, tok := range tokens {
		switch tok {
		case "-d":
			body = tokens[i+1]
		case "-H":
			note = tokens[i+1]
		}
	}
	if body != `{"msg":"don't panic"}` {
		t.Fatalf("body mangled by quoting: %q", body)
	}
	if note != "X-Note: two words here" {
		t.Fatalf("header mangled by quoting: %q", note)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := map[string]*model.HTTPRequest{
		"plain get": {
			Method: model.MethodGet,
			URL:    "https://example.com/users/42",
		},
		"bearer with body": {
			Method: model.MethodPatch,
			URL:    "https://api.example.com/items/7",
			Headers: model.Headers{
				model.NewHeader("Content-Type", "application/json"),
				model.NewHeader("X-Trace", "abc def"),
			},
			Auth: model.BearerAuth("tok'en"),
			Body: `{"note":"it's fine"}`,
		},
		"basic auth duplicate headers": {
			Method: model.MethodDelete,
			URL:    "https://example.com/sessions",
			Headers: model.Headers{
				model.NewHeader("Cookie", "a=1"),
				model.NewHeader("Cookie", "b=2"),
			},
			Auth: model.BasicAuth("bob", "p:ss"),
		},
	}

	for name, want := range cases {
		got, warns, err := Parse(Command(want))
		if err != nil {
			t.Fatalf("%s: parse failed: %v", name, err)
		}
		if len(warns) != 0 {
			t.Fatalf("%s: unexpected warnings %v", name, warns)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: round trip mismatch\n got %#v\nwant %#v", name, got, want)
		}
	}
}

// API-key auth has no curl flag of its own; it exports as a plain header and
// imports back as one. The resulting request denotes the same HTTP call.
func TestRoundTripAPIKeyBecomesHeader(t *testing.T) {
	req := &model.HTTPRequest{
		Method: model.MethodGet,
		URL:    "https://example.com",
		Auth:   model.APIKeyAuth("X-Api-Key", "k-1"),
	}
	got, _, err := Parse(Command(req))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if value, ok := got.Headers.Get("X-Api-Key"); !ok || value != "k-1" {
		t.Fatalf("expected api key header, got %#v", got.Headers)
	}
}
