package curl

import (
	"strings"
	"testing"

	"github.com/avask/termapi/internal/model"
)

func TestParseSimpleGET(t *testing.T) {
	req, warns, err := Parse("curl https://api.example.com/users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if req.Method != model.MethodGet {
		t.Fatalf("expected GET, got %s", req.Method)
	}
	if req.URL != "https://api.example.com/users" {
		t.Fatalf("unexpected url %q", req.URL)
	}
}

func TestParsePostWithHeaderAndBody(t *testing.T) {
	cmd := `curl -X POST 'https://api.x.com/login' -H 'Content-Type: application/json' -d '{"u":"a"}'`
	req, _, err := Parse(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != model.MethodPost {
		t.Fatalf("expected POST, got %s", req.Method)
	}
	if req.URL != "https://api.x.com/login" {
		t.Fatalf("unexpected url %q", req.URL)
	}
	value, ok := req.Headers.Get("Content-Type")
	if !ok || value != "application/json" {
		t.Fatalf("unexpected content type %q", value)
	}
	if req.Body != `{"u":"a"}` {
		t.Fatalf("unexpected body %q", req.Body)
	}
}

func TestParseImplicitPostOnData(t *testing.T) {
	req, _, err := Parse("curl https://example.com --data foo=bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != model.MethodPost {
		t.Fatalf("expected POST fallback when data provided, got %s", req.Method)
	}
}

func TestParseRepeatedDataJoins(t *testing.T) {
	req, _, err := Parse("curl https://example.com -d a=1 -d b=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Body != "a=1&b=2" {
		t.Fatalf("unexpected body %q", req.Body)
	}
}

func TestParseBasicAuth(t *testing.T) {
	req, _, err := Parse("curl https://example.com -u alice:s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Auth.Kind != model.AuthBasic {
		t.Fatalf("expected basic auth")
	}
	if req.Auth.Username != "alice" || req.Auth.Password != "s3cret" {
		t.Fatalf("unexpected credentials %q:%q", req.Auth.Username, req.Auth.Password)
	}
}

func TestParseFoldsBearerHeader(t *testing.T) {
	req, _, err := Parse("curl https://example.com -H 'Authorization: Bearer tok-123'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Auth.Kind != model.AuthBearer || req.Auth.Token != "tok-123" {
		t.Fatalf("expected folded bearer auth, got %#v", req.Auth)
	}
	if _, ok := req.Headers.Get("Authorization"); ok {
		t.Fatalf("authorization header should have been folded into auth")
	}
}

func TestParseKeepsNonBearerAuthorization(t *testing.T) {
	req, _, err := Parse("curl https://example.com -H 'Authorization: Digest abc'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Auth.Kind != model.AuthNone {
		t.Fatalf("digest auth should stay a raw header")
	}
	if value, ok := req.Headers.Get("Authorization"); !ok || value != "Digest abc" {
		t.Fatalf("unexpected authorization header %q", value)
	}
}

func TestParseHeaderOrderPreserved(t *testing.T) {
	cmd := "curl https://example.com -H 'X-First: 1' -H 'X-Second: 2' -H 'X-First: 3'"
	req, _, err := Parse(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Headers) != 3 {
		t.Fatalf("expected 3 headers, got %d", len(req.Headers))
	}
	if req.Headers[0].Name != "X-First" || req.Headers[2].Value != "3" {
		t.Fatalf("header order not preserved: %#v", req.Headers)
	}
}

func TestParseUnknownFlagsWarnNotFail(t *testing.T) {
	req, warns, err := Parse("curl --compressed -sv https://example.com --output out.bin")
	if err != nil {
		t.Fatalf("expected best-effort import, got error: %v", err)
	}
	if req.URL != "https://example.com" {
		t.Fatalf("unexpected url %q", req.URL)
	}
	if len(warns) == 0 {
		t.Fatalf("expected warnings for unrecognized flags")
	}
	joined := strings.Join(warns, "\n")
	for _, flag := range []string{"--compressed", "-s", "-v"} {
		if !strings.Contains(joined, flag) {
			t.Fatalf("expected warning for %s in %q", flag, joined)
		}
	}
}

func TestParseMissingURL(t *testing.T) {
	if _, _, err := Parse("curl -X POST"); err == nil {
		t.Fatalf("expected error for missing url")
	}
}

func TestParsePromptAndSudoPrefixes(t *testing.T) {
	req, _, err := Parse("$ sudo curl https://api.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.URL != "https://api.example.com" {
		t.Fatalf("unexpected url %q", req.URL)
	}
}

func TestParseLineContinuations(t *testing.T) {
	cmd := "curl -X PUT \\\n  https://example.com/items/1 \\\n  -H 'Accept: application/json'"
	req, _, err := Parse(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != model.MethodPut {
		t.Fatalf("expected PUT, got %s", req.Method)
	}
	if _, ok := req.Headers.Get("Accept"); !ok {
		t.Fatalf("expected accept header")
	}
}

func TestParseDoubleQuotedBodyWithEscapes(t *testing.T) {
	req, _, err := Parse(`curl https://example.com -d "{\"name\":\"sam\"}"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Body != `{"name":"sam"}` {
		t.Fatalf("unexpected body %q", req.Body)
	}
}

func TestSplitTokensUnterminatedQuote(t *testing.T) {
	if _, err := splitTokens("curl 'https://example.com"); err == nil {
		t.Fatalf("expected error for unterminated quote")
	}
}
