package curl

import (
	"strings"

	"github.com/avask/termapi/internal/model"
)

// Command renders a request as a POSIX-shell-safe cURL invocation: method,
// URL, headers in request order, auth, body last. Parse(Command(r)) yields a
// request equivalent to r.
func Command(req *model.HTTPRequest) string {
	if req == nil {
		return ""
	}

	parts := []string{cmdCurl, "-X", string(req.Method), shellQuote(req.URL)}

	for _, header := range req.Headers {
		if !header.Enabled {
			continue
		}
		parts = append(parts, "-H", shellQuote(header.Name+": "+header.Value))
	}

	switch req.Auth.Kind {
	case model.AuthBasic:
		parts = append(parts, "--user", shellQuote(req.Auth.Username+":"+req.Auth.Password))
	case model.AuthBearer:
		parts = append(parts, "-H", shellQuote(headerAuthorization+": "+bearerPrefix+req.Auth.Token))
	case model.AuthAPIKey:
		parts = append(parts, "-H", shellQuote(req.Auth.Header+": "+req.Auth.Value))
	}

	if req.Body != "" {
		parts = append(parts, "-d", shellQuote(req.Body))
	}

	return strings.Join(parts, " ")
}

// shellQuote wraps value in single quotes. Embedded single quotes close the
// string, emit a double-quoted quote and reopen: ' -> '"'"'. This is a
// correctness requirement, not cosmetics; the output must survive a real
// shell.
func shellQuote(value string) string {
	if value == "" {
		return "''"
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range value {
		if r == '\'' {
			b.WriteString(`'"'"'`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
