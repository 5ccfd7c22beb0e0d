package curl

import (
	"strings"

	"github.com/avask/termapi/internal/errdef"
)

// tokenState tracks the shell lexer mode: unquoted, single-quoted,
// double-quoted or escaping. Single quotes are literal; double quotes and
// unquoted text respect backslash escapes; a backslash before a newline is a
// line continuation.
type tokenState struct {
	inSingle bool
	inDouble bool
	escape   bool
}

func (s *tokenState) open() bool {
	return s.inSingle || s.inDouble
}

type tokenStep struct {
	emit    bool
	r       rune
	handled bool
}

func (s *tokenState) advance(r rune) tokenStep {
	if s.escape {
		s.escape = false
		if r == '\n' {
			// Line continuation joins the next line without a separator.
			return tokenStep{handled: true}
		}
		return tokenStep{emit: true, r: r, handled: true}
	}

	switch r {
	case '\\':
		if s.inSingle {
			return tokenStep{emit: true, r: r, handled: true}
		}
		s.escape = true
		return tokenStep{handled: true}
	case '\'':
		if s.inDouble {
			return tokenStep{emit: true, r: r, handled: true}
		}
		s.inSingle = !s.inSingle
		return tokenStep{handled: true}
	case '"':
		if s.inSingle {
			return tokenStep{emit: true, r: r, handled: true}
		}
		s.inDouble = !s.inDouble
		return tokenStep{handled: true}
	}
	return tokenStep{}
}

type lexState struct {
	token   tokenState
	buf     strings.Builder
	started bool
	out     []string
}

func (st *lexState) add(r rune) {
	st.started = true
	st.buf.WriteRune(r)
}

func (st *lexState) flush() {
	if !st.started {
		return
	}
	st.out = append(st.out, st.buf.String())
	st.buf.Reset()
	st.started = false
}

// splitTokens tokenizes a shell command line. Quoted empty strings produce
// empty tokens, so `-H ''` survives as an argument.
func splitTokens(input string) ([]string, error) {
	st := &lexState{}
	for _, r := range input {
		wasOpen := st.token.open()
		step := st.token.advance(r)
		if step.handled {
			if step.emit {
				st.add(step.r)
			} else if st.token.open() != wasOpen {
				// Entering or leaving quotes marks the token as started even
				// when it stays empty.
				st.started = true
			}
			continue
		}

		if isWhitespace(r) {
			if st.token.open() {
				st.add(r)
			} else {
				st.flush()
			}
			continue
		}

		st.add(r)
	}

	if st.token.escape {
		return nil, errdef.New(errdef.CodeImport, "unterminated escape sequence")
	}
	if st.token.open() {
		return nil, errdef.New(errdef.CodeImport, "unterminated quoted string")
	}

	st.flush()
	return st.out, nil
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
