package curl

import (
	"strings"

	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/model"
)

type optKind int

const (
	optNone optKind = iota
	optVal
)

type optFn func(*parseState, string) error

type optDef struct {
	kind optKind
	fn   optFn
}

var longDefs = map[string]*optDef{
	"request":     {kind: optVal, fn: optMethod},
	"header":      {kind: optVal, fn: optHeader},
	"data":        {kind: optVal, fn: optData},
	"data-raw":    {kind: optVal, fn: optData},
	"data-binary": {kind: optVal, fn: optData},
	"data-ascii":  {kind: optVal, fn: optData},
	"user":        {kind: optVal, fn: optUser},
	"url":         {kind: optVal, fn: optURL},
}

var shortDefs = map[byte]*optDef{
	'X': longDefs["request"],
	'H': longDefs["header"],
	'd': longDefs["data"],
	'u': longDefs["user"],
}

type parseState struct {
	method    model.Method
	methodSet bool
	headers   model.Headers
	body      string
	bodySet   bool
	url       string
	user      string
	warn      *warningCollector
}

// Parse converts a cURL command line into an HTTP request. Import is best
// effort: unrecognized flags land in the returned warning list instead of
// failing the whole command.
func Parse(command string) (*model.HTTPRequest, []string, error) {
	tokens, err := splitTokens(command)
	if err != nil {
		return nil, nil, err
	}

	st := &parseState{method: model.MethodGet, warn: newWarningCollector()}

	i := skipWrappers(tokens)
	for ; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "" {
			continue
		}

		switch {
		case strings.HasPrefix(tok, "--"):
			if err := st.applyLong(tok, tokens, &i); err != nil {
				return nil, nil, err
			}
		case strings.HasPrefix(tok, "-") && tok != "-":
			if err := st.applyShort(tok, tokens, &i); err != nil {
				return nil, nil, err
			}
		default:
			st.applyPositional(tok)
		}
	}

	req, err := st.finish()
	if err != nil {
		return nil, nil, err
	}
	return req, st.warn.list(), nil
}

// skipWrappers steps over shell prompt characters and command wrappers so a
// pasted `$ sudo curl ...` still resolves to the flag list.
func skipWrappers(tokens []string) int {
	for i, tok := range tokens {
		trimmed := stripPromptPrefix(tok)
		if trimmed == "" {
			continue
		}
		switch strings.ToLower(trimmed) {
		case cmdCurl:
			return i + 1
		case cmdSudo, cmdEnv:
			continue
		default:
			// No curl token at all; treat the whole input as arguments.
			return i
		}
	}
	return len(tokens)
}

func stripPromptPrefix(token string) string {
	trimmed := strings.TrimSpace(token)
	for _, prefix := range promptPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return trimmed
}

func (st *parseState) applyLong(tok string, tokens []string, i *int) error {
	name := tok[2:]
	value := ""
	hasValue := false
	if idx := strings.Index(name, "="); idx >= 0 {
		name, value, hasValue = name[:idx], name[idx+1:], true
	}

	def := longDefs[name]
	if def == nil {
		st.warn.flag(tok)
		return nil
	}
	if def.kind == optVal && !hasValue {
		next, err := consumeNext(tokens, i, "--"+name)
		if err != nil {
			return err
		}
		value = next
	}
	return def.fn(st, value)
}

func (st *parseState) applyShort(tok string, tokens []string, i *int) error {
	raw := tok[1:]
	for j := 0; j < len(raw); j++ {
		def := shortDefs[raw[j]]
		if def == nil {
			st.warn.flag("-" + string(raw[j]))
			continue
		}
		value := ""
		if def.kind == optVal {
			if j+1 < len(raw) {
				value = raw[j+1:]
			} else {
				next, err := consumeNext(tokens, i, "-"+string(raw[j]))
				if err != nil {
					return err
				}
				value = next
			}
			return def.fn(st, value)
		}
		if err := def.fn(st, value); err != nil {
			return err
		}
	}
	return nil
}

func (st *parseState) applyPositional(tok string) {
	if st.url == "" {
		st.url = tok
		return
	}
	st.warn.add("extra argument " + tok + " (ignored)")
}

func consumeNext(tokens []string, i *int, flag string) (string, error) {
	*i++
	if *i >= len(tokens) {
		return "", errdef.New(errdef.CodeImport, "missing argument for %s", flag)
	}
	return tokens[*i], nil
}

func optMethod(st *parseState, value string) error {
	method, err := model.ParseMethod(value)
	if err != nil {
		st.warn.add("unsupported method " + value + " (kept " + string(st.method) + ")")
		return nil
	}
	st.method = method
	st.methodSet = true
	return nil
}

func optHeader(st *parseState, value string) error {
	name, header := splitHeader(value)
	if name == "" {
		st.warn.add("malformed header " + value + " (ignored)")
		return nil
	}
	st.headers.Add(name, header)
	return nil
}

func optData(st *parseState, value string) error {
	if st.bodySet {
		// curl concatenates repeated data flags with '&'.
		st.body += "&" + value
		return nil
	}
	st.body = value
	st.bodySet = true
	return nil
}

func optUser(st *parseState, value string) error {
	st.user = value
	return nil
}

func optURL(st *parseState, value string) error {
	st.url = value
	return nil
}

func (st *parseState) finish() (*model.HTTPRequest, error) {
	if strings.TrimSpace(st.url) == "" {
		return nil, errdef.New(errdef.CodeImport, "curl command missing url")
	}

	if st.bodySet && !st.methodSet && st.method == model.MethodGet {
		st.method = model.MethodPost
	}

	req := &model.HTTPRequest{
		Method: st.method,
		URL:    strings.Trim(st.url, urlQuoteChars),
		Body:   st.body,
	}

	req.Headers, req.Auth = foldAuth(st.headers)
	if st.user != "" {
		user, pass, _ := strings.Cut(st.user, ":")
		req.Auth = model.BasicAuth(user, pass)
	}
	return req, nil
}

// foldAuth lifts a bearer Authorization header into the auth field so import
// and export agree on one canonical shape.
func foldAuth(headers model.Headers) (model.Headers, model.Auth) {
	auth := model.Auth{}
	kept := make(model.Headers, 0, len(headers))
	for _, header := range headers {
		if strings.EqualFold(header.Name, headerAuthorization) {
			value := strings.TrimSpace(header.Value)
			if len(value) > len(bearerPrefix) &&
				strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
				auth = model.BearerAuth(strings.TrimSpace(value[len(bearerPrefix):]))
				continue
			}
		}
		kept = append(kept, header)
	}
	if len(kept) == 0 {
		kept = nil
	}
	return kept, auth
}

func splitHeader(raw string) (string, string) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if !ok {
		return name, ""
	}
	return name, strings.TrimSpace(value)
}
