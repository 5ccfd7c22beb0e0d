package discovery

import (
	"regexp"
	"strings"
)

var (
	// :param (Express, Laravel optional syntax keeps its own braces).
	colonParamPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)\??`)
	// <param> and <converter:param> (Flask, Django path()).
	anglePattern = regexp.MustCompile(`<(?:[A-Za-z_][A-Za-z0-9_]*:)?([A-Za-z_][A-Za-z0-9_]*)>`)
	// (?P<param>...) named groups from re_path regexes.
	namedGroupPattern = regexp.MustCompile(`\(\?P<([A-Za-z_][A-Za-z0-9_]*)>[^)]*\)`)
	// {param?} — Laravel marks optional parameters with a trailing question mark.
	optionalBracePattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\?\}`)
)

// normalizePath rewrites every supported placeholder convention to {param}
// and canonicalizes slashes, so the same route declared by different
// frameworks dedups to one catalog entry.
func normalizePath(raw string) string {
	path := strings.TrimSpace(raw)
	path = strings.TrimPrefix(path, "^")
	path = strings.TrimSuffix(path, "$")

	path = namedGroupPattern.ReplaceAllString(path, "{$1}")
	path = optionalBracePattern.ReplaceAllString(path, "{$1}")
	path = anglePattern.ReplaceAllString(path, "{$1}")
	path = colonParamPattern.ReplaceAllString(path, "{$1}")

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// joinPrefix concatenates a controller-level prefix with a method-level path
// (NestJS and Spring share this rule).
func joinPrefix(prefix, part string) string {
	prefix = strings.TrimSpace(prefix)
	part = strings.TrimSpace(part)
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if part != "" && !strings.HasPrefix(part, "/") {
		part = "/" + part
	}
	full := prefix + part
	if full == "" {
		full = "/"
	}
	return full
}
