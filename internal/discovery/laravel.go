package discovery

import (
	"regexp"
	"strings"
)

var laravelRoutePattern = regexp.MustCompile(
	`Route::(get|post|put|patch|delete|any)\s*\(\s*['"]([^'"]+)['"]`,
)

type laravelDetector struct{}

func (laravelDetector) Framework() Framework { return FrameworkLaravel }

func (laravelDetector) Match(path string) bool { return hasExt(path, ".php") }

func (d laravelDetector) Detect(src Source) []Endpoint {
	var out []Endpoint
	for i, line := range strings.Split(src.Text, "\n") {
		for _, caps := range laravelRoutePattern.FindAllStringSubmatch(line, -1) {
			verb := caps[1]
			if verb == "any" {
				// Verb is decided per request; record the path without one so
				// a later concrete detection can claim it.
				out = append(out, endpointAt(FrameworkLaravel, Heuristic, "", caps[2], src, i+1))
				continue
			}
			out = append(out, endpointAt(FrameworkLaravel, Exact, verb, caps[2], src, i+1))
		}
	}
	return out
}
