package discovery

import (
	"regexp"
	"strings"
)

var (
	nestControllerPattern = regexp.MustCompile(`@Controller\s*\(\s*(?:['"]([^'"]*)['"])?\s*\)`)
	nestMethodPattern     = regexp.MustCompile(`@(Get|Post|Put|Patch|Delete)\s*\(\s*(?:['"]([^'"]*)['"])?\s*\)`)
)

// nestJSDetector joins the @Controller prefix with each verb decorator path.
// A file may hold several controllers; the active prefix changes whenever a
// new @Controller line is seen.
type nestJSDetector struct{}

func (nestJSDetector) Framework() Framework { return FrameworkNestJS }

func (nestJSDetector) Match(path string) bool { return hasExt(path, ".ts") }

func (d nestJSDetector) Detect(src Source) []Endpoint {
	var out []Endpoint
	prefix := ""
	seenController := false

	for i, line := range strings.Split(src.Text, "\n") {
		if caps := nestControllerPattern.FindStringSubmatch(line); caps != nil {
			prefix = caps[1]
			seenController = true
			continue
		}
		if !seenController {
			continue
		}
		caps := nestMethodPattern.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		path := joinPrefix(prefix, caps[2])
		out = append(out, endpointAt(FrameworkNestJS, Exact, caps[1], path, src, i+1))
	}
	return out
}
