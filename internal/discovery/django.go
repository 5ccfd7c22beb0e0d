package discovery

import (
	"regexp"
	"strings"
)

var (
	urlpatternsPattern = regexp.MustCompile(`urlpatterns\s*(?:\+?=)\s*\[`)
	djangoPathPattern  = regexp.MustCompile(`(?:^|[^\w.])(?:path|re_path)\s*\(\s*r?["']([^"']*)["']`)
	djangoRouterPattern = regexp.MustCompile(
		`router\.register\s*\(\s*r?["']([^"']+)["']`,
	)
)

// djangoDetector reads url route tables. Django binds verbs in views, not in
// urlpatterns, so plain entries carry no method and stay Heuristic; DRF
// router registrations expand into the standard viewset CRUD set.
type djangoDetector struct{}

func (djangoDetector) Framework() Framework { return FrameworkDjango }

func (djangoDetector) Match(path string) bool { return hasExt(path, ".py") }

func (d djangoDetector) Detect(src Source) []Endpoint {
	var out []Endpoint
	depth := 0
	inPatterns := false

	for i, line := range strings.Split(src.Text, "\n") {
		if !inPatterns {
			if loc := urlpatternsPattern.FindStringIndex(line); loc != nil {
				inPatterns = true
				depth = bracketDepth(line[loc[0]:], 0)
				if depth <= 0 {
					inPatterns = false
				}
			}
			// router.register calls usually sit above the urlpatterns block.
			out = append(out, d.routerEndpoints(src, line, i+1)...)
			continue
		}

		if caps := djangoPathPattern.FindStringSubmatch(line); caps != nil &&
			!strings.Contains(line, "include(") && caps[1] != "" {
			out = append(out, endpointAt(FrameworkDjango, Heuristic, "", caps[1], src, i+1))
		}
		out = append(out, d.routerEndpoints(src, line, i+1)...)

		depth = bracketDepth(line, depth)
		if depth <= 0 {
			inPatterns = false
		}
	}
	return out
}

func (djangoDetector) routerEndpoints(src Source, line string, lineNo int) []Endpoint {
	caps := djangoRouterPattern.FindStringSubmatch(line)
	if caps == nil {
		return nil
	}
	prefix := strings.Trim(caps[1], "/")
	base := "/" + prefix
	detail := base + "/{id}"

	crud := []struct {
		method string
		path   string
	}{
		{"GET", base},
		{"POST", base},
		{"GET", detail},
		{"PUT", detail},
		{"PATCH", detail},
		{"DELETE", detail},
	}
	out := make([]Endpoint, 0, len(crud))
	for _, op := range crud {
		out = append(out, endpointAt(FrameworkDjango, Heuristic, op.method, op.path, src, lineNo))
	}
	return out
}

func bracketDepth(line string, depth int) int {
	for _, r := range line {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	return depth
}
