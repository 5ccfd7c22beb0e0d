package discovery

import (
	"regexp"
	"strings"
)

var (
	expressRoutePattern = regexp.MustCompile(
		"(?:app|router)\\.(get|post|put|patch|delete)\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]",
	)
	// router.route('/path').get(...).post(...) chains.
	expressChainPattern = regexp.MustCompile(
		"\\.route\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)((?:\\s*\\.(?:get|post|put|patch|delete)\\s*\\([^)]*\\))+)",
	)
	expressChainVerbPattern = regexp.MustCompile(`\.(get|post|put|patch|delete)\s*\(`)
)

type expressDetector struct{}

func (expressDetector) Framework() Framework { return FrameworkExpress }

func (expressDetector) Match(path string) bool {
	return hasExt(path, ".js", ".mjs", ".cjs", ".ts")
}

func (d expressDetector) Detect(src Source) []Endpoint {
	var out []Endpoint
	for i, line := range strings.Split(src.Text, "\n") {
		if caps := expressRoutePattern.FindStringSubmatch(line); caps != nil {
			out = append(out, endpointAt(FrameworkExpress, Exact, caps[1], caps[2], src, i+1))
		}
		for _, chain := range expressChainPattern.FindAllStringSubmatch(line, -1) {
			path := chain[1]
			for _, verb := range expressChainVerbPattern.FindAllStringSubmatch(chain[2], -1) {
				out = append(out, endpointAt(FrameworkExpress, Exact, verb[1], path, src, i+1))
			}
		}
	}
	return out
}
