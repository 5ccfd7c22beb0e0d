package discovery

import (
	"regexp"
	"strings"
)

var (
	springClassPattern = regexp.MustCompile(
		`@RequestMapping\s*\(\s*(?:value\s*=\s*|path\s*=\s*)?["']([^"']*)["']`,
	)
	springMethodPattern = regexp.MustCompile(
		`@(Get|Post|Put|Patch|Delete)Mapping\s*(?:\(\s*(?:value\s*=\s*|path\s*=\s*)?(?:["']([^"']*)["'])?)?`,
	)
)

// springDetector handles the annotation pair used by Spring MVC controllers:
// a class-level @RequestMapping prefix and per-handler @GetMapping-family
// annotations, with optional value=/path= attribute forms.
type springDetector struct{}

func (springDetector) Framework() Framework { return FrameworkSpringBoot }

func (springDetector) Match(path string) bool { return hasExt(path, ".java", ".kt") }

func (d springDetector) Detect(src Source) []Endpoint {
	var out []Endpoint
	prefix := ""

	for i, line := range strings.Split(src.Text, "\n") {
		if caps := springClassPattern.FindStringSubmatch(line); caps != nil {
			prefix = caps[1]
			continue
		}
		caps := springMethodPattern.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		path := joinPrefix(prefix, caps[2])
		out = append(out, endpointAt(FrameworkSpringBoot, Exact, caps[1], path, src, i+1))
	}
	return out
}
