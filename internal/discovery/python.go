package discovery

import (
	"regexp"
	"strings"
)

var fastAPIRoutePattern = regexp.MustCompile(
	`@(?:app|router)\.(get|post|put|patch|delete)\s*\(\s*["']([^"']+)["']`,
)

type fastAPIDetector struct{}

func (fastAPIDetector) Framework() Framework { return FrameworkFastAPI }

func (fastAPIDetector) Match(path string) bool { return hasExt(path, ".py") }

func (d fastAPIDetector) Detect(src Source) []Endpoint {
	var out []Endpoint
	for i, line := range strings.Split(src.Text, "\n") {
		caps := fastAPIRoutePattern.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		out = append(out, endpointAt(FrameworkFastAPI, Exact, caps[1], caps[2], src, i+1))
	}
	return out
}

var flaskRoutePattern = regexp.MustCompile(
	`@\w+\.route\s*\(\s*["']([^"']+)["'](?:.*?methods\s*=\s*\[([^\]]+)\])?`,
)

type flaskDetector struct{}

func (flaskDetector) Framework() Framework { return FrameworkFlask }

func (flaskDetector) Match(path string) bool { return hasExt(path, ".py") }

func (d flaskDetector) Detect(src Source) []Endpoint {
	var out []Endpoint
	for i, line := range strings.Split(src.Text, "\n") {
		caps := flaskRoutePattern.FindStringSubmatch(line)
		if caps == nil {
			continue
		}
		path := caps[1]
		methods := []string{"GET"}
		if caps[2] != "" {
			methods = methods[:0]
			for _, raw := range strings.Split(caps[2], ",") {
				method := strings.Trim(strings.TrimSpace(raw), `"'`)
				if method == "" {
					continue
				}
				methods = append(methods, method)
			}
		}
		for _, method := range methods {
			out = append(out, endpointAt(FrameworkFlask, Exact, method, path, src, i+1))
		}
	}
	return out
}
