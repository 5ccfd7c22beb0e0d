package discovery

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// openAPIVerbs fixes the emission order for operations under one path item.
var openAPIVerbs = []string{"get", "post", "put", "patch", "delete"}

type openAPIDocument struct {
	OpenAPI string                    `yaml:"openapi"`
	Swagger string                    `yaml:"swagger"`
	Paths   map[string]map[string]any `yaml:"paths"`
}

// openAPIDetector parses specification documents rather than scanning lines.
// YAML decoding covers the JSON form too, so one decode path serves both
// extensions. Files that fail to decode or carry no version marker are
// silently skipped; workspaces are full of unrelated yaml and json.
type openAPIDetector struct{}

func (openAPIDetector) Framework() Framework { return FrameworkOpenAPI }

func (openAPIDetector) Match(path string) bool {
	return hasExt(path, ".json", ".yaml", ".yml")
}

func (d openAPIDetector) Detect(src Source) []Endpoint {
	var doc openAPIDocument
	if err := yaml.Unmarshal([]byte(src.Text), &doc); err != nil {
		return nil
	}
	if doc.OpenAPI == "" && doc.Swagger == "" {
		return nil
	}
	if len(doc.Paths) == 0 {
		return nil
	}

	paths := make([]string, 0, len(doc.Paths))
	for path := range doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var out []Endpoint
	for _, path := range paths {
		item := doc.Paths[path]
		line := pathKeyLine(src.Text, path)
		for _, verb := range openAPIVerbs {
			if _, ok := item[verb]; !ok {
				continue
			}
			out = append(out, endpointAt(FrameworkOpenAPI, Exact, verb, path, src, line))
		}
	}
	return out
}

// pathKeyLine locates the 1-based line where a path key is declared, for
// either the yaml ("/users:") or json ("\"/users\":") spelling. Falls back
// to line 1 when the document layout defeats the text search.
func pathKeyLine(text, path string) int {
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, path+":") ||
			strings.HasPrefix(trimmed, `"`+path+`"`) ||
			strings.HasPrefix(trimmed, `'`+path+`'`) {
			return i + 1
		}
	}
	return 1
}
