package discovery

import (
	"path/filepath"
	"strings"
)

// Source is one candidate file handed to a detector.
type Source struct {
	Path string
	Text string
}

// Detector extracts endpoints from a single source file. Implementations are
// stateless pure scans; a file without the framework's idiom yields an empty
// result, never an error.
type Detector interface {
	Framework() Framework
	// Match is the cheap extension/content gate that decides whether Detect
	// is worth running for this file at all.
	Match(path string) bool
	Detect(src Source) []Endpoint
}

// Detectors returns the closed set of supported framework detectors. The set
// is fixed at compile time; there is no plugin loading.
func Detectors() []Detector {
	return []Detector{
		openAPIDetector{},
		fastAPIDetector{},
		flaskDetector{},
		djangoDetector{},
		expressDetector{},
		nestJSDetector{},
		springDetector{},
		laravelDetector{},
	}
}

func fileExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func hasExt(path string, exts ...string) bool {
	ext := fileExt(path)
	for _, candidate := range exts {
		if ext == candidate {
			return true
		}
	}
	return false
}

// endpointAt builds a normalized endpoint for a detection in src at a
// 1-based line number.
func endpointAt(
	fw Framework,
	conf Confidence,
	method, path string,
	src Source,
	line int,
) Endpoint {
	return Endpoint{
		Method:     strings.ToUpper(strings.TrimSpace(method)),
		Path:       normalizePath(path),
		Framework:  fw,
		Confidence: conf,
		Locations:  []SourceLocation{{Path: src.Path, Line: line}},
	}
}
