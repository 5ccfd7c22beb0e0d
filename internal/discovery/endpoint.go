package discovery

import "fmt"

type Framework string

const (
	FrameworkOpenAPI    Framework = "OpenAPI"
	FrameworkFastAPI    Framework = "FastAPI"
	FrameworkFlask      Framework = "Flask"
	FrameworkDjango     Framework = "Django"
	FrameworkExpress    Framework = "Express"
	FrameworkNestJS     Framework = "NestJS"
	FrameworkSpringBoot Framework = "Spring Boot"
	FrameworkLaravel    Framework = "Laravel"
)

type Confidence int

const (
	// Heuristic marks pattern-based or incomplete extractions, e.g. a Django
	// url pattern whose verb lives in the view, not the route table.
	Heuristic Confidence = iota
	Exact
)

func (c Confidence) String() string {
	if c == Exact {
		return "exact"
	}
	return "heuristic"
}

type SourceLocation struct {
	Path string
	Line int
}

func (l SourceLocation) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
	return l.Path
}

// Endpoint is one discovered (method, path template) pair. Method may be
// empty when the framework does not bind verbs at the routing layer. Path is
// already normalized to {param} placeholder syntax.
type Endpoint struct {
	Method     string
	Path       string
	Framework  Framework
	Confidence Confidence
	// Locations[0] is the first-seen declaration; later merged detections
	// append theirs instead of discarding either.
	Locations []SourceLocation
}

func (e Endpoint) Location() SourceLocation {
	if len(e.Locations) == 0 {
		return SourceLocation{}
	}
	return e.Locations[0]
}

func (e Endpoint) Title() string {
	if e.Method == "" {
		return "ANY " + e.Path
	}
	return e.Method + " " + e.Path
}
