package discovery

import "testing"

func TestCatalogMergesCrossFrameworkDuplicates(t *testing.T) {
	c := NewCatalog()
	c.Add(Endpoint{
		Method:     "GET",
		Path:       "/users/{id}",
		Framework:  FrameworkOpenAPI,
		Confidence: Exact,
		Locations:  []SourceLocation{{Path: "api.yaml", Line: 12}},
	})
	c.Add(Endpoint{
		Method:     "GET",
		Path:       "/users/{id}",
		Framework:  FrameworkExpress,
		Confidence: Exact,
		Locations:  []SourceLocation{{Path: "routes.js", Line: 4}},
	})

	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after merge, got %d", c.Len())
	}
	ep := c.Endpoints()[0]
	if ep.Confidence != Exact {
		t.Fatalf("expected exact confidence, got %s", ep.Confidence)
	}
	if len(ep.Locations) != 2 {
		t.Fatalf("expected both locations kept, got %v", ep.Locations)
	}
	if ep.Location().Path != "api.yaml" {
		t.Fatalf("first-seen location must stay in front, got %s", ep.Location().Path)
	}
}

func TestCatalogUpgradesMethodlessEntry(t *testing.T) {
	c := NewCatalog()
	c.Add(Endpoint{
		Path:       "/articles/{year}",
		Framework:  FrameworkDjango,
		Confidence: Heuristic,
		Locations:  []SourceLocation{{Path: "urls.py", Line: 3}},
	})
	c.Add(Endpoint{
		Method:     "GET",
		Path:       "/articles/{year}",
		Framework:  FrameworkOpenAPI,
		Confidence: Exact,
		Locations:  []SourceLocation{{Path: "api.yaml", Line: 8}},
	})

	if c.Len() != 1 {
		t.Fatalf("expected upgrade in place, got %d entries", c.Len())
	}
	ep := c.Endpoints()[0]
	if ep.Method != "GET" {
		t.Fatalf("expected method upgrade to GET, got %q", ep.Method)
	}
	if ep.Confidence != Exact || ep.Framework != FrameworkOpenAPI {
		t.Fatalf("expected exact openapi entry to win, got %s %s", ep.Framework, ep.Confidence)
	}
	if ep.Location().Path != "urls.py" {
		t.Fatalf("first-seen location must survive the upgrade, got %s", ep.Location().Path)
	}
}

func TestCatalogMethodlessAfterConcreteAddsNothing(t *testing.T) {
	c := NewCatalog()
	c.Add(Endpoint{
		Method:     "GET",
		Path:       "/webhook",
		Framework:  FrameworkExpress,
		Confidence: Exact,
		Locations:  []SourceLocation{{Path: "routes.js", Line: 1}},
	})
	c.Add(Endpoint{
		Path:       "/webhook",
		Framework:  FrameworkLaravel,
		Confidence: Heuristic,
		Locations:  []SourceLocation{{Path: "web.php", Line: 2}},
	})

	if c.Len() != 1 {
		t.Fatalf("expected no new entry for a verb-less duplicate, got %d", c.Len())
	}
	ep := c.Endpoints()[0]
	if ep.Method != "GET" || len(ep.Locations) != 2 {
		t.Fatalf("expected location appended to concrete entry, got %+v", ep)
	}
}

func TestCatalogKeepsDistinctMethods(t *testing.T) {
	c := NewCatalog()
	c.Add(Endpoint{Method: "GET", Path: "/users", Framework: FrameworkFastAPI, Confidence: Exact})
	c.Add(Endpoint{Method: "POST", Path: "/users", Framework: FrameworkFastAPI, Confidence: Exact})

	if c.Len() != 2 {
		t.Fatalf("distinct verbs on one path must stay separate, got %d", c.Len())
	}
}
