package discovery

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/avask/termapi/internal/errdef"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscoverFastAPIEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "main.py"), heredoc.Doc(`
		@app.get("/items/{item_id}")
		async def read_item(item_id: int):
		    return {}
	`))

	catalog, err := NewEngine().Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected 1 endpoint, got %d: %v", catalog.Len(), catalog.Endpoints())
	}
	ep := catalog.Endpoints()[0]
	if ep.Method != "GET" || ep.Path != "/items/{item_id}" {
		t.Fatalf("unexpected endpoint %+v", ep)
	}
	if ep.Framework != FrameworkFastAPI || ep.Confidence != Exact {
		t.Fatalf("unexpected attribution %+v", ep)
	}
}

func TestDiscoverDedupsAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "api.yaml"), heredoc.Doc(`
		openapi: "3.0.0"
		paths:
		  /users/{id}:
		    get: {}
	`))
	writeFile(t, filepath.Join(root, "routes.js"),
		"app.get('/users/:id', handler);\n")

	catalog, err := NewEngine().Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected one merged endpoint, got %d: %v", catalog.Len(), catalog.Endpoints())
	}
	ep := catalog.Endpoints()[0]
	if ep.Method != "GET" || ep.Path != "/users/{id}" || ep.Confidence != Exact {
		t.Fatalf("unexpected merged endpoint %+v", ep)
	}
	if len(ep.Locations) != 2 {
		t.Fatalf("expected both source locations, got %v", ep.Locations)
	}
}

func TestDiscoverIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "routes.php"),
		"Route::get('/posts', [PostController::class, 'index']);\n"+
			"Route::post('/posts', [PostController::class, 'store']);\n")

	engine := NewEngine()
	first, err := engine.Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("first discover: %v", err)
	}
	second, err := engine.Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("second discover: %v", err)
	}
	if first.Len() != second.Len() {
		t.Fatalf("scan is not idempotent: %d vs %d", first.Len(), second.Len())
	}
	for i, ep := range first.Endpoints() {
		other := second.Endpoints()[i]
		if ep.Method != other.Method || ep.Path != other.Path || ep.Framework != other.Framework {
			t.Fatalf("entry %d differs between runs: %+v vs %+v", i, ep, other)
		}
	}
}

func TestDiscoverSymlinkCycleTerminates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	root := t.TempDir()
	nested := filepath.Join(root, "src", "api")
	writeFile(t, filepath.Join(nested, "main.py"),
		"@app.get(\"/ping\")\ndef ping():\n    return \"pong\"\n")
	if err := os.Symlink(root, filepath.Join(nested, "loop")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	catalog, err := NewEngine().Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("cycle duplicated endpoints: %v", catalog.Endpoints())
	}
}

func TestDiscoverSkipsBinaryAndOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "blob.json"), "{\"openapi\":\"3.0.0\"\x00}")

	engine := NewEngine()
	engine.maxFileSize = 32
	writeFile(t, filepath.Join(root, "big.py"),
		"@app.get(\"/too-big\")\ndef big():\n    pass\n")

	catalog, err := engine.Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if catalog.Len() != 0 {
		t.Fatalf("expected skipped files to contribute nothing, got %v", catalog.Endpoints())
	}
}

func TestDiscoverRejectsConcurrentScanOfSameRoot(t *testing.T) {
	root := t.TempDir()
	engine := NewEngine()

	canonical, err := canonicalPath(root)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if err := engine.acquire(canonical); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer engine.release(canonical)

	if _, err := engine.Discover(context.Background(), root); !errdef.IsCode(err, errdef.CodeDiscovery) {
		t.Fatalf("expected busy discovery error, got %v", err)
	}
}

func TestDiscoverEmptyTreeIsValid(t *testing.T) {
	catalog, err := NewEngine().Discover(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if catalog.Len() != 0 {
		t.Fatalf("expected empty catalog, got %v", catalog.Endpoints())
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := NewEngine().Discover(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errdef.IsCode(err, errdef.CodeFilesystem) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
}
