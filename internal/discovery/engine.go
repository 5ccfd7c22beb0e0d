package discovery

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/avask/termapi/internal/errdef"
)

const (
	defaultMaxFileSize = 1 << 20
	binarySniffLen     = 8000
)

// skipDirNames are directory names that never hold route declarations worth
// scanning and routinely hold enormous trees.
var skipDirNames = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"venv":         {},
	".venv":        {},
	"__pycache__":  {},
	"target":       {},
	"build":        {},
	"dist":         {},
	"migrations":   {},
}

// Engine walks a workspace and assembles an endpoint catalog from the fixed
// detector set. One engine may serve many roots, but at most one scan per
// canonical root runs at a time.
type Engine struct {
	detectors   []Detector
	maxFileSize int64

	mu      sync.Mutex
	running map[string]struct{}
}

func NewEngine() *Engine {
	return &Engine{
		detectors:   Detectors(),
		maxFileSize: defaultMaxFileSize,
		running:     make(map[string]struct{}),
	}
}

// Discover scans root and returns a fresh catalog. The catalog is built
// privately and returned whole, so callers can swap their reference without
// ever observing a half-finished scan.
func (e *Engine) Discover(ctx context.Context, root string) (*Catalog, error) {
	canonical, err := canonicalPath(root)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "resolve workspace root %s", root)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "stat workspace root %s", root)
	}
	if !info.IsDir() {
		return nil, errdef.New(errdef.CodeFilesystem, "workspace root %s is not a directory", root)
	}

	if err := e.acquire(canonical); err != nil {
		return nil, err
	}
	defer e.release(canonical)

	catalog := NewCatalog()
	visited := map[string]struct{}{canonical: {}}
	if err := e.walk(ctx, canonical, visited, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (e *Engine) acquire(canonical string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.running[canonical]; busy {
		return errdef.New(errdef.CodeDiscovery, "discovery already running for %s", canonical)
	}
	e.running[canonical] = struct{}{}
	return nil
}

func (e *Engine) release(canonical string) {
	e.mu.Lock()
	delete(e.running, canonical)
	e.mu.Unlock()
}

func (e *Engine) walk(
	ctx context.Context,
	dir string,
	visited map[string]struct{},
	catalog *Catalog,
) error {
	if err := ctx.Err(); err != nil {
		return errdef.Wrap(errdef.CodeDiscovery, err, "discovery cancelled")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable subtrees degrade the scan, they do not fail it.
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)

		if entry.IsDir() || isSymlinkDir(entry, full) {
			if skipDir(name) {
				continue
			}
			canonical, err := canonicalPath(full)
			if err != nil {
				continue
			}
			if _, seen := visited[canonical]; seen {
				continue
			}
			visited[canonical] = struct{}{}
			if err := e.walk(ctx, full, visited, catalog); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		e.scanFile(full, catalog)
	}
	return nil
}

func (e *Engine) scanFile(path string, catalog *Catalog) {
	matched := e.matching(path)
	if len(matched) == 0 {
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > e.maxFileSize {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil || looksBinary(data) {
		return
	}

	src := Source{Path: path, Text: string(data)}
	for _, det := range matched {
		for _, ep := range det.Detect(src) {
			catalog.Add(ep)
		}
	}
}

func (e *Engine) matching(path string) []Detector {
	var out []Detector
	for _, det := range e.detectors {
		if det.Match(path) {
			out = append(out, det)
		}
	}
	return out
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func isSymlinkDir(entry os.DirEntry, full string) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := skipDirNames[name]
	return ok
}

func looksBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}
