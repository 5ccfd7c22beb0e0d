package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/model"
)

const bodySnippetLimit = 512

// Entry is one executed send. CurlCommand keeps the exported equivalent so an
// entry can be replayed or shared without rebuilding the request by hand.
type Entry struct {
	ID          string        `json:"id"`
	ExecutedAt  time.Time     `json:"executedAt"`
	Environment string        `json:"environment,omitempty"`
	Protocol    string        `json:"protocol"`
	Method      string        `json:"method"`
	URL         string        `json:"url"`
	Status      string        `json:"status,omitempty"`
	StatusCode  int           `json:"statusCode,omitempty"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	BodySnippet string        `json:"bodySnippet,omitempty"`
	CurlCommand string        `json:"curlCommand,omitempty"`
}

// NewEntry builds an entry from a completed HTTP send.
func NewEntry(req *model.HTTPRequest, resp *model.Response, environment, curl string) Entry {
	entry := Entry{
		ID:          uuid.NewString(),
		ExecutedAt:  time.Now(),
		Environment: environment,
		Protocol:    "http",
		CurlCommand: curl,
	}
	if req != nil {
		entry.Method = string(req.Method)
		entry.URL = req.URL
	}
	if resp != nil {
		entry.Status = resp.Status
		entry.StatusCode = resp.StatusCode
		entry.Duration = resp.Latency
		entry.BodySnippet = snippet(resp.Body)
		if resp.Failed() {
			entry.Error = string(resp.Err)
			if resp.ErrDetail != "" {
				entry.Error = entry.Error + ": " + resp.ErrDetail
			}
		}
	}
	return entry
}

func snippet(body string) string {
	if len(body) <= bodySnippetLimit {
		return body
	}
	return body[:bodySnippetLimit]
}

type Store struct {
	path       string
	maxEntries int
	entries    []Entry
	mu         sync.RWMutex
	loaded     bool
}

func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &Store{path: path, maxEntries: maxEntries}
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoadedLocked()
}

func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(); err != nil {
		return err
	}

	s.entries = append([]Entry{entry}, s.entries...)
	s.sortEntriesLocked()
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}

	return s.persist()
}

func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copies := make([]Entry, len(s.entries))
	copy(copies, s.entries)
	return copies
}

func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(); err != nil {
		return false, err
	}

	idx := -1
	for i, entry := range s.entries {
		if entry.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	copy(s.entries[idx:], s.entries[idx+1:])
	s.entries = s.entries[:len(s.entries)-1]

	if err := s.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// ByURL returns entries whose URL matches, newest first.
func (s *Store) ByURL(url string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil
	}

	var matched []Entry
	for _, entry := range s.entries {
		if entry.URL == trimmed {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return newerFirst(matched[i], matched[j])
	})
	return matched
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "create history dir")
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "encode history")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write history tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "replace history file")
	}

	return nil
}

func (s *Store) sortEntriesLocked() {
	if len(s.entries) < 2 {
		return
	}

	sort.SliceStable(s.entries, func(i, j int) bool {
		return newerFirst(s.entries[i], s.entries[j])
	})
}

func (s *Store) ensureLoadedLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.entries = []Entry{}
			s.loaded = true
			return nil
		}
		return errdef.Wrap(errdef.CodeHistory, err, "read history")
	}

	if len(data) == 0 {
		s.entries = []Entry{}
		s.loaded = true
		return nil
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "parse history")
	}

	s.sortEntriesLocked()
	s.loaded = true
	return nil
}

func newerFirst(a, b Entry) bool {
	ai := a.ExecutedAt
	bi := b.ExecutedAt
	switch {
	case ai.IsZero() && bi.IsZero():
		return a.ID > b.ID
	case ai.IsZero():
		return false
	case bi.IsZero():
		return true
	case ai.Equal(bi):
		return a.ID > b.ID
	default:
		return ai.After(bi)
	}
}
