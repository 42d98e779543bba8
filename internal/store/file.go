package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Starman965/mongoose-sub000/internal/achievement"
	"github.com/Starman965/mongoose-sub000/internal/match"
)

const (
	// catalogVersion is bumped when the schema changes so Load can apply
	// migrations later.
	catalogVersion = 1

	catalogFileName = "catalog.json"
	appDirName      = "mongoose"
)

// catalogDoc is the on-disk document: the rule set, progress keyed by rule
// id, and the match history.
type catalogDoc struct {
	Version     int                             `json:"version"`
	Rules       []achievement.Rule              `json:"rules"`
	Progress    map[string]achievement.Progress `json:"progress"`
	Matches     []match.Record                  `json:"matches"`
	LastUpdated time.Time                       `json:"lastUpdated"`
}

// FileStore keeps the whole catalog in one JSON file, rewritten atomically
// on every mutation. The catalog is small (tens of rules, a season of
// matches), so whole-document writes stay cheap.
type FileStore struct {
	mu  sync.Mutex
	dir string
	doc *catalogDoc
}

// NewFileStore creates a FileStore rooted at dir. Pass an empty string to
// use the default XDG state path. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &FileStore{dir: dir}
}

// Path returns the full path to the catalog file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, catalogFileName)
}

// Close implements Store. The file store has nothing to release.
func (s *FileStore) Close() error { return nil }

// LoadCatalog returns the catalog entries in rule order, pairing each rule
// with its progress (zero progress when none is recorded yet). Stored rules
// are re-validated so a hand-edited file cannot smuggle a malformed rule
// into the hot path.
func (s *FileStore) LoadCatalog(ctx context.Context) ([]achievement.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	entries := make([]achievement.Entry, 0, len(s.doc.Rules))
	for _, rule := range s.doc.Rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("stored catalog: %w", err)
		}
		prog, ok := s.doc.Progress[rule.ID]
		if !ok {
			prog = achievement.NewProgress(rule.ID)
		}
		entries = append(entries, achievement.Entry{Rule: rule, Progress: prog})
	}
	return entries, nil
}

// SaveRule inserts or replaces a rule, keeping rule order stable for
// existing ids.
func (s *FileStore) SaveRule(ctx context.Context, rule achievement.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	replaced := false
	for i, r := range s.doc.Rules {
		if r.ID == rule.ID {
			s.doc.Rules[i] = rule
			replaced = true
			break
		}
	}
	if !replaced {
		s.doc.Rules = append(s.doc.Rules, rule)
	}
	return s.saveLocked()
}

// SaveProgress records the running state for a known rule.
func (s *FileStore) SaveProgress(ctx context.Context, prog achievement.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	if !s.hasRuleLocked(prog.RuleID) {
		return fmt.Errorf("%w: %s", ErrUnknownRule, prog.RuleID)
	}
	s.doc.Progress[prog.RuleID] = prog
	return s.saveLocked()
}

// DeleteRule removes a rule and its progress.
func (s *FileStore) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	for i, r := range s.doc.Rules {
		if r.ID == id {
			s.doc.Rules = append(s.doc.Rules[:i], s.doc.Rules[i+1:]...)
			delete(s.doc.Progress, id)
			return s.saveLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownRule, id)
}

// AddMatch appends one match record to the history.
func (s *FileStore) AddMatch(ctx context.Context, rec *match.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	s.doc.Matches = append(s.doc.Matches, *rec)
	return s.saveLocked()
}

// ListMatches returns up to limit matches, most recent first.
// A non-positive limit returns the full history.
func (s *FileStore) ListMatches(ctx context.Context, limit int) ([]match.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	out := make([]match.Record, len(s.doc.Matches))
	copy(out, s.doc.Matches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FileStore) hasRuleLocked(id string) bool {
	for _, r := range s.doc.Rules {
		if r.ID == id {
			return true
		}
	}
	return false
}

// loadLocked reads the document once; a missing file starts an empty
// catalog at the current version.
func (s *FileStore) loadLocked() error {
	if s.doc != nil {
		return nil
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			s.doc = newCatalogDoc()
			return nil
		}
		return fmt.Errorf("reading catalog: %w", err)
	}

	var doc catalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}
	if doc.Progress == nil {
		doc.Progress = make(map[string]achievement.Progress)
	}
	s.doc = &doc
	return nil
}

// saveLocked writes the document using the atomic temp-file-then-rename
// pattern so a crash mid-write never truncates the catalog.
func (s *FileStore) saveLocked() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}

	s.doc.Version = catalogVersion
	s.doc.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("renaming catalog file: %w", err)
	}
	committed = true

	return nil
}

func newCatalogDoc() *catalogDoc {
	return &catalogDoc{
		Version:  catalogVersion,
		Progress: make(map[string]achievement.Progress),
	}
}

// defaultStateDir returns ~/.local/state/mongoose, respecting
// XDG_STATE_HOME if set.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
