// Package highscore persists the single best score across sessions.
package highscore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	fileName   = "highscore.yaml"
	appDirName = "reflex"
)

// record is the on-disk format.
type record struct {
	HighScore int `yaml:"reflex_royale_high_score"`
}

// Store holds the best score, backed by a YAML file. An empty path keeps
// the score in memory only. Safe for concurrent use; SSH sessions share one
// store.
type Store struct {
	mu     sync.Mutex
	path   string
	loaded bool
	best   int
}

// NewStore creates a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the state-directory location of the score file,
// respecting XDG_STATE_HOME.
func DefaultPath() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName, fileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName, fileName)
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Best returns the stored best score; zero when nothing was saved yet.
func (s *Store) Best() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return 0, err
	}
	return s.best, nil
}

// Submit records score if it is strictly greater than the stored best.
// It returns the best score after the call and whether score replaced it.
func (s *Store) Submit(score int) (best int, isNew bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return 0, false, err
	}
	if score <= s.best {
		return s.best, false, nil
	}
	if err := s.save(score); err != nil {
		return s.best, false, err
	}
	s.best = score
	return score, true, nil
}

func (s *Store) load() error {
	if s.loaded || s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("reading high score: %w", err)
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parsing high score: %w", err)
	}
	s.best = max(rec.HighScore, 0)
	s.loaded = true
	return nil
}

// save writes the file with a temp-file-then-rename so a crash never leaves
// a truncated score behind.
func (s *Store) save(score int) error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating high score dir: %w", err)
	}

	data, err := yaml.Marshal(record{HighScore: score})
	if err != nil {
		return fmt.Errorf("marshaling high score: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".highscore-*.tmp")
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
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming high score file: %w", err)
	}
	committed = true
	return nil
}
