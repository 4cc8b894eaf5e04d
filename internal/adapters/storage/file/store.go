// Package file persists chat state as JSON files under a data directory,
// the server-side analog of the browser's local storage: two named entries,
// one for the session list and one for the active session id.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sesitech/agrichat/internal/domain"
	"github.com/sesitech/agrichat/internal/observability"
)

const (
	sessionsFile = "sessions.json"
	activeFile   = "active_session.json"
)

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load restores persisted state. A missing entry means empty state; an
// unparseable one is logged and also treated as empty — a bad file on disk
// must never prevent startup.
func (s *Store) Load() ([]*domain.Session, domain.SessionID, error) {
	log := observability.WithFields("store", "file", "dir", s.dir)

	data, err := os.ReadFile(filepath.Join(s.dir, sessionsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", nil
		}
		log.Warn("could not read session list, starting empty", "error", err)
		return nil, "", nil
	}

	var sessions []*domain.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Warn("could not parse session list, starting empty", "error", err)
		return nil, "", nil
	}

	var activeID domain.SessionID
	if data, err := os.ReadFile(filepath.Join(s.dir, activeFile)); err == nil {
		if err := json.Unmarshal(data, &activeID); err != nil {
			log.Warn("could not parse active session id", "error", err)
			activeID = ""
		}
	}

	return sessions, activeID, nil
}

// Save persists the whole state. An empty session list removes the entries
// instead of writing empty structures.
func (s *Store) Save(sessions []*domain.Session, activeID domain.SessionID) error {
	if len(sessions) == 0 {
		for _, name := range []string{sessionsFile, activeFile} {
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("removing %s: %w", name, err)
			}
		}
		return nil
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session list: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, sessionsFile), data); err != nil {
		return err
	}

	data, err = json.Marshal(activeID)
	if err != nil {
		return fmt.Errorf("encoding active session id: %w", err)
	}
	return writeAtomic(filepath.Join(s.dir, activeFile), data)
}

// writeAtomic writes to a temp file and renames it over the target, so a
// crash mid-write cannot corrupt a previously valid entry.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("swapping %s: %w", path, err)
	}
	return nil
}
