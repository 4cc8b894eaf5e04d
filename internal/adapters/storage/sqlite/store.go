// Package sqlite persists chat state in a single local SQLite file. Same
// contract as the file store: two named entries, whole-state replacement on
// every save, done inside one transaction.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sesitech/agrichat/internal/domain"
	"github.com/sesitech/agrichat/internal/observability"
)

const (
	keySessions = "sessions"
	keyActive   = "active_session"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load() ([]*domain.Session, domain.SessionID, error) {
	log := observability.WithFields("store", "sqlite")

	raw, ok, err := s.get(keySessions)
	if err != nil {
		log.Warn("could not read session list, starting empty", "error", err)
		return nil, "", nil
	}
	if !ok {
		return nil, "", nil
	}

	var sessions []*domain.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		log.Warn("could not parse session list, starting empty", "error", err)
		return nil, "", nil
	}

	var activeID domain.SessionID
	if raw, ok, err := s.get(keyActive); err == nil && ok {
		activeID = domain.SessionID(raw)
	}

	return sessions, activeID, nil
}

func (s *Store) Save(sessions []*domain.Session, activeID domain.SessionID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if len(sessions) == 0 {
		if _, err := tx.Exec(`DELETE FROM chat_state`); err != nil {
			return fmt.Errorf("clearing state: %w", err)
		}
		return tx.Commit()
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encoding session list: %w", err)
	}

	upsert := `INSERT INTO chat_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, keySessions, string(data)); err != nil {
		return fmt.Errorf("saving session list: %w", err)
	}
	if _, err := tx.Exec(upsert, keyActive, string(activeID)); err != nil {
		return fmt.Errorf("saving active session id: %w", err)
	}

	return tx.Commit()
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM chat_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
