package memory

import (
	"encoding/json"
	"sync"

	"github.com/sesitech/agrichat/internal/domain"
)

// Store is an in-memory domain.ChatStore. It keeps the serialized form, not
// live pointers, so Load always hands back an independent snapshot — the
// same isolation the durable backends give. Suitable for tests and dev.
type Store struct {
	mu       sync.Mutex
	sessions []byte
	activeID domain.SessionID
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load() ([]*domain.Session, domain.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		return nil, "", nil
	}

	var sessions []*domain.Session
	if err := json.Unmarshal(s.sessions, &sessions); err != nil {
		// Cannot happen for data we marshaled ourselves; fail soft anyway.
		return nil, "", nil
	}
	return sessions, s.activeID, nil
}

func (s *Store) Save(sessions []*domain.Session, activeID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(sessions) == 0 {
		s.sessions = nil
		s.activeID = ""
		return nil
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	s.sessions = data
	s.activeID = activeID
	return nil
}
