// Package chat owns the conversation state machine: session lifecycle,
// document attachment, and the turn-taking exchange with the answer
// collaborator. All state flows through the injected domain.ChatStore;
// nothing here touches ambient globals.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sesitech/agrichat/internal/domain"
	"github.com/sesitech/agrichat/internal/observability"
)

// Policy holds behavior knobs the product has gone back and forth on.
type Policy struct {
	// DetachAfterAnswer enables one-shot grounding: the attached document
	// is detached after the first question it answers.
	DetachAfterAnswer bool
}

// Service is the single owner of the in-memory session list. The store is
// only consulted at startup; afterwards memory is authoritative and every
// mutation is persisted best-effort as a whole-state snapshot.
type Service struct {
	store  domain.ChatStore
	answer domain.AnswerClient
	policy Policy
	now    func() time.Time
	newID  func() string

	mu       sync.Mutex
	sessions []*domain.Session // most-recent-first
	activeID domain.SessionID
	inFlight map[domain.SessionID]bool
}

func NewService(store domain.ChatStore, answer domain.AnswerClient, policy Policy) *Service {
	s := &Service{
		store:    store,
		answer:   answer,
		policy:   policy,
		now:      time.Now,
		newID:    uuid.NewString,
		inFlight: make(map[domain.SessionID]bool),
	}

	sessions, activeID, err := store.Load()
	if err != nil {
		// Stores already fail soft; this is belt and braces.
		observability.Logger().Warn("loading chat state failed, starting empty", "error", err)
		sessions, activeID = nil, ""
	}
	s.sessions = sessions
	s.activeID = activeID

	// A persisted active id must point at a live session.
	if s.activeID != "" && s.findLocked(s.activeID) == nil {
		if len(s.sessions) > 0 {
			s.activeID = s.sessions[0].ID
		} else {
			s.activeID = ""
		}
	}

	return s
}

// persistLocked writes the current snapshot. Persistence is best-effort:
// a failed save is logged and skipped, memory stays authoritative.
func (s *Service) persistLocked() {
	if err := s.store.Save(s.sessions, s.activeID); err != nil {
		observability.Logger().Error("saving chat state failed", "error", err)
	}
}

func (s *Service) findLocked(id domain.SessionID) *domain.Session {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// Sessions returns an independent snapshot of all sessions, most recent
// first, plus the active session id.
func (s *Service) Sessions() ([]*domain.Session, domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, cloneSession(sess))
	}
	return out, s.activeID
}

// Get returns an independent copy of one session.
func (s *Service) Get(id domain.SessionID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

func cloneSession(sess *domain.Session) *domain.Session {
	c := *sess
	c.Messages = make([]*domain.Message, len(sess.Messages))
	for i, m := range sess.Messages {
		mc := *m
		c.Messages[i] = &mc
	}
	c.Document = sess.Document.Clone()
	return &c
}
