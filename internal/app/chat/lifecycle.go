package chat

import (
	"strings"

	"github.com/sesitech/agrichat/internal/domain"
	"github.com/sesitech/agrichat/internal/observability"
)

// NewSession creates an empty session, inserts it at the front of the list
// (most-recent-first) and makes it active. A non-empty title counts as an
// explicit rename.
func (s *Service) NewSession(title string) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.newSessionLocked(title)
	s.persistLocked()
	return cloneSession(sess)
}

func (s *Service) newSessionLocked(title string) *domain.Session {
	now := s.now()
	source := domain.TitleDefault
	if title == "" {
		title = domain.DefaultTitle
	} else {
		source = domain.TitleCustom
	}

	sess := &domain.Session{
		ID:          domain.SessionID(s.newID()),
		Title:       title,
		TitleSource: source,
		View:        domain.ViewUploading,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.sessions = append([]*domain.Session{sess}, s.sessions...)
	s.activeID = sess.ID

	observability.Logger().Info("session created", "session_id", sess.ID)
	return sess
}

// Select makes the given session active. Unknown ids are a silent no-op;
// callers must not rely on validation here.
func (s *Service) Select(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return
	}
	s.activeID = id
	s.persistLocked()
}

// Delete removes a session. If it was active, the most-recent remaining
// session becomes active; if none remain a fresh empty session is created,
// so once any session has existed an active session always exists.
func (s *Service) Delete(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)

	if s.activeID == id {
		if len(s.sessions) > 0 {
			s.activeID = s.sessions[0].ID
		} else {
			s.newSessionLocked("")
		}
	}

	observability.Logger().Info("session deleted", "session_id", id)
	s.persistLocked()
}

// Rename sets the title verbatim (callers trim) and marks it as an explicit
// rename so derivation never touches it again.
func (s *Service) Rename(id domain.SessionID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return domain.ErrSessionNotFound
	}
	if strings.TrimSpace(title) == "" {
		return domain.ErrEmptyMessage
	}

	sess.Title = title
	sess.TitleSource = domain.TitleCustom
	sess.UpdatedAt = s.now()
	s.persistLocked()
	return nil
}

// ClearAll wipes the history and leaves one fresh active session behind.
func (s *Service) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	s.newSessionLocked("")

	observability.Logger().Info("chat history cleared")
	s.persistLocked()
}
