package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"

	"github.com/sesitech/agrichat/internal/domain"
	"github.com/sesitech/agrichat/internal/observability"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Upload is one file selected by the user, before validation.
type Upload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// Attach validates and encodes the upload, then attaches it to the target
// session. The target is the active session only when it is still fresh (no
// user messages yet); otherwise a new session is created first, so a
// document is never silently merged into an ongoing conversation. A fresh
// session that already holds an attachment gets it replaced in place.
func (s *Service) Attach(ctx context.Context, up Upload) (*domain.Session, error) {
	log := observability.LoggerFromContext(ctx).With("file", up.Name)

	mediaType, _, err := mime.ParseMediaType(up.ContentType)
	if err != nil || (mediaType != mimePDF && mediaType != mimeDOCX) {
		log.Warn("rejected upload", "content_type", up.ContentType)
		return nil, domain.ErrInvalidFileType
	}

	content, err := io.ReadAll(up.Reader)
	if err != nil {
		log.Error("reading upload failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrFileRead, err)
	}

	doc := &domain.DocumentRef{
		Name:    up.Name,
		DataURI: "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(content),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(s.activeID)
	if sess == nil || sess.UserMessageCount() > 0 {
		sess = s.newSessionLocked("")
	}

	sess.Document = doc
	s.applyTitleLocked(sess, up.Name, domain.TitleFromFile)
	sess.Messages = append(sess.Messages, &domain.Message{
		ID:        domain.MessageID(s.newID()),
		Role:      domain.RoleAssistant,
		Content:   fmt.Sprintf("I've analyzed %q. Ask me anything about it.", up.Name),
		CreatedAt: s.now(),
	})
	sess.View = domain.ViewChoosing
	sess.UpdatedAt = s.now()
	s.persistLocked()

	log.Info("document attached", "session_id", sess.ID)
	return cloneSession(sess), nil
}

// Detach clears the session's attached document. Used by one-shot grounding
// after the first answered question, and by explicit user removal.
func (s *Service) Detach(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return domain.ErrSessionNotFound
	}

	sess.Document = nil
	sess.UpdatedAt = s.now()
	s.persistLocked()
	return nil
}

// Action is what the user chose to do with a freshly uploaded document.
type Action string

const (
	ActionChat   Action = "chat"
	ActionReport Action = "report"
)

// ChooseAction moves a session out of the post-upload choosing screen.
func (s *Service) ChooseAction(id domain.SessionID, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return domain.ErrSessionNotFound
	}

	switch action {
	case ActionChat:
		sess.View = domain.ViewChatting
	case ActionReport:
		sess.View = domain.ViewReport
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	sess.UpdatedAt = s.now()
	s.persistLocked()
	return nil
}
