package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sesitech/agrichat/internal/domain"
	"github.com/sesitech/agrichat/internal/observability"
)

const (
	// placeholderSource is the example citation the collaborator emits when
	// it has no real document name; it is rewritten before display.
	placeholderSource = "ExamplePDF.pdf"

	generalKnowledge = "General Knowledge"
)

// SendResult is the outcome of one completed exchange.
type SendResult struct {
	SessionID        domain.SessionID
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
}

// Send runs one exchange: append the user message optimistically, ask the
// collaborator, then either append the assistant reply or roll the user
// message back. At most one exchange may be in flight per session; a second
// Send while one is pending is rejected with ErrBusy. An empty sessionID
// targets the active session, creating one if none exists.
func (s *Service) Send(ctx context.Context, sessionID domain.SessionID, text string) (*SendResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	s.mu.Lock()

	var sess *domain.Session
	if sessionID == "" {
		sess = s.findLocked(s.activeID)
		if sess == nil {
			sess = s.newSessionLocked("")
		}
	} else {
		sess = s.findLocked(sessionID)
		if sess == nil {
			s.mu.Unlock()
			return nil, domain.ErrSessionNotFound
		}
	}

	if s.inFlight[sess.ID] {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}
	s.inFlight[sess.ID] = true

	id := sess.ID
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}()

	log := observability.LoggerFromContext(ctx).With("session_id", sess.ID)

	// Remembered for compensation: a failed exchange must leave the
	// session exactly as it was before the send.
	prevTitle, prevTitleSource := sess.Title, sess.TitleSource
	prevView, prevUpdatedAt := sess.View, sess.UpdatedAt

	// Phase 1: the optimistic user message, visible before the answer.
	userMsg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: s.now(),
	}
	sess.Messages = append(sess.Messages, userMsg)
	if sess.UserMessageCount() == 1 {
		s.applyTitleLocked(sess, TitleFromMessage(text), domain.TitleDerived)
	}
	sess.View = domain.ViewChatting
	sess.UpdatedAt = s.now()
	s.persistLocked()

	doc := sess.Document.Clone()
	s.mu.Unlock()

	log.Info("awaiting answer", "grounded", doc != nil)

	// The collaborator call runs outside the lock; other sessions may
	// exchange concurrently.
	out, err := s.answer.AnswerQuestion(ctx, domain.AnswerInput{
		Question: text,
		Document: doc,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	// The session may have been deleted while we waited.
	sess = s.findLocked(id)

	if err != nil {
		log.Error("answer collaborator failed", "error", err)
		// Phase 2, compensation: remove the optimistic message by id and
		// undo the title/view changes it brought along.
		if sess != nil {
			sess.RemoveMessage(userMsg.ID)
			sess.Title, sess.TitleSource = prevTitle, prevTitleSource
			sess.View, sess.UpdatedAt = prevView, prevUpdatedAt
			s.persistLocked()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAI, err)
	}

	if sess == nil {
		log.Warn("session deleted mid-exchange, dropping answer")
		return nil, domain.ErrSessionNotFound
	}

	assistantMsg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		Role:      domain.RoleAssistant,
		Content:   out.Answer,
		Source:    rewriteSource(out.Source, doc),
		CreatedAt: s.now(),
	}
	sess.Messages = append(sess.Messages, assistantMsg)

	if doc != nil && s.policy.DetachAfterAnswer {
		sess.Document = nil
	}

	sess.UpdatedAt = s.now()
	s.persistLocked()

	log.Info("exchange completed")

	userCopy, assistantCopy := *userMsg, *assistantMsg
	return &SendResult{
		SessionID:        sess.ID,
		UserMessage:      &userCopy,
		AssistantMessage: &assistantCopy,
	}, nil
}

// rewriteSource swaps the collaborator's placeholder citation for the real
// attached document's name, or the general-knowledge label when nothing was
// attached. Real citations and "N/A" pass through untouched.
func rewriteSource(source string, doc *domain.DocumentRef) string {
	if source == "" {
		return source
	}
	name := generalKnowledge
	if doc != nil {
		name = doc.Name
	}
	return strings.ReplaceAll(source, placeholderSource, name)
}
