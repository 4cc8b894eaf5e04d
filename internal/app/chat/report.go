package chat

import (
	"fmt"

	"github.com/sesitech/agrichat/internal/domain"
)

// AppendReport records a finished farmer report on the session: an
// assistant message flagged as a report, and the report view state.
func (s *Service) AppendReport(id domain.SessionID, rep *domain.FarmerReport) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}

	name := "your document"
	if sess.Document != nil {
		name = fmt.Sprintf("%q", sess.Document.Name)
	}

	msg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		Role:      domain.RoleAssistant,
		Content:   fmt.Sprintf("Your farmer-friendly report for %s is ready.", name),
		IsReport:  true,
		CreatedAt: s.now(),
	}
	sess.Messages = append(sess.Messages, msg)
	sess.View = domain.ViewReport
	sess.UpdatedAt = s.now()
	s.persistLocked()

	mc := *msg
	return &mc, nil
}
