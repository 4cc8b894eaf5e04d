// Package report turns an attached technical document into the plain-
// language farmer report, via the external formatting collaborator.
package report

import (
	"context"
	"fmt"

	"github.com/sesitech/agrichat/internal/domain"
	"github.com/sesitech/agrichat/internal/observability"
)

// SessionAccess is the slice of the chat service this package needs.
type SessionAccess interface {
	Get(id domain.SessionID) (*domain.Session, error)
	AppendReport(id domain.SessionID, rep *domain.FarmerReport) (*domain.Message, error)
}

type Service struct {
	sessions SessionAccess
	client   domain.ReportClient
}

func NewService(sessions SessionAccess, client domain.ReportClient) *Service {
	return &Service{
		sessions: sessions,
		client:   client,
	}
}

// Format produces the farmer report for the session's attached document.
// Failures leave the session untouched apart from the returned error; the
// user retries manually.
func (s *Service) Format(ctx context.Context, sessionID domain.SessionID) (*domain.FarmerReport, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Document == nil {
		return nil, domain.ErrNoDocument
	}

	log.Info("formatting farmer report", "file", sess.Document.Name)

	rep, err := s.client.FormatReport(ctx, sess.Document.DataURI)
	if err != nil {
		log.Error("report collaborator failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrAI, err)
	}

	if _, err := s.sessions.AppendReport(sessionID, rep); err != nil {
		return nil, err
	}

	log.Info("farmer report ready")
	return rep, nil
}
