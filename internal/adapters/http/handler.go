package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sesitech/agrichat/internal/app/chat"
	"github.com/sesitech/agrichat/internal/app/report"
	"github.com/sesitech/agrichat/internal/domain"
)

// maxUploadBytes bounds multipart parsing; documents are fully buffered
// into memory as data URIs, so this is also the attachment size cap.
const maxUploadBytes = 20 << 20

type Server struct {
	chats   *chat.Service
	reports *report.Service
}

func NewServer(chats *chat.Service, reports *report.Service) http.Handler {
	s := &Server{chats: chats, reports: reports}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /state → GET: full UI state (sessions + active id)
	mux.HandleFunc("/state", s.handleState)

	// /documents → POST: upload a document (the engine picks the target session)
	mux.HandleFunc("/documents", s.handleDocuments)

	// /messages → POST: send to the active session, creating one if needed
	mux.HandleFunc("/messages", s.handleMessages)

	// /sessions  → POST: new chat, DELETE: clear history
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}          → GET | DELETE | PATCH (rename)
	// /sessions/{id}/select   → POST
	// /sessions/{id}/messages → POST: send message
	// /sessions/{id}/document → DELETE: detach
	// /sessions/{id}/action   → POST: chat | report
	// /sessions/{id}/report   → POST: format farmer report
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	IsReport  bool      `json:"is_report,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type documentResponse struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	View      string            `json:"view"`
	Messages  []messageResponse `json:"messages"`
	Document  *documentResponse `json:"document,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type stateResponse struct {
	Sessions []sessionResponse `json:"sessions"`
	ActiveID string            `json:"active_session_id"`
}

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type renameSessionRequest struct {
	Title string `json:"title"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	SessionID        string          `json:"session_id"`
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
}

type chooseActionRequest struct {
	Action string `json:"action"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sessions, activeID := s.chats.Sessions()
	writeJSON(w, http.StatusOK, stateResponse{
		Sessions: toSessionsResponse(sessions),
		ActiveID: string(activeID),
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodDelete:
		s.chats.ClearAll()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.handleUpload(w, r)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.handleSendMessage(w, r, "")
}

func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, id)
		case http.MethodDelete:
			s.chats.Delete(id)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPatch:
			s.handleRenameSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 {
		switch {
		case parts[1] == "select" && r.Method == http.MethodPost:
			s.chats.Select(id)
			w.WriteHeader(http.StatusNoContent)
		case parts[1] == "messages" && r.Method == http.MethodPost:
			s.handleSendMessage(w, r, id)
		case parts[1] == "document" && r.Method == http.MethodDelete:
			s.handleDetach(w, r, id)
		case parts[1] == "action" && r.Method == http.MethodPost:
			s.handleChooseAction(w, r, id)
		case parts[1] == "report" && r.Method == http.MethodPost:
			s.handleFormatReport(w, r, id)
		default:
			http.NotFound(w, r)
		}
		return
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	sess := s.chats.NewSession(strings.TrimSpace(req.Title))
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	sess, err := s.chats.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleRenameSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req renameSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if err := s.chats.Rename(id, strings.TrimSpace(req.Title)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.chats.Send(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		SessionID:        string(out.SessionID),
		UserMessage:      toMessageResponse(out.UserMessage),
		AssistantMessage: toMessageResponse(out.AssistantMessage),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, "invalid multipart body")
		return
	}

	f, fh, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing file field")
		return
	}
	defer f.Close()

	sess, err := s.chats.Attach(r.Context(), chat.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) handleDetach(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.chats.Detach(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChooseAction(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req chooseActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	action := chat.Action(strings.ToLower(strings.TrimSpace(req.Action)))
	if action != chat.ActionChat && action != chat.ActionReport {
		badRequest(w, "action must be \"chat\" or \"report\"")
		return
	}

	if err := s.chats.ChooseAction(id, action); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFormatReport(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	rep, err := s.reports.Format(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// ─────────────────────────────────────────────
// Response helpers
// ─────────────────────────────────────────────

func toSessionResponse(sess *domain.Session) sessionResponse {
	msgs := make([]messageResponse, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}

	var doc *documentResponse
	if sess.Document != nil {
		doc = &documentResponse{Name: sess.Document.Name}
	}

	return sessionResponse{
		ID:        string(sess.ID),
		Title:     sess.Title,
		View:      string(sess.View),
		Messages:  msgs,
		Document:  doc,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func toSessionsResponse(sessions []*domain.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toSessionResponse(sess))
	}
	return out
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		Role:      string(m.Role),
		Content:   m.Content,
		Source:    m.Source,
		IsReport:  m.IsReport,
		CreatedAt: m.CreatedAt,
	}
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errBody(err))
	case errors.Is(err, domain.ErrEmptyMessage):
		writeJSON(w, http.StatusUnprocessableEntity, errBody(err))
	case errors.Is(err, domain.ErrInvalidFileType), errors.Is(err, domain.ErrFileRead), errors.Is(err, domain.ErrNoDocument):
		writeJSON(w, http.StatusBadRequest, errBody(err))
	case errors.Is(err, domain.ErrBusy):
		writeJSON(w, http.StatusConflict, errBody(err))
	case errors.Is(err, domain.ErrAI):
		writeJSON(w, http.StatusBadGateway, errBody(err))
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}

func errBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
