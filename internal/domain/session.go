package domain

// DefaultTitle is the placeholder title a session carries until it earns a
// real one from its first message or an attached document.
const DefaultTitle = "New Chat"

// Message is one entry in a session's timeline (user or assistant).
type Message struct {
	ID        MessageID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	IsReport  bool      `json:"is_report,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// DocumentRef is a fully buffered uploaded document, encoded as a data URI.
type DocumentRef struct {
	Name    string `json:"name"`
	DataURI string `json:"data_uri"`
}

// Clone returns an independent copy. Documents are never shared between
// sessions, so attaching "the same" file twice yields two DocumentRefs.
func (d *DocumentRef) Clone() *DocumentRef {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// Session is one independent conversation thread: an ordered message
// timeline and at most one attached document.
type Session struct {
	ID          SessionID    `json:"id"`
	Title       string       `json:"title"`
	TitleSource TitleSource  `json:"title_source"`
	View        ViewState    `json:"view"`
	Messages    []*Message   `json:"messages"`
	Document    *DocumentRef `json:"document,omitempty"`
	CreatedAt   Timestamp    `json:"created_at"`
	UpdatedAt   Timestamp    `json:"updated_at"`
}

// UserMessageCount counts user-authored messages only. Assistant notices
// (upload confirmations and the like) do not make a session "used": a
// second upload into such a session replaces the attachment instead of
// forking a new session.
func (s *Session) UserMessageCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// RemoveMessage deletes the message with the given id, preserving the order
// of the rest. It reports whether a message was removed.
func (s *Session) RemoveMessage(id MessageID) bool {
	for i, m := range s.Messages {
		if m.ID == id {
			s.Messages = append(s.Messages[:i], s.Messages[i+1:]...)
			return true
		}
	}
	return false
}
