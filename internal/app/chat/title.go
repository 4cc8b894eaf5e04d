package chat

import (
	"strings"

	"github.com/sesitech/agrichat/internal/domain"
)

// titleMaxLen is the character budget for message-derived titles.
const titleMaxLen = 30

// TitleFromMessage truncates the first user message to the title budget,
// appending an ellipsis marker when it was cut.
func TitleFromMessage(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= titleMaxLen {
		return text
	}
	return string(runes[:titleMaxLen]) + "..."
}

// titleRank orders title sources by precedence: an explicit rename always
// wins, an attached filename beats a message-derived title, and anything
// beats the placeholder.
func titleRank(source domain.TitleSource) int {
	switch source {
	case domain.TitleCustom:
		return 3
	case domain.TitleFromFile:
		return 2
	case domain.TitleDerived:
		return 1
	default:
		return 0
	}
}

// DeriveTitle decides whether candidate replaces the current title. It is a
// pure function; re-attaching a file may refresh a file-derived title, but
// otherwise equal-or-lower-precedence candidates lose.
func DeriveTitle(current string, currentSource domain.TitleSource, candidate string, candidateSource domain.TitleSource) (string, domain.TitleSource) {
	if candidate == "" {
		return current, currentSource
	}
	if titleRank(candidateSource) > titleRank(currentSource) ||
		(candidateSource == domain.TitleFromFile && currentSource == domain.TitleFromFile) {
		return candidate, candidateSource
	}
	return current, currentSource
}

func (s *Service) applyTitleLocked(sess *domain.Session, candidate string, source domain.TitleSource) {
	sess.Title, sess.TitleSource = DeriveTitle(sess.Title, sess.TitleSource, candidate, source)
}
