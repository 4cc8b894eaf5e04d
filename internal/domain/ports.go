package domain

import "context"

// ChatStore defines durable persistence for the whole chat state: the
// session list plus the active session id, read once at startup and written
// after every mutation (whole-state replacement, never in-place edits).
type ChatStore interface {
	// Load restores persisted state. Implementations fail soft: a missing
	// or unparseable entry yields empty state, not an error that would
	// abort startup.
	Load() (sessions []*Session, activeID SessionID, err error)

	// Save persists the current state. When the session list is empty the
	// persisted entries are removed rather than rewritten as empty
	// structures.
	Save(sessions []*Session, activeID SessionID) error
}

// AnswerInput is a question plus optional document grounding.
type AnswerInput struct {
	Question string
	Document *DocumentRef
}

// AnswerOutput is the collaborator's reply. Source is a citation label: a
// document-derived one when grounded, "General Knowledge" when answering
// without a document, or "N/A" when the question is judged off-domain.
type AnswerOutput struct {
	Answer string
	Source string
}

// AnswerClient is the external question-answering collaborator. It must
// tolerate a nil Document (general-knowledge mode).
type AnswerClient interface {
	AnswerQuestion(ctx context.Context, in AnswerInput) (AnswerOutput, error)
}

// FarmerReport is a technical soil report rewritten into plain, farmer-
// friendly prose sections.
type FarmerReport struct {
	FarmDetails         string `json:"farm_details"`
	WhatWeChecked       string `json:"what_we_checked"`
	WhatWeFound         string `json:"what_we_found"`
	WhatYouShouldDo     string `json:"what_you_should_do"`
	MoneyMatters        string `json:"money_matters"`
	ExtraTips           string `json:"extra_tips"`
	DetailedExplanation string `json:"detailed_explanation"`
}

// ReportClient is the external report-formatting collaborator. The report
// text is the encoded document content; text extraction is the
// collaborator's problem, not ours.
type ReportClient interface {
	FormatReport(ctx context.Context, reportText string) (*FarmerReport, error)
}
