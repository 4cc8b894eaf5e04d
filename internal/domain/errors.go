package domain

import "errors"

// Sentinel errors for the conditions the API surfaces to the user. All of
// them are recovered at the boundary where they occur; none may crash the
// process.
var (
	// ErrInvalidFileType: the uploaded file's declared type is not in the
	// PDF/DOCX allow-list. No state is mutated.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFileRead: the file content could not be read and encoded.
	ErrFileRead = errors.New("file read error")

	// ErrAI: the answer or report collaborator failed or returned nothing
	// usable. The optimistic user message has been rolled back.
	ErrAI = errors.New("ai error")

	// ErrBusy: the session already has an exchange in flight. Retry is a
	// manual user action once the current answer lands.
	ErrBusy = errors.New("session busy")

	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage: blank or whitespace-only input, rejected before any
	// mutation.
	ErrEmptyMessage = errors.New("empty message")

	// ErrNoDocument: the operation needs an attached document.
	ErrNoDocument = errors.New("no document attached")
)
