package domain

import "time"

type SessionID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TitleSource records how a session got its current title, so automatic
// derivation never overwrites an explicit rename.
type TitleSource string

const (
	TitleDefault  TitleSource = "default"
	TitleDerived  TitleSource = "derived" // truncated first user message
	TitleFromFile TitleSource = "file"    // attached document's display name
	TitleCustom   TitleSource = "custom"  // explicit rename, always wins
)

// ViewState is the screen a session is currently showing.
type ViewState string

const (
	ViewUploading ViewState = "uploading"
	ViewChoosing  ViewState = "choosing"
	ViewChatting  ViewState = "chatting"
	ViewReport    ViewState = "report"
)

type Timestamp = time.Time
