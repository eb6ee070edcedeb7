package models

import (
	"time"

	"github.com/google/uuid"
)

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn records the outcome of one pipeline pass. Turns are
// appended monotonically and never mutated after creation.
type ConversationTurn struct {
	Role      TurnRole
	Content   string
	VideoURL  string
	CreatedAt time.Time
}

// ConversationSession holds one conversation's turn history. Each session
// is owned by its caller; there is no shared mutable state between
// sessions, and history lives only for the interactive session.
type ConversationSession struct {
	ID        uuid.UUID
	Turns     []ConversationTurn
	CreatedAt time.Time
}
