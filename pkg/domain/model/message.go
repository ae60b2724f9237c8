package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/types"
)

// Message is one entry in a conversation log. Messages are immutable once
// appended; ordering is the append order and CreatedAt is informational.
type Message struct {
	ID        types.MessageID `firestore:"id" json:"id"`
	Role      types.Role      `firestore:"role" json:"role"`
	Content   string          `firestore:"content" json:"content"`
	CreatedAt time.Time       `firestore:"created_at" json:"created_at"`
}

// NewMessage creates a message with a fresh time-ordered ID
func NewMessage(role types.Role, content string) *Message {
	return &Message{
		ID:        types.NewMessageID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewMessageFromData restores a message from persisted data
func NewMessageFromData(id types.MessageID, role types.Role, content string, createdAt time.Time) *Message {
	return &Message{
		ID:        id,
		Role:      role,
		Content:   content,
		CreatedAt: createdAt,
	}
}

// Validate checks if the message is valid
func (m *Message) Validate() error {
	if err := m.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid message ID")
	}
	if !m.Role.IsValid() {
		return goerr.New("invalid message role", goerr.V("role", m.Role))
	}
	if m.Content == "" {
		return goerr.New("message content is empty", goerr.V("id", m.ID))
	}
	return nil
}
