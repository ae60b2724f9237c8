package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/types"
)

// Conversation holds the mutable head of a session: the current step.
// Messages live in their own append-only log keyed by the same session ID.
// Conversations are created on first contact and never deleted.
type Conversation struct {
	ID        types.SessionID `firestore:"id" json:"id"`
	Step      types.Step      `firestore:"step" json:"step"`
	UpdatedAt time.Time       `firestore:"updated_at" json:"updated_at"`
}

// NewConversation creates a conversation in the open step
func NewConversation(id types.SessionID) *Conversation {
	return &Conversation{
		ID:        id,
		Step:      types.StepOpen,
		UpdatedAt: time.Now().UTC(),
	}
}

// Validate checks if the conversation is valid
func (c *Conversation) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid conversation ID")
	}
	if !c.Step.IsValid() {
		return goerr.New("invalid conversation step", goerr.V("step", c.Step.Int()))
	}
	return nil
}
