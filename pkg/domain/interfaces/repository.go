package interfaces

import (
	"context"

	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	Customer() CustomerRepository
	Conversation() ConversationRepository

	Close() error
}

// CustomerRepository is the durable customer registry, keyed by identifier.
type CustomerRepository interface {
	// Get returns the customer record, or an error wrapping the backend's
	// not-found sentinel when the identifier is unknown.
	Get(ctx context.Context, id types.CustomerID) (*model.Customer, error)

	// Put upserts the record. A second call with the same identifier fully
	// replaces all fields; partial values are never merged over existing ones.
	Put(ctx context.Context, customer *model.Customer) error
}

// ConversationRepository persists per-session conversation state: an
// append-only message log plus one mutable step field.
//
// Callers must serialize turns per session ID. The registration flow reads
// then writes the step non-atomically, so concurrent turns on one session
// are a data race. Different sessions are fully independent.
type ConversationRepository interface {
	// AppendMessage appends to the session's log, creating the conversation
	// with the open step if it does not exist yet.
	AppendMessage(ctx context.Context, id types.SessionID, msg *model.Message) error

	// ListMessages returns the full log in append order. Unknown sessions
	// yield an empty slice, not an error.
	ListMessages(ctx context.Context, id types.SessionID) ([]*model.Message, error)

	// SetStep updates the step, creating the conversation if absent.
	SetStep(ctx context.Context, id types.SessionID, step types.Step) error

	// GetStep returns the current step; StepOpen for unknown sessions.
	GetStep(ctx context.Context, id types.SessionID) (types.Step, error)
}
