package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SessionID identifies one continuous chat interaction
type SessionID string

// NewSessionID generates a new time-ordered session ID
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the session ID
func (id SessionID) String() string {
	return string(id)
}

// Validate checks if the session ID is valid
func (id SessionID) Validate() error {
	if id == "" {
		return goerr.New("session ID is empty")
	}
	return nil
}

// CustomerID is the customer's natural key: their identification number
type CustomerID string

// String returns the string representation of the customer ID
func (id CustomerID) String() string {
	return string(id)
}

// Validate checks if the customer ID is non-empty. Format rules live in
// model.ValidIdentifier; this only guards repository access.
func (id CustomerID) Validate() error {
	if id == "" {
		return goerr.New("customer ID is empty")
	}
	return nil
}

// MessageID identifies one message within a conversation
type MessageID string

// NewMessageID generates a new time-ordered message ID
func NewMessageID() MessageID {
	return MessageID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the message ID
func (id MessageID) String() string {
	return string(id)
}

// Validate checks if the message ID is valid
func (id MessageID) Validate() error {
	if id == "" {
		return goerr.New("message ID is empty")
	}
	return nil
}
