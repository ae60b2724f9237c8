package interfaces

import (
	"context"

	"github.com/merca-lab/mercabot/pkg/domain/model"
)

// ExtractionService turns free text plus a target shape into typed data
// using an external structured-completion capability. Each method owns its
// schema and prompt formatting; schema validation happens at this boundary,
// never in the dialogue controller.
//
// Any returned error means the capability was unreachable, timed out, or
// produced output that cannot satisfy the schema. Callers treat all of these
// as non-fatal to the session.
type ExtractionService interface {
	// ClassifyIntent classifies the latest user input. lastQuestion is the
	// assistant's previous question, used as disambiguation context; it may
	// be empty on first contact.
	ClassifyIntent(ctx context.Context, lastQuestion, userInput string) (*model.IntentClassification, error)

	// ExtractRegistration pulls identity fields from the whole conversation
	// and produces the next registration reply.
	ExtractRegistration(ctx context.Context, history []*model.Message) (*model.RegistrationExtract, error)

	// GenerateReply produces a plain-text reply for the given system prompt
	// and user input.
	GenerateReply(ctx context.Context, systemPrompt, userInput string) (string, error)
}
