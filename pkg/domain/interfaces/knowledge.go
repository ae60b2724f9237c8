package interfaces

import "context"

// KnowledgeService answers free-form questions grounded on the indexed
// reference documents (store hours, loyalty program, FAQ). The controller
// treats it as an opaque oracle; a failure degrades to the same apology path
// as an extraction failure.
type KnowledgeService interface {
	Answer(ctx context.Context, question string) (string, error)
}
