package extraction

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/domain/model"
)

// client implements interfaces.ExtractionService
type client struct {
	llmClient gollem.LLMClient
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new extraction service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (interfaces.ExtractionService, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ClassifyIntent classifies the latest user input into the three intent
// flags. The classifier is instructed to set exactly one flag, but the
// result is returned as-is; conflict resolution is the caller's concern.
func (c *client) ClassifyIntent(ctx context.Context, lastQuestion, userInput string) (*model.IntentClassification, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(intentSchema()),
		gollem.WithSessionSystemPrompt(buildIntentPrompt(lastQuestion)),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userInput))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify intent")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty classification response")
	}

	var intent model.IntentClassification
	if err := json.Unmarshal([]byte(resp.Texts[0]), &intent); err != nil {
		return nil, goerr.Wrap(err, "failed to parse intent classification",
			goerr.V("response", resp.Texts[0]))
	}

	return &intent, nil
}

// ExtractRegistration pulls identity fields out of the conversation so far
// and generates the next registration reply in one structured call.
func (c *client) ExtractRegistration(ctx context.Context, history []*model.Message) (*model.RegistrationExtract, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(registrationSchema()),
		gollem.WithSessionSystemPrompt(registrationSystemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(formatHistory(history)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract registration data")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty registration response")
	}

	var extract model.RegistrationExtract
	if err := json.Unmarshal([]byte(resp.Texts[0]), &extract); err != nil {
		return nil, goerr.Wrap(err, "failed to parse registration extract",
			goerr.V("response", resp.Texts[0]))
	}

	return &extract, nil
}

// GenerateReply produces a plain text reply for the given system prompt.
func (c *client) GenerateReply(ctx context.Context, systemPrompt, userInput string) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userInput))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate reply")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("empty reply from LLM")
	}

	reply := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	return normalizeReply(reply), nil
}

// formatHistory renders the conversation as role-prefixed lines. Prompt
// formatting belongs here, not in the dialogue controller.
func formatHistory(history []*model.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(msg.Role.String())
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
