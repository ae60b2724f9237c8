package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
)

// client implements interfaces.KnowledgeService
type client struct {
	llmClient gollem.LLMClient
	docs      []Document
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a grounded question-answering service over the given corpus
func New(llmClient gollem.LLMClient, docs []Document, opts ...Option) (interfaces.KnowledgeService, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if len(docs) == 0 {
		return nil, goerr.New("knowledge corpus is empty")
	}

	c := &client{
		llmClient: llmClient,
		docs:      docs,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Answer responds to the question using only the corpus documents.
func (c *client) Answer(ctx context.Context, question string) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(c.buildSystemPrompt()),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(question))
	if err != nil {
		return "", goerr.Wrap(err, "failed to answer question", goerr.V("question", question))
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("empty answer from LLM")
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}

// buildSystemPrompt stuffs the corpus into the answer prompt. The corpus is
// small (store hours, loyalty program, FAQ), so no retrieval step is needed.
func (c *client) buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a question answering assistant for a supermarket. Answer in Spanish, using ONLY the reference documents below.\n")
	sb.WriteString("If the answer is not in the documents, say you do not have that information and offer to help with something else.\n\n")

	for _, doc := range c.docs {
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", doc.Name, doc.Content)
	}

	return sb.String()
}
