package usecase

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/domain/types"
	"github.com/merca-lab/mercabot/pkg/repository/firestore"
	"github.com/merca-lab/mercabot/pkg/repository/memory"
	"github.com/merca-lab/mercabot/pkg/utils/errutil"
	"github.com/merca-lab/mercabot/pkg/utils/logging"
)

//go:embed prompt/greeting_system.md
var greetingSystemPrompt string

//go:embed prompt/identify_system.md
var identifySystemPrompt string

//go:embed prompt/grounded_answer.md
var groundedAnswerPromptTmpl string

var groundedAnswerPrompt = template.Must(template.New("grounded_answer").Parse(groundedAnswerPromptTmpl))

// Fixed replies that must not depend on a working LLM.
const (
	apologyReply = "Lo siento, en este momento no puedo procesar tu solicitud. " +
		"Por favor, inténtalo de nuevo en unos minutos."

	verifyIdentifierReply = "No encuentro esa identificación en nuestros registros. " +
		"¿Podrías verificar el número, o deseas registrarte como cliente nuevo?"
)

// ChatUseCase is the dialogue controller: it classifies each user turn,
// dispatches to a response strategy and advances the conversation step.
type ChatUseCase struct {
	repo      interfaces.Repository
	extractor interfaces.ExtractionService
	knowledge interfaces.KnowledgeService
	profile   *model.BotProfile
}

func NewChatUseCase(repo interfaces.Repository, extractor interfaces.ExtractionService, knowledge interfaces.KnowledgeService) *ChatUseCase {
	return &ChatUseCase{
		repo:      repo,
		extractor: extractor,
		knowledge: knowledge,
	}
}

// TurnResult is what the caller shows the user after one turn.
type TurnResult struct {
	SessionID types.SessionID `json:"session_id"`
	Reply     string          `json:"reply"`
	Step      types.Step      `json:"step"`
}

// HandleTurn runs one conversation turn. The user message is persisted
// before anything fallible runs, so a failing turn never loses input; any
// extraction, knowledge or store failure after that point degrades to a
// fixed apology with the step left unchanged.
//
// Callers must not run concurrent turns on the same session ID.
func (uc *ChatUseCase) HandleTurn(ctx context.Context, sessionID types.SessionID, userInput string) (*TurnResult, error) {
	if err := sessionID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidSession, err.Error())
	}
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return nil, goerr.Wrap(ErrEmptyMessage, "user input is blank", goerr.V("session_id", sessionID))
	}

	conv := uc.repo.Conversation()

	if err := conv.AppendMessage(ctx, sessionID, model.NewMessage(types.RoleUser, userInput)); err != nil {
		return nil, goerr.Wrap(err, "failed to record user message", goerr.V("session_id", sessionID))
	}

	step, err := conv.GetStep(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read conversation step", goerr.V("session_id", sessionID))
	}
	history, err := conv.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read conversation history", goerr.V("session_id", sessionID))
	}

	intent, err := uc.extractor.ClassifyIntent(ctx, lastAssistantQuestion(history), userInput)
	if err != nil {
		return uc.apologize(ctx, sessionID, step, err, "intent classification failed")
	}

	logging.From(ctx).Debug("turn classified",
		"session_id", sessionID,
		"step", step,
		"greeting", intent.Greeting,
		"ask_for_info", intent.AsksForInfo,
		"data_personal", intent.ProvidesPersonalData,
	)

	reply, next, err := uc.dispatch(ctx, step, intent, history, userInput)
	if err != nil {
		return uc.apologize(ctx, sessionID, step, err, "turn dispatch failed")
	}

	if err := uc.commit(ctx, sessionID, reply, next); err != nil {
		return uc.apologize(ctx, sessionID, step, err, "failed to persist model turn")
	}

	return &TurnResult{SessionID: sessionID, Reply: reply, Step: next}, nil
}

// dispatch picks a response strategy. Priority is fixed: greeting wins over
// everything, and a session already in registration stays in registration
// even when the classifier disagrees about the current turn.
func (uc *ChatUseCase) dispatch(ctx context.Context, step types.Step, intent *model.IntentClassification, history []*model.Message, userInput string) (string, types.Step, error) {
	switch {
	case intent.Greeting:
		reply, err := uc.extractor.GenerateReply(ctx, uc.systemPrompt(greetingSystemPrompt), userInput)
		return reply, types.StepGreeted, err

	case intent.ProvidesPersonalData || step == types.StepRegistering:
		return uc.register(ctx, history)

	case intent.AsksForInfo:
		reply, err := uc.extractor.GenerateReply(ctx, uc.systemPrompt(identifySystemPrompt), userInput)
		return reply, types.StepGreeted, err

	default:
		return uc.answerQuestion(ctx, userInput)
	}
}

// register runs the registration sub-flow over the full history.
func (uc *ChatUseCase) register(ctx context.Context, history []*model.Message) (string, types.Step, error) {
	extract, err := uc.extractor.ExtractRegistration(ctx, history)
	if err != nil {
		return "", 0, goerr.Wrap(err, "registration extraction failed")
	}

	if !extract.IsNew && extract.HasIdentifier() {
		customer, err := uc.repo.Customer().Get(ctx, types.CustomerID(extract.Identifier))
		switch {
		case err == nil:
			return welcomeBackReply(customer), types.StepOpen, nil
		case isNotFound(err):
			return verifyIdentifierReply, types.StepRegistering, nil
		default:
			return "", 0, goerr.Wrap(err, "customer lookup failed", goerr.V("identifier", extract.Identifier))
		}
	}

	// Partial progress is saved every turn and fully replaced on the next
	// one. Malformed fields are dropped here so they never reach the
	// registry; the extractor's own reply keeps asking for them.
	if extract.HasIdentifier() {
		customer := model.NewCustomer(types.CustomerID(extract.Identifier), "", "", "")
		if model.ValidName(extract.FullName) {
			customer.FullName = extract.FullName
		}
		if model.ValidPhone(extract.Phone) {
			customer.Phone = extract.Phone
		}
		if model.ValidEmail(extract.Email) {
			customer.Email = extract.Email
		}
		if err := uc.repo.Customer().Put(ctx, customer); err != nil {
			return "", 0, goerr.Wrap(err, "customer upsert failed", goerr.V("identifier", extract.Identifier))
		}
	}

	if extract.IsComplete && extract.FieldsValid() {
		return extract.Reply, types.StepOpen, nil
	}
	return extract.Reply, types.StepRegistering, nil
}

// answerQuestion resolves the turn against the knowledge corpus, then has
// the model rephrase the grounded answer in the bot's voice.
func (uc *ChatUseCase) answerQuestion(ctx context.Context, userInput string) (string, types.Step, error) {
	answer, err := uc.knowledge.Answer(ctx, userInput)
	if err != nil {
		return "", 0, goerr.Wrap(err, "knowledge answer failed")
	}

	var sb strings.Builder
	if err := groundedAnswerPrompt.Execute(&sb, map[string]string{"Answer": answer}); err != nil {
		return "", 0, goerr.Wrap(err, "failed to render grounded answer prompt")
	}

	reply, err := uc.extractor.GenerateReply(ctx, uc.systemPrompt(sb.String()), userInput)
	return reply, types.StepGreeted, err
}

// commit appends the model reply and advances the step, in that order. The
// step write happens last so a failed append never advances the flow.
func (uc *ChatUseCase) commit(ctx context.Context, sessionID types.SessionID, reply string, next types.Step) error {
	conv := uc.repo.Conversation()
	if err := conv.AppendMessage(ctx, sessionID, model.NewMessage(types.RoleModel, reply)); err != nil {
		return goerr.Wrap(err, "failed to append model reply")
	}
	if err := conv.SetStep(ctx, sessionID, next); err != nil {
		return goerr.Wrap(err, "failed to set conversation step")
	}
	return nil
}

// apologize logs the cause, records the fixed apology as the model turn
// (best effort) and reports the turn as handled with the step unchanged.
func (uc *ChatUseCase) apologize(ctx context.Context, sessionID types.SessionID, step types.Step, cause error, msg string) (*TurnResult, error) {
	errutil.Handle(ctx, cause, msg)

	if err := uc.repo.Conversation().AppendMessage(ctx, sessionID, model.NewMessage(types.RoleModel, apologyReply)); err != nil {
		errutil.Handle(ctx, err, "failed to record apology reply")
	}

	return &TurnResult{SessionID: sessionID, Reply: apologyReply, Step: step}, nil
}

// systemPrompt appends the optional profile guidance to a base prompt.
func (uc *ChatUseCase) systemPrompt(base string) string {
	if uc.profile == nil {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	if uc.profile.Name != "" {
		fmt.Fprintf(&sb, "\nYour name is %s.\n", uc.profile.Name)
	}
	if uc.profile.Guidance != "" {
		sb.WriteString("\n# Additional guidance\n\n")
		sb.WriteString(uc.profile.Guidance)
		sb.WriteString("\n")
	}
	return sb.String()
}

// lastAssistantQuestion returns the model's latest message before the turn
// being handled, used as disambiguation context for intent classification.
func lastAssistantQuestion(history []*model.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == types.RoleModel {
			return history[i].Content
		}
	}
	return ""
}

func welcomeBackReply(customer *model.Customer) string {
	if customer.FullName != "" {
		return fmt.Sprintf("¡Bienvenido de nuevo, %s! ¿En qué puedo ayudarte hoy?", customer.FullName)
	}
	return "¡Bienvenido de nuevo! ¿En qué puedo ayudarte hoy?"
}

// isNotFound matches the not-found sentinel of either storage backend.
func isNotFound(err error) bool {
	return errors.Is(err, firestore.ErrNotFound) || errors.Is(err, memory.ErrNotFound)
}
