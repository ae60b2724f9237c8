package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/domain/types"
	"github.com/merca-lab/mercabot/pkg/repository/memory"
	"github.com/merca-lab/mercabot/pkg/usecase"
)

type mockExtractor struct {
	intent     *model.IntentClassification
	intentErr  error
	extract    *model.RegistrationExtract
	extractErr error
	reply      string
	replyErr   error

	lastQuestion     string
	lastSystemPrompt string
	lastHistoryLen   int
}

func (m *mockExtractor) ClassifyIntent(ctx context.Context, lastQuestion, userInput string) (*model.IntentClassification, error) {
	m.lastQuestion = lastQuestion
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	return m.intent, nil
}

func (m *mockExtractor) ExtractRegistration(ctx context.Context, history []*model.Message) (*model.RegistrationExtract, error) {
	m.lastHistoryLen = len(history)
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.extract, nil
}

func (m *mockExtractor) GenerateReply(ctx context.Context, systemPrompt, userInput string) (string, error) {
	m.lastSystemPrompt = systemPrompt
	if m.replyErr != nil {
		return "", m.replyErr
	}
	return m.reply, nil
}

type mockKnowledge struct {
	answer string
	err    error
	asked  string
}

func (m *mockKnowledge) Answer(ctx context.Context, question string) (string, error) {
	m.asked = question
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func intentOf(greeting, asksForInfo, providesData bool) *model.IntentClassification {
	return &model.IntentClassification{
		Greeting:             greeting,
		AsksForInfo:          asksForInfo,
		ProvidesPersonalData: providesData,
	}
}

func TestHandleTurn_Greeting(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(true, false, false),
		reply:  "¡Hola! ¿Desea identificarse como cliente o necesita ayuda?",
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "Hola")
	gt.NoError(t, err).Required()

	gt.Value(t, result.Reply).Equal(extractor.reply)
	gt.Value(t, result.Step).Equal(types.StepGreeted)

	step, err := repo.Conversation().GetStep(ctx, sessionID)
	gt.NoError(t, err)
	gt.Value(t, step).Equal(types.StepGreeted)

	messages, err := repo.Conversation().ListMessages(ctx, sessionID)
	gt.NoError(t, err).Required()
	gt.Array(t, messages).Length(2)
	gt.Value(t, messages[0].Role).Equal(types.RoleUser)
	gt.Value(t, messages[0].Content).Equal("Hola")
	gt.Value(t, messages[1].Role).Equal(types.RoleModel)
}

func TestHandleTurn_AsksForInfoBeforeIdentifying(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(false, true, false),
		reply:  "¿Podría indicarme su número de identificación primero?",
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "¿Qué horarios tienen?")
	gt.NoError(t, err).Required()

	gt.Value(t, result.Reply).Equal(extractor.reply)
	gt.Value(t, result.Step).Equal(types.StepGreeted)
}

func TestHandleTurn_KnowledgeFallback(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(false, false, false),
		reply:  "Claro, abrimos los domingos de 9:00 a 18:00.",
	}
	knowledge := &mockKnowledge{answer: "Domingos de 9:00 a 18:00."}
	uc := usecase.New(repo, extractor, knowledge)

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "¿A qué hora abren los domingos?")
	gt.NoError(t, err).Required()

	gt.Value(t, knowledge.asked).Equal("¿A qué hora abren los domingos?")
	gt.String(t, extractor.lastSystemPrompt).Contains(knowledge.answer)
	gt.Value(t, result.Reply).Equal(extractor.reply)
	gt.Value(t, result.Step).Equal(types.StepGreeted)
}

func TestHandleTurn_ClassifierContextIsLastAssistantQuestion(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	sessionID := types.NewSessionID()

	gt.NoError(t, repo.Conversation().AppendMessage(ctx, sessionID, model.NewMessage(types.RoleUser, "Soy cliente")))
	gt.NoError(t, repo.Conversation().AppendMessage(ctx, sessionID, model.NewMessage(types.RoleModel, "¿Cuál es su identificación?")))

	extractor := &mockExtractor{
		intent: intentOf(true, false, false),
		reply:  "¡Hola!",
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	_, err := uc.Chat.HandleTurn(ctx, sessionID, "Hola de nuevo")
	gt.NoError(t, err).Required()
	gt.Value(t, extractor.lastQuestion).Equal("¿Cuál es su identificación?")
}

func TestHandleTurn_ExistingCustomerFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	gt.NoError(t, repo.Customer().Put(ctx, model.NewCustomer("123456789", "Ana Ruiz", "3001234567", "ana@example.com")))

	extractor := &mockExtractor{
		intent: intentOf(false, false, true),
		extract: &model.RegistrationExtract{
			Identifier: "123456789",
			IsNew:      false,
			Reply:      "unused",
		},
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "Soy cliente, mi cédula es 123456789")
	gt.NoError(t, err).Required()

	gt.String(t, result.Reply).Contains("Ana Ruiz")
	gt.Value(t, result.Step).Equal(types.StepOpen)
}

func TestHandleTurn_ExistingCustomerNotFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(false, false, true),
		extract: &model.RegistrationExtract{
			Identifier: "999999",
			IsNew:      false,
			Reply:      "unused",
		},
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "Soy cliente frecuente, 999999")
	gt.NoError(t, err).Required()

	gt.String(t, result.Reply).Contains("verificar")
	gt.Value(t, result.Step).Equal(types.StepRegistering)
}

func TestHandleTurn_NewCustomerComplete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(false, false, true),
		extract: &model.RegistrationExtract{
			Identifier: "999999",
			FullName:   "Ana Ruiz",
			Phone:      "3001234567",
			Email:      "ana@example.com",
			IsNew:      true,
			IsComplete: true,
			Reply:      "¡Listo Ana, tu registro quedó completo!",
		},
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "999999, Ana Ruiz, 3001234567, ana@example.com")
	gt.NoError(t, err).Required()

	gt.Value(t, result.Reply).Equal(extractor.extract.Reply)
	gt.Value(t, result.Step).Equal(types.StepOpen)

	customer, err := repo.Customer().Get(ctx, "999999")
	gt.NoError(t, err).Required()
	gt.Value(t, customer.FullName).Equal("Ana Ruiz")
	gt.Value(t, customer.Phone).Equal("3001234567")
	gt.Value(t, customer.Email).Equal("ana@example.com")
}

func TestHandleTurn_PartialRegistrationDropsMalformedFields(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(false, false, true),
		extract: &model.RegistrationExtract{
			Identifier: "999999",
			FullName:   "Ana Ruiz",
			Phone:      "2001234567", // first digit must be 3 or 6
			IsNew:      true,
			IsComplete: false,
			Reply:      "Ese teléfono no parece válido, ¿puedes revisarlo?",
		},
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "999999, Ana Ruiz, tel 2001234567")
	gt.NoError(t, err).Required()

	gt.Value(t, result.Step).Equal(types.StepRegistering)

	customer, err := repo.Customer().Get(ctx, "999999")
	gt.NoError(t, err).Required()
	gt.Value(t, customer.FullName).Equal("Ana Ruiz")
	gt.Value(t, customer.Phone).Equal("")
}

func TestHandleTurn_MalformedIdentifierNeverStored(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(false, false, true),
		extract: &model.RegistrationExtract{
			Identifier: "123", // under 4 digits
			IsNew:      true,
			Reply:      "Esa identificación no es válida, debe tener entre 4 y 11 dígitos.",
		},
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "mi cédula es 123")
	gt.NoError(t, err).Required()

	gt.Value(t, result.Step).Equal(types.StepRegistering)
	_, err = repo.Customer().Get(ctx, "123")
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
}

func TestHandleTurn_IncompleteFieldsIgnoreCompleteFlag(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{
		intent: intentOf(false, false, true),
		extract: &model.RegistrationExtract{
			Identifier: "999999",
			FullName:   "Ana Ruiz",
			IsNew:      true,
			IsComplete: true, // extractor is wrong: phone and email are missing
			Reply:      "Me falta tu teléfono y correo.",
		},
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "999999, Ana Ruiz")
	gt.NoError(t, err).Required()
	gt.Value(t, result.Step).Equal(types.StepRegistering)
}

func TestHandleTurn_StickyRegistrationStep(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	sessionID := types.NewSessionID()
	gt.NoError(t, repo.Conversation().SetStep(ctx, sessionID, types.StepRegistering))

	// The classifier mislabels the turn as an info request; the session must
	// stay in the registration sub-flow anyway.
	extractor := &mockExtractor{
		intent: intentOf(false, true, false),
		extract: &model.RegistrationExtract{
			Identifier: "999999",
			IsNew:      true,
			Reply:      "Gracias, ahora necesito tu nombre completo.",
		},
	}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	result, err := uc.Chat.HandleTurn(ctx, sessionID, "999999")
	gt.NoError(t, err).Required()

	gt.Value(t, result.Reply).Equal(extractor.extract.Reply)
	gt.Value(t, result.Step).Equal(types.StepRegistering)
	gt.Number(t, extractor.lastHistoryLen).Greater(0)
}

func TestHandleTurn_ClassifierFailureApologizes(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	sessionID := types.NewSessionID()
	gt.NoError(t, repo.Conversation().SetStep(ctx, sessionID, types.StepGreeted))

	extractor := &mockExtractor{intentErr: errors.New("model unavailable")}
	uc := usecase.New(repo, extractor, &mockKnowledge{})

	result, err := uc.Chat.HandleTurn(ctx, sessionID, "Hola")
	gt.NoError(t, err).Required()

	gt.String(t, result.Reply).Contains("Lo siento")
	gt.Value(t, result.Step).Equal(types.StepGreeted)

	// The user message survives the failed turn, followed by the apology.
	messages, err := repo.Conversation().ListMessages(ctx, sessionID)
	gt.NoError(t, err).Required()
	gt.Array(t, messages).Length(2)
	gt.Value(t, messages[0].Content).Equal("Hola")
	gt.Value(t, messages[1].Role).Equal(types.RoleModel)

	step, err := repo.Conversation().GetStep(ctx, sessionID)
	gt.NoError(t, err)
	gt.Value(t, step).Equal(types.StepGreeted)
}

func TestHandleTurn_KnowledgeFailureApologizes(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	extractor := &mockExtractor{intent: intentOf(false, false, false)}
	knowledge := &mockKnowledge{err: errors.New("corpus unavailable")}
	uc := usecase.New(repo, extractor, knowledge)

	sessionID := types.NewSessionID()
	result, err := uc.Chat.HandleTurn(ctx, sessionID, "¿Qué promociones tienen?")
	gt.NoError(t, err).Required()

	gt.String(t, result.Reply).Contains("Lo siento")
	gt.Value(t, result.Step).Equal(types.StepOpen)
}

func TestHandleTurn_EmptyInput(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New(), &mockExtractor{}, &mockKnowledge{})

	_, err := uc.Chat.HandleTurn(ctx, types.NewSessionID(), "   ")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrEmptyMessage)).True()
}

func TestHandleTurn_InvalidSession(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New(), &mockExtractor{}, &mockKnowledge{})

	_, err := uc.Chat.HandleTurn(ctx, "", "Hola")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidSession)).True()
}

func TestHandleTurn_ProfileGuidanceReachesPrompt(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{
		intent: intentOf(true, false, false),
		reply:  "¡Hola!",
	}
	uc := usecase.New(memory.New(), extractor, &mockKnowledge{},
		usecase.WithProfile(&model.BotProfile{
			Name:     "MercaBot",
			Guidance: "Menciona siempre el programa Suma y Gana.",
		}),
	)

	_, err := uc.Chat.HandleTurn(ctx, types.NewSessionID(), "Hola")
	gt.NoError(t, err).Required()
	gt.String(t, extractor.lastSystemPrompt).Contains("MercaBot")
	gt.String(t, extractor.lastSystemPrompt).Contains("Suma y Gana")
}
