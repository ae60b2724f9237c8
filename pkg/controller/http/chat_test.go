package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/repository/memory"
	"github.com/merca-lab/mercabot/pkg/usecase"

	server "github.com/merca-lab/mercabot/pkg/controller/http"
)

type stubExtractor struct {
	intent *model.IntentClassification
	reply  string
}

func (s *stubExtractor) ClassifyIntent(ctx context.Context, lastQuestion, userInput string) (*model.IntentClassification, error) {
	return s.intent, nil
}

func (s *stubExtractor) ExtractRegistration(ctx context.Context, history []*model.Message) (*model.RegistrationExtract, error) {
	return &model.RegistrationExtract{Reply: s.reply}, nil
}

func (s *stubExtractor) GenerateReply(ctx context.Context, systemPrompt, userInput string) (string, error) {
	return s.reply, nil
}

type stubKnowledge struct{}

func (s *stubKnowledge) Answer(ctx context.Context, question string) (string, error) {
	return "Domingos de 9:00 a 18:00.", nil
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	extractor := &stubExtractor{
		intent: &model.IntentClassification{Greeting: true},
		reply:  "¡Hola! ¿En qué puedo ayudarte?",
	}
	uc := usecase.New(memory.New(), extractor, &stubKnowledge{})

	srv, err := server.New(uc.Chat)
	gt.NoError(t, err).Required()
	return srv
}

func postChat(t *testing.T, srv *server.Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("new session is assigned when omitted", func(t *testing.T) {
		rec := postChat(t, srv, `{"message": "Hola"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var result usecase.TurnResult
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result)).Required()
		gt.String(t, result.SessionID.String()).NotEqual("")
		gt.String(t, result.Reply).NotEqual("")
	})

	t.Run("session id round-trips", func(t *testing.T) {
		rec := postChat(t, srv, `{"message": "Hola"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var first usecase.TurnResult
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first)).Required()

		rec = postChat(t, srv, `{"session_id": "`+first.SessionID.String()+`", "message": "Sigo aquí"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var second usecase.TurnResult
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second)).Required()
		gt.Value(t, second.SessionID).Equal(first.SessionID)
	})

	t.Run("empty message is a bad request", func(t *testing.T) {
		rec := postChat(t, srv, `{"message": "  "}`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		rec := postChat(t, srv, `{"message": `)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains("ok")
}
