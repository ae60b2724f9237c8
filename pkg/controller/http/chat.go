package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/types"
	"github.com/merca-lab/mercabot/pkg/usecase"
	"github.com/merca-lab/mercabot/pkg/utils/errutil"
	"github.com/merca-lab/mercabot/pkg/utils/safe"
)

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// chatHandler runs one conversation turn. A request without a session ID
// starts a new session; the client carries the returned ID forward.
func chatHandler(chatUC *usecase.ChatUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
			return
		}

		sessionID := types.SessionID(req.SessionID)
		if sessionID == "" {
			sessionID = types.NewSessionID()
		}

		result, err := chatUC.HandleTurn(ctx, sessionID, req.Message)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, usecase.ErrEmptyMessage) || errors.Is(err, usecase.ErrInvalidSession) {
				status = http.StatusBadRequest
			}
			errutil.HandleHTTP(ctx, w, err, status)
			return
		}

		data, err := json.Marshal(result)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal chat response"), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		safe.Write(ctx, w, data)
	}
}
