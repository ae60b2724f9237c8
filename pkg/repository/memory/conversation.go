package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/domain/types"
)

type conversationRepository struct {
	mu       sync.RWMutex
	steps    map[types.SessionID]types.Step
	messages map[types.SessionID][]*model.Message
}

var _ interfaces.ConversationRepository = &conversationRepository{}

func newConversationRepository() *conversationRepository {
	return &conversationRepository{
		steps:    make(map[types.SessionID]types.Step),
		messages: make(map[types.SessionID][]*model.Message),
	}
}

func (r *conversationRepository) AppendMessage(_ context.Context, id types.SessionID, msg *model.Message) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session ID")
	}
	if msg == nil {
		return goerr.New("message is nil")
	}
	if err := msg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid message")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.steps[id]; !ok {
		r.steps[id] = types.StepOpen
	}

	// Copy to avoid external mutation of the log
	copied := *msg
	r.messages[id] = append(r.messages[id], &copied)
	return nil
}

func (r *conversationRepository) ListMessages(_ context.Context, id types.SessionID) ([]*model.Message, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session ID")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.messages[id]
	result := make([]*model.Message, 0, len(msgs))
	for _, m := range msgs {
		copied := *m
		result = append(result, &copied)
	}
	return result, nil
}

func (r *conversationRepository) SetStep(_ context.Context, id types.SessionID, step types.Step) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session ID")
	}
	if !step.IsValid() {
		return goerr.New("invalid step", goerr.V("step", step.Int()))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[id] = step
	return nil
}

func (r *conversationRepository) GetStep(_ context.Context, id types.SessionID) (types.Step, error) {
	if err := id.Validate(); err != nil {
		return types.StepOpen, goerr.Wrap(err, "invalid session ID")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.steps[id], nil
}
