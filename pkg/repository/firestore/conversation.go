package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/merca-lab/mercabot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

type conversationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ConversationRepository = &conversationRepository{}

func newConversationRepository(client *firestore.Client) *conversationRepository {
	return &conversationRepository{client: client}
}

func (r *conversationRepository) conversationDoc(id types.SessionID) *firestore.DocumentRef {
	return r.client.Collection(r.collectionPrefix + conversationsCollection).Doc(id.String())
}

func (r *conversationRepository) messagesRef(id types.SessionID) *firestore.CollectionRef {
	return r.conversationDoc(id).Collection(messagesCollection)
}

// conversationDoc mirrors model.Conversation for storage
type conversationData struct {
	ID        string    `firestore:"id"`
	Step      int       `firestore:"step"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type messageData struct {
	ID        string    `firestore:"id"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

// ensureConversation creates the conversation head document in the open step
// if it does not exist yet. Turns are serialized per session by the caller,
// so check-then-create is safe here.
func (r *conversationRepository) ensureConversation(ctx context.Context, id types.SessionID) error {
	_, err := r.conversationDoc(id).Get(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return goerr.Wrap(err, "failed to get conversation from firestore", goerr.V("session_id", id))
	}

	conv := model.NewConversation(id)
	data := conversationData{
		ID:        conv.ID.String(),
		Step:      conv.Step.Int(),
		UpdatedAt: conv.UpdatedAt,
	}
	if _, err := r.conversationDoc(id).Set(ctx, data); err != nil {
		return goerr.Wrap(err, "failed to create conversation", goerr.V("session_id", id))
	}
	return nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, id types.SessionID, msg *model.Message) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session ID")
	}
	if msg == nil {
		return goerr.New("message is nil")
	}
	if err := msg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid message")
	}

	if err := r.ensureConversation(ctx, id); err != nil {
		return err
	}

	data := messageData{
		ID:        msg.ID.String(),
		Role:      msg.Role.String(),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	ref := r.messagesRef(id).Doc(msg.ID.String())
	if _, err := ref.Set(ctx, data); err != nil {
		return goerr.Wrap(err, "failed to append message",
			goerr.V("session_id", id),
			goerr.V("message_id", msg.ID))
	}
	return nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, id types.SessionID) ([]*model.Message, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session ID")
	}

	// Message IDs are UUIDv7, so the id field tie-breaks equal timestamps in
	// append order. The composite index is created by the migrate command.
	query := r.messagesRef(id).
		OrderBy("created_at", firestore.Asc).
		OrderBy("id", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	messages := make([]*model.Message, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("session_id", id))
		}

		var data messageData
		if err := doc.DataTo(&data); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("doc_id", doc.Ref.ID))
		}

		role, err := types.ParseRole(data.Role)
		if err != nil {
			return nil, goerr.Wrap(err, "stored message has invalid role", goerr.V("doc_id", doc.Ref.ID))
		}

		messages = append(messages, model.NewMessageFromData(
			types.MessageID(data.ID), role, data.Content, data.CreatedAt,
		))
	}

	return messages, nil
}

func (r *conversationRepository) SetStep(ctx context.Context, id types.SessionID, step types.Step) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session ID")
	}
	if !step.IsValid() {
		return goerr.New("invalid step", goerr.V("step", step.Int()))
	}

	data := conversationData{
		ID:        id.String(),
		Step:      step.Int(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := r.conversationDoc(id).Set(ctx, data); err != nil {
		return goerr.Wrap(err, "failed to set conversation step",
			goerr.V("session_id", id),
			goerr.V("step", step.Int()))
	}
	return nil
}

func (r *conversationRepository) GetStep(ctx context.Context, id types.SessionID) (types.Step, error) {
	if err := id.Validate(); err != nil {
		return types.StepOpen, goerr.Wrap(err, "invalid session ID")
	}

	doc, err := r.conversationDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.StepOpen, nil
		}
		return types.StepOpen, goerr.Wrap(err, "failed to get conversation from firestore", goerr.V("session_id", id))
	}

	var data conversationData
	if err := doc.DataTo(&data); err != nil {
		return types.StepOpen, goerr.Wrap(err, "failed to unmarshal conversation", goerr.V("session_id", id))
	}

	step, err := types.ParseStep(data.Step)
	if err != nil {
		return types.StepOpen, goerr.Wrap(err, "stored conversation has invalid step", goerr.V("session_id", id))
	}
	return step, nil
}
