package service

import (
	"context"
	"errors"
	"fmt"

	"fitvibe/coach-app/internal/chat"
	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrOwnMessageSeen  = errors.New("sender cannot mark own message as seen")
)

// ChatService is the ordered, append-only message channel per relationship.
type ChatService interface {
	// Send appends a message with a server-assigned timestamp and seen=false,
	// then fans it out to live subscribers.
	Send(ctx context.Context, callerID primitive.ObjectID, relationshipID string, text string) (*domain.Message, error)
	// History returns the full channel ascending by sentAt.
	History(ctx context.Context, callerID primitive.ObjectID, relationshipID string) ([]domain.Message, error)
	// MarkSeen flips a message's seen flag. Only the non-sender may call it;
	// repeating the call is not an error.
	MarkSeen(ctx context.Context, callerID primitive.ObjectID, relationshipID string, messageID primitive.ObjectID) error
	// Subscribe attaches a live feed for the relationship. The returned
	// handle must be closed on every exit path of the consuming context.
	Subscribe(ctx context.Context, callerID primitive.ObjectID, relationshipID string) (*chat.Subscription, error)
}

// chatService implements the ChatService interface.
type chatService struct {
	messageRepo      repository.MessageRepository
	relationshipRepo repository.RelationshipRepository
	hub              *chat.Hub
}

// NewChatService creates a new instance of chatService.
func NewChatService(messageRepo repository.MessageRepository, relationshipRepo repository.RelationshipRepository, hub *chat.Hub) ChatService {
	return &chatService{
		messageRepo:      messageRepo,
		relationshipRepo: relationshipRepo,
		hub:              hub,
	}
}

// requireParty checks the caller is one half of an existing relationship.
// Chat stays readable after cancellation; the ledger record just has to
// exist.
func (s *chatService) requireParty(ctx context.Context, callerID primitive.ObjectID, relationshipID string) (*domain.Relationship, error) {
	coachID, clientID, err := domain.SplitRelationshipID(relationshipID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if callerID != coachID && callerID != clientID {
		return nil, ErrAccessDenied
	}

	rel, err := s.relationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return rel, nil
}

// Send stores and broadcasts a message.
func (s *chatService) Send(ctx context.Context, callerID primitive.ObjectID, relationshipID string, text string) (*domain.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}
	if _, err := s.requireParty(ctx, callerID, relationshipID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		RelationshipID: relationshipID,
		SenderID:       callerID,
		Text:           text,
	}
	msgID, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = msgID

	// Broadcast after the write commits; subscribers only ever see stored
	// messages, so a reconnecting client replays the same order.
	s.hub.Broadcast(relationshipID, *msg)
	return msg, nil
}

// History returns the ordered channel for a party.
func (s *chatService) History(ctx context.Context, callerID primitive.ObjectID, relationshipID string) ([]domain.Message, error) {
	if _, err := s.requireParty(ctx, callerID, relationshipID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByRelationship(ctx, relationshipID)
}

// MarkSeen transitions seen false->true for a message the caller did not
// author. Idempotent.
func (s *chatService) MarkSeen(ctx context.Context, callerID primitive.ObjectID, relationshipID string, messageID primitive.ObjectID) error {
	if _, err := s.requireParty(ctx, callerID, relationshipID); err != nil {
		return err
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.RelationshipID != relationshipID {
		return ErrMessageNotFound
	}
	if msg.SenderID == callerID {
		return ErrOwnMessageSeen
	}

	return s.messageRepo.MarkSeen(ctx, relationshipID, messageID)
}

// Subscribe attaches a live feed after the party check.
func (s *chatService) Subscribe(ctx context.Context, callerID primitive.ObjectID, relationshipID string) (*chat.Subscription, error) {
	if _, err := s.requireParty(ctx, callerID, relationshipID); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(relationshipID), nil
}
