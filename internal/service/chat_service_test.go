package service

import (
	"context"
	"testing"
	"time"

	"fitvibe/coach-app/internal/chat"
	"fitvibe/coach-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func chatFixture(t *testing.T) (svc ChatService, relRepo *fakeRelationshipRepo, hub *chat.Hub, coachID, clientID primitive.ObjectID, relID string) {
	t.Helper()
	coachID = primitive.NewObjectID()
	clientID = primitive.NewObjectID()
	relID = domain.DeriveRelationshipID(coachID, clientID)

	relRepo = newFakeRelationshipRepo()
	require.NoError(t, relRepo.UpsertActive(context.Background(), &domain.Relationship{
		ID:       relID,
		CoachID:  coachID,
		ClientID: clientID,
	}))

	hub = chat.NewHub()
	svc = NewChatService(&fakeMessageRepo{}, relRepo, hub)
	return svc, relRepo, hub, coachID, clientID, relID
}

func TestChatSend(t *testing.T) {
	ctx := context.Background()

	t.Run("stores with server timestamp and seen=false", func(t *testing.T) {
		svc, _, _, coachID, _, relID := chatFixture(t)

		msg, err := svc.Send(ctx, coachID, relID, "hello")
		require.NoError(t, err)
		assert.Equal(t, coachID, msg.SenderID)
		assert.False(t, msg.Seen)
		assert.False(t, msg.SentAt.IsZero())
	})

	t.Run("non-party is denied", func(t *testing.T) {
		svc, _, _, _, _, relID := chatFixture(t)

		_, err := svc.Send(ctx, primitive.NewObjectID(), relID, "hello")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		svc, _, _, coachID, _, relID := chatFixture(t)

		_, err := svc.Send(ctx, coachID, relID, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("broadcasts to live subscribers", func(t *testing.T) {
		svc, _, _, coachID, clientID, relID := chatFixture(t)

		sub, err := svc.Subscribe(ctx, clientID, relID)
		require.NoError(t, err)
		defer sub.Close()

		_, err = svc.Send(ctx, coachID, relID, "ping")
		require.NoError(t, err)

		select {
		case got := <-sub.C:
			assert.Equal(t, "ping", got.Text)
			assert.Equal(t, coachID, got.SenderID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the message")
		}
	})
}

func TestChatHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("ascending by send time", func(t *testing.T) {
		svc, _, _, coachID, clientID, relID := chatFixture(t)

		for _, text := range []string{"one", "two", "three"} {
			_, err := svc.Send(ctx, coachID, relID, text)
			require.NoError(t, err)
		}

		history, err := svc.History(ctx, clientID, relID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "one", history[0].Text)
		assert.Equal(t, "three", history[2].Text)
		assert.True(t, !history[1].SentAt.Before(history[0].SentAt))
	})

	t.Run("readable after cancellation", func(t *testing.T) {
		svc, relRepo, _, coachID, clientID, relID := chatFixture(t)

		_, err := svc.Send(ctx, coachID, relID, "before cancel")
		require.NoError(t, err)
		require.NoError(t, relRepo.Cancel(ctx, relID))

		history, err := svc.History(ctx, clientID, relID)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("missing relationship", func(t *testing.T) {
		svc, _, _, coachID, _, _ := chatFixture(t)
		otherRel := domain.DeriveRelationshipID(coachID, primitive.NewObjectID())

		_, err := svc.History(ctx, coachID, otherRel)
		assert.ErrorIs(t, err, ErrRelationshipNotFound)
	})
}

func TestChatMarkSeen(t *testing.T) {
	ctx := context.Background()

	t.Run("counterpart marks seen, idempotently", func(t *testing.T) {
		svc, _, _, coachID, clientID, relID := chatFixture(t)

		msg, err := svc.Send(ctx, coachID, relID, "hello")
		require.NoError(t, err)

		require.NoError(t, svc.MarkSeen(ctx, clientID, relID, msg.ID))
		require.NoError(t, svc.MarkSeen(ctx, clientID, relID, msg.ID))

		history, err := svc.History(ctx, clientID, relID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, history[0].Seen)
	})

	t.Run("sender cannot mark own message", func(t *testing.T) {
		svc, _, _, coachID, _, relID := chatFixture(t)

		msg, err := svc.Send(ctx, coachID, relID, "hello")
		require.NoError(t, err)

		err = svc.MarkSeen(ctx, coachID, relID, msg.ID)
		assert.ErrorIs(t, err, ErrOwnMessageSeen)
	})

	t.Run("message from another relationship reads as not found", func(t *testing.T) {
		svc, relRepo, _, coachID, clientID, relID := chatFixture(t)

		otherClient := primitive.NewObjectID()
		otherRel := domain.DeriveRelationshipID(coachID, otherClient)
		require.NoError(t, relRepo.UpsertActive(ctx, &domain.Relationship{ID: otherRel, CoachID: coachID, ClientID: otherClient}))

		msg, err := svc.Send(ctx, coachID, otherRel, "elsewhere")
		require.NoError(t, err)

		err = svc.MarkSeen(ctx, clientID, relID, msg.ID)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestChatSubscribeAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _, relID := chatFixture(t)

	_, err := svc.Subscribe(ctx, primitive.NewObjectID(), relID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
