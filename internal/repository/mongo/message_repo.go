package mongo

import (
	"context"
	"errors"
	"time"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messageCollectionName = "messages"

// mongoMessageRepository implements repository.MessageRepository
type mongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new Message repository backed by MongoDB.
func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messageCollectionName),
	}
}

// Create appends a message to the relationship's channel. SentAt is assigned
// here, server-side; callers must not supply it.
func (r *mongoMessageRepository) Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	if msg.RelationshipID == "" || msg.SenderID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("message requires relationshipId and senderId")
	}

	msg.ID = primitive.NewObjectID()
	msg.SentAt = time.Now().UTC()
	msg.Seen = false

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted message ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single message.
func (r *mongoMessageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	var msg domain.Message
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListByRelationship retrieves the full channel ascending by sentAt.
func (r *mongoMessageRepository) ListByRelationship(ctx context.Context, relationshipID string) ([]domain.Message, error) {
	var messages []domain.Message
	filter := bson.M{"relationshipId": relationshipID}
	findOptions := options.Find().SetSort(bson.D{{Key: "sentAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkSeen flips the seen flag to true. The transition is one-way and
// idempotent: a message that is already seen matches the filter too, so a
// repeated call succeeds without modifying anything.
func (r *mongoMessageRepository) MarkSeen(ctx context.Context, relationshipID string, messageID primitive.ObjectID) error {
	filter := bson.M{"_id": messageID, "relationshipId": relationshipID}
	update := bson.M{"$set": bson.M{"seen": true}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMessageIndexes creates necessary indexes for the messages collection.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "relationshipId", Value: 1}, {Key: "sentAt", Value: 1}},
			Options: options.Index(),
		},
		{
			// Unread-count queries per relationship.
			Keys:    bson.D{{Key: "relationshipId", Value: 1}, {Key: "seen", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
