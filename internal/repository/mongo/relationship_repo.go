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

const relationshipCollectionName = "subscriptions"

// mongoRelationshipRepository implements repository.RelationshipRepository.
// The document _id is the derived relationship ID, so the (coachId, clientId)
// uniqueness invariant is enforced by the primary key itself.
type mongoRelationshipRepository struct {
	collection *mongo.Collection
}

// NewMongoRelationshipRepository creates a new Relationship repository backed by MongoDB.
func NewMongoRelationshipRepository(db *mongo.Database) repository.RelationshipRepository {
	return &mongoRelationshipRepository{
		collection: db.Collection(relationshipCollectionName),
	}
}

// UpsertActive flips the relationship to active, creating the document if it
// does not exist. createdAt is written only on insert, so re-subscribing
// after a cancellation preserves the original subscription time.
func (r *mongoRelationshipRepository) UpsertActive(ctx context.Context, rel *domain.Relationship) error {
	if rel.ID == "" || rel.CoachID == primitive.NilObjectID || rel.ClientID == primitive.NilObjectID {
		return errors.New("relationship ID, coach ID and client ID are required")
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": rel.ID}
	update := bson.M{
		"$set": bson.M{
			"status":          domain.RelationshipActive,
			"clientSearchKey": rel.ClientSearchKey,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"coachId":   rel.CoachID,
			"clientId":  rel.ClientID,
			"createdBy": rel.CreatedBy,
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Cancel sets status=canceled. The document is kept; cancellation is a
// status flip, not a removal.
func (r *mongoRelationshipRepository) Cancel(ctx context.Context, relationshipID string) error {
	filter := bson.M{"_id": relationshipID}
	update := bson.M{
		"$set": bson.M{
			"status":    domain.RelationshipCanceled,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByID retrieves a relationship by its derived ID.
func (r *mongoRelationshipRepository) GetByID(ctx context.Context, relationshipID string) (*domain.Relationship, error) {
	var rel domain.Relationship
	filter := bson.M{"_id": relationshipID}

	err := r.collection.FindOne(ctx, filter).Decode(&rel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// ListActiveByCoach retrieves all active relationships for a coach.
func (r *mongoRelationshipRepository) ListActiveByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Relationship, error) {
	return r.listActive(ctx, bson.M{"coachId": coachID, "status": domain.RelationshipActive})
}

// ListActiveByClient retrieves all active relationships for a client.
func (r *mongoRelationshipRepository) ListActiveByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error) {
	return r.listActive(ctx, bson.M{"clientId": clientID, "status": domain.RelationshipActive})
}

func (r *mongoRelationshipRepository) listActive(ctx context.Context, filter bson.M) ([]domain.Relationship, error) {
	var rels []domain.Relationship
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &rels); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return rels, nil
}

// EnsureRelationshipIndexes creates necessary indexes for the subscriptions collection.
func EnsureRelationshipIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			// Coach-side roster search over the snapshotted client name.
			Keys:    bson.D{{Key: "clientSearchKey", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
