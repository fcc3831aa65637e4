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

const progressCollectionName = "progress"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new Progress repository backed by MongoDB.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// AppendToDay merges into the client's entry for the given date as one
// atomic update: meals/workouts are pushed onto the existing sequences and
// the document is created if absent. Weight, when supplied, overwrites the
// stored value. Two concurrent first writes for a day can both take the
// insert path of the upsert; the unique (clientId, date) index rejects the
// loser with a duplicate key, so that case is retried once and lands as an
// append onto the winner's document.
func (r *mongoProgressRepository) AppendToDay(ctx context.Context, clientID primitive.ObjectID, date string, meals []domain.Meal, workouts []domain.WorkoutLog, weight *float64) error {
	if clientID == primitive.NilObjectID || date == "" {
		return errors.New("client ID and date are required")
	}

	filter := bson.M{"clientId": clientID, "date": date}

	set := bson.M{}
	if weight != nil {
		set["weight"] = *weight
	}
	push := bson.M{}
	if len(meals) > 0 {
		push["meals"] = bson.M{"$each": meals}
	}
	if len(workouts) > 0 {
		push["workouts"] = bson.M{"$each": workouts}
	}

	update := bson.M{
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
	}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// The document exists now, so the retry matches the filter.
		_, err = r.collection.UpdateOne(ctx, filter, update, opts)
	}
	return err
}

// ListByClient retrieves all progress entries for a client, ascending by
// date. The YYYY-MM-DD key sorts lexicographically in calendar order.
func (r *mongoProgressRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	var entries []domain.ProgressEntry
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByDate retrieves a single day's entry, or ErrNotFound.
func (r *mongoProgressRepository) GetByDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.ProgressEntry, error) {
	var entry domain.ProgressEntry
	filter := bson.M{"clientId": clientID, "date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// EnsureProgressIndexes creates necessary indexes for the progress collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One entry per (clientId, date); the unique index turns a
			// racing first-write upsert into a duplicate key, which
			// AppendToDay retries as a plain append.
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
