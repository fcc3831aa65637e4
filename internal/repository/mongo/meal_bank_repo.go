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

const mealBankCollectionName = "meal_bank"

// mongoMealBankRepository implements repository.MealBankRepository
type mongoMealBankRepository struct {
	collection *mongo.Collection
}

// NewMongoMealBankRepository creates a new MealBank repository backed by MongoDB.
func NewMongoMealBankRepository(db *mongo.Database) repository.MealBankRepository {
	return &mongoMealBankRepository{
		collection: db.Collection(mealBankCollectionName),
	}
}

// Create appends a reusable meal to the client's bank. No merge semantics.
func (r *mongoMealBankRepository) Create(ctx context.Context, entry *domain.MealBankEntry) (primitive.ObjectID, error) {
	if entry.ClientID == primitive.NilObjectID || entry.Meal.Name == "" {
		return primitive.NilObjectID, errors.New("meal bank entry requires clientId and meal name")
	}

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal bank ID")
	}
	return insertedID, nil
}

// ListByClient retrieves a client's saved meals, oldest first.
func (r *mongoMealBankRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.MealBankEntry, error) {
	var entries []domain.MealBankEntry
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

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

// EnsureMealBankIndexes creates necessary indexes for the meal_bank collection.
func EnsureMealBankIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
