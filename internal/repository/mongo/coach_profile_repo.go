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

const coachProfileCollectionName = "coach_profiles"

// mongoCoachProfileRepository implements repository.CoachProfileRepository
type mongoCoachProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoCoachProfileRepository creates a new CoachProfile repository backed by MongoDB.
func NewMongoCoachProfileRepository(db *mongo.Database) repository.CoachProfileRepository {
	return &mongoCoachProfileRepository{
		collection: db.Collection(coachProfileCollectionName),
	}
}

// Upsert writes the coach-editable text fields. The image slots are managed
// by their own methods and are not touched here.
func (r *mongoCoachProfileRepository) Upsert(ctx context.Context, profile *domain.CoachProfile) error {
	if profile.CoachID == primitive.NilObjectID {
		return errors.New("coach ID is required")
	}

	now := time.Now().UTC()
	filter := bson.M{"coachId": profile.CoachID}
	update := bson.M{
		"$set": bson.M{
			"firstName": profile.FirstName,
			"lastName":  profile.LastName,
			"email":     profile.Email,
			"phone":     profile.Phone,
			"location":  profile.Location,
			"aboutMe":   profile.AboutMe,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"coachId":   profile.CoachID,
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByCoachID retrieves a coach's profile.
func (r *mongoCoachProfileRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error) {
	var profile domain.CoachProfile
	filter := bson.M{"coachId": coachID}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// List retrieves all coach profiles for client-side browsing.
func (r *mongoCoachProfileRepository) List(ctx context.Context) ([]domain.CoachProfile, error) {
	var profiles []domain.CoachProfile
	findOptions := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SetProfilePicture replaces the single profile-picture slot. Passing nil
// clears it.
func (r *mongoCoachProfileRepository) SetProfilePicture(ctx context.Context, coachID primitive.ObjectID, img *domain.ImageRef) error {
	filter := bson.M{"coachId": coachID}

	var update bson.M
	if img == nil {
		update = bson.M{
			"$unset": bson.M{"profilePicture": ""},
			"$set":   bson.M{"updatedAt": time.Now().UTC()},
		}
	} else {
		update = bson.M{
			"$set": bson.M{
				"profilePicture": img,
				"updatedAt":      time.Now().UTC(),
			},
		}
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

// AddGalleryImage appends an image to the gallery slot.
func (r *mongoCoachProfileRepository) AddGalleryImage(ctx context.Context, coachID primitive.ObjectID, img domain.ImageRef) error {
	filter := bson.M{"coachId": coachID}
	update := bson.M{
		"$push": bson.M{"gallery": img},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
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

// RemoveGalleryImage pulls the entry that references the given storage path.
func (r *mongoCoachProfileRepository) RemoveGalleryImage(ctx context.Context, coachID primitive.ObjectID, storagePath string) error {
	filter := bson.M{"coachId": coachID}
	update := bson.M{
		"$pull": bson.M{"gallery": bson.M{"storagePath": storagePath}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
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

// EnsureCoachProfileIndexes creates necessary indexes for the coach_profiles collection.
func EnsureCoachProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
