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

const appointmentCollectionName = "appointments"

// mongoAppointmentRepository implements repository.AppointmentRepository
type mongoAppointmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAppointmentRepository creates a new Appointment repository backed by MongoDB.
func NewMongoAppointmentRepository(db *mongo.Database) repository.AppointmentRepository {
	return &mongoAppointmentRepository{
		collection: db.Collection(appointmentCollectionName),
	}
}

// Create inserts a new schedule entry.
func (r *mongoAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (primitive.ObjectID, error) {
	if appt.CoachID == primitive.NilObjectID || appt.Title == "" {
		return primitive.NilObjectID, errors.New("appointment requires coachId and title")
	}

	appt.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, appt)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted appointment ID")
	}
	return insertedID, nil
}

// ListByCoach retrieves a coach's schedule ordered by start time.
func (r *mongoAppointmentRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	filter := bson.M{"coachId": coachID}
	findOptions := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return appts, nil
}

// Update overwrites the mutable fields of an appointment.
func (r *mongoAppointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	if appt.ID == primitive.NilObjectID {
		return errors.New("appointment ID is required for update")
	}

	filter := bson.M{"_id": appt.ID, "coachId": appt.CoachID}
	update := bson.M{
		"$set": bson.M{
			"clientId":  appt.ClientID,
			"title":     appt.Title,
			"startsAt":  appt.StartsAt,
			"endsAt":    appt.EndsAt,
			"notes":     appt.Notes,
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

// Delete removes an appointment; the coachId filter enforces ownership.
func (r *mongoAppointmentRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "coachId": coachID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAppointmentIndexes creates necessary indexes for the appointments collection.
func EnsureAppointmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "startsAt", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
