package repository

import (
	"context"

	"fitvibe/coach-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// UpdateName rewrites the name fields and the recomputed search key.
	UpdateName(ctx context.Context, id primitive.ObjectID, firstName, lastName, searchKey string) error
}

// RelationshipRepository manages the coach/client subscription ledger.
// Documents are keyed by the derived relationship ID.
type RelationshipRepository interface {
	// UpsertActive flips (or creates) the relationship to active. The
	// original createdAt is preserved when a prior record exists.
	UpsertActive(ctx context.Context, rel *domain.Relationship) error
	// Cancel sets status=canceled and bumps updatedAt. Returns ErrNotFound
	// if no record exists.
	Cancel(ctx context.Context, relationshipID string) error
	GetByID(ctx context.Context, relationshipID string) (*domain.Relationship, error)
	ListActiveByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Relationship, error)
	ListActiveByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error)
}

// PlanRepository stores workout and diet plans scoped to a relationship.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	ListByRelationship(ctx context.Context, relationshipID string, kind domain.PlanKind) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
}

// ProgressRepository is the per-client, per-day progress journal.
type ProgressRepository interface {
	// AppendToDay performs the upsert-by-date merge as a single atomic
	// update: meals and workouts are pushed onto the day's sequences,
	// weight is set only when non-nil, and the entry is created if absent.
	AppendToDay(ctx context.Context, clientID primitive.ObjectID, date string, meals []domain.Meal, workouts []domain.WorkoutLog, weight *float64) error
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressEntry, error)
	GetByDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.ProgressEntry, error)
}

// MessageRepository is the append-only chat log per relationship.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
	// ListByRelationship returns messages ascending by sentAt.
	ListByRelationship(ctx context.Context, relationshipID string) ([]domain.Message, error)
	// MarkSeen transitions seen false->true. Idempotent: marking an already
	// seen message is not an error.
	MarkSeen(ctx context.Context, relationshipID string, messageID primitive.ObjectID) error
}

// CoachProfileRepository stores the coach-facing editable profiles.
type CoachProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.CoachProfile) error
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error)
	List(ctx context.Context) ([]domain.CoachProfile, error)
	SetProfilePicture(ctx context.Context, coachID primitive.ObjectID, img *domain.ImageRef) error
	AddGalleryImage(ctx context.Context, coachID primitive.ObjectID, img domain.ImageRef) error
	RemoveGalleryImage(ctx context.Context, coachID primitive.ObjectID, storagePath string) error
}

// VideoRepository stores metadata for a coach's exercise video library.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.VideoAsset) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.VideoAsset, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.VideoAsset, error)
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error // Ensure coach owns the video
}

// AppointmentRepository stores a coach's schedule entries.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (primitive.ObjectID, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// MealBankRepository stores a client's reusable custom meals.
type MealBankRepository interface {
	Create(ctx context.Context, entry *domain.MealBankEntry) (primitive.ObjectID, error)
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.MealBankEntry, error)
}
