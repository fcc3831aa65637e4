package service

import (
	"context"
	"errors"
	"fmt"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrCoachNotFound        = errors.New("coach user not found")
	ErrClientNotFound       = errors.New("client user not found")
	ErrNotACoach            = errors.New("user found but is not a coach")
	ErrNotAClient           = errors.New("user found but is not a client")
)

// SubscriptionService is the coach/client subscription ledger.
type SubscriptionService interface {
	// Subscribe upserts the relationship to active. Idempotent; the first
	// subscribe's createdAt survives any cancel/re-subscribe cycle.
	Subscribe(ctx context.Context, coachID, clientID, createdBy primitive.ObjectID) (*domain.Relationship, error)
	// Unsubscribe flips the relationship to canceled. Reports
	// ErrRelationshipNotFound if no record exists.
	Unsubscribe(ctx context.Context, coachID, clientID primitive.ObjectID) error
	ListClientsForCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Relationship, error)
	// ListCoachesForClient resolves each active relationship's coach to its
	// profile. A coach whose profile has been deleted is dropped from the
	// result, not surfaced as an error.
	ListCoachesForClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.CoachProfile, error)
	// GetRelationship returns the ledger record for a derived ID.
	GetRelationship(ctx context.Context, relationshipID string) (*domain.Relationship, error)
}

// subscriptionService implements the SubscriptionService interface.
type subscriptionService struct {
	relationshipRepo repository.RelationshipRepository
	userRepo         repository.UserRepository
	coachProfileRepo repository.CoachProfileRepository
	logger           *zap.Logger
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(
	relationshipRepo repository.RelationshipRepository,
	userRepo repository.UserRepository,
	coachProfileRepo repository.CoachProfileRepository,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		relationshipRepo: relationshipRepo,
		userRepo:         userRepo,
		coachProfileRepo: coachProfileRepo,
		logger:           logger,
	}
}

// Subscribe verifies both parties, then upserts the ledger record to active.
// The client's current search key is snapshotted onto the record for
// coach-side roster search; it is not re-synced on later renames.
func (s *subscriptionService) Subscribe(ctx context.Context, coachID, clientID, createdBy primitive.ObjectID) (*domain.Relationship, error) {
	if coachID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID and client ID are required", ErrValidation)
	}

	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrNotACoach
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrNotAClient
	}

	rel := &domain.Relationship{
		ID:              domain.DeriveRelationshipID(coachID, clientID),
		CoachID:         coachID,
		ClientID:        clientID,
		ClientSearchKey: client.SearchKey,
		CreatedBy:       createdBy,
	}
	if err := s.relationshipRepo.UpsertActive(ctx, rel); err != nil {
		return nil, err
	}

	// Reload so the caller sees the stored timestamps, in particular the
	// preserved createdAt on a re-subscribe.
	return s.relationshipRepo.GetByID(ctx, rel.ID)
}

// Unsubscribe cancels the relationship. Cancellation is a status flip; the
// record, its plans and its chat history remain.
func (s *subscriptionService) Unsubscribe(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return fmt.Errorf("%w: coach ID and client ID are required", ErrValidation)
	}

	err := s.relationshipRepo.Cancel(ctx, domain.DeriveRelationshipID(coachID, clientID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRelationshipNotFound
		}
		return err
	}
	return nil
}

// ListClientsForCoach returns the coach's active roster.
func (s *subscriptionService) ListClientsForCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Relationship, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach ID is required", ErrValidation)
	}
	return s.relationshipRepo.ListActiveByCoach(ctx, coachID)
}

// ListCoachesForClient resolves the client's active relationships to coach
// profiles. Partial failure is tolerated: a missing profile is logged and
// dropped so the remaining coaches still render.
func (s *subscriptionService) ListCoachesForClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.CoachProfile, error) {
	if clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: client ID is required", ErrValidation)
	}

	rels, err := s.relationshipRepo.ListActiveByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.CoachProfile, 0, len(rels))
	for _, rel := range rels {
		profile, err := s.coachProfileRepo.GetByCoachID(ctx, rel.CoachID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("dropping relationship with missing coach profile",
					zap.String("relationshipId", rel.ID),
					zap.String("coachId", rel.CoachID.Hex()),
				)
				continue
			}
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// GetRelationship returns the ledger record for a derived ID.
func (s *subscriptionService) GetRelationship(ctx context.Context, relationshipID string) (*domain.Relationship, error) {
	rel, err := s.relationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return rel, nil
}
