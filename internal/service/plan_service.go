package service

import (
	"context"
	"errors"
	"fmt"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound = errors.New("plan not found")
)

// PlanService stores workout and diet plans scoped to a relationship.
// Writes are restricted to the coach half of the relationship; both parties
// read. Plans accumulate; there is no delete.
type PlanService interface {
	CreatePlan(ctx context.Context, callerID primitive.ObjectID, relationshipID string, kind domain.PlanKind, title string, items []domain.PlanItem) (*domain.Plan, error)
	// ListPlans returns the relationship's plans of a kind. A party whose
	// relationship is canceled or was never created gets an empty list,
	// not an error; a caller who is no party at all is denied.
	ListPlans(ctx context.Context, callerID primitive.ObjectID, relationshipID string, kind domain.PlanKind) ([]domain.Plan, error)
	UpdatePlan(ctx context.Context, callerID primitive.ObjectID, relationshipID string, kind domain.PlanKind, planID primitive.ObjectID, title string, items []domain.PlanItem) (*domain.Plan, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo         repository.PlanRepository
	relationshipRepo repository.RelationshipRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, relationshipRepo repository.RelationshipRepository) PlanService {
	return &planService{
		planRepo:         planRepo,
		relationshipRepo: relationshipRepo,
	}
}

func validPlanKind(kind domain.PlanKind) bool {
	return kind == domain.PlanWorkout || kind == domain.PlanDiet
}

// requireCoachWrite checks that the caller is the coach half of an active
// relationship before allowing a write.
func (s *planService) requireCoachWrite(ctx context.Context, callerID primitive.ObjectID, relationshipID string) error {
	coachID, _, err := domain.SplitRelationshipID(relationshipID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if coachID != callerID {
		return ErrAccessDenied
	}

	rel, err := s.relationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRelationshipNotFound
		}
		return err
	}
	if rel.Status != domain.RelationshipActive {
		return ErrRelationshipNotFound
	}
	return nil
}

// CreatePlan creates a plan under the relationship. Coach only.
func (s *planService) CreatePlan(ctx context.Context, callerID primitive.ObjectID, relationshipID string, kind domain.PlanKind, title string, items []domain.PlanItem) (*domain.Plan, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: plan title is required", ErrValidation)
	}
	if !validPlanKind(kind) {
		return nil, fmt.Errorf("%w: unknown plan kind %q", ErrValidation, kind)
	}
	if err := s.requireCoachWrite(ctx, callerID, relationshipID); err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		RelationshipID: relationshipID,
		Kind:           kind,
		Title:          title,
		Items:          items,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, planID) // Fetch again to get stored timestamps
}

// ListPlans returns plans for both parties of the relationship. An absent or
// canceled relationship yields an empty list for its own parties; callers
// outside the pair are denied.
func (s *planService) ListPlans(ctx context.Context, callerID primitive.ObjectID, relationshipID string, kind domain.PlanKind) ([]domain.Plan, error) {
	if !validPlanKind(kind) {
		return nil, fmt.Errorf("%w: unknown plan kind %q", ErrValidation, kind)
	}
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
			return []domain.Plan{}, nil
		}
		return nil, err
	}
	if rel.Status != domain.RelationshipActive {
		return []domain.Plan{}, nil
	}

	return s.planRepo.ListByRelationship(ctx, relationshipID, kind)
}

// UpdatePlan overwrites a plan's title and items in place. Coach only.
func (s *planService) UpdatePlan(ctx context.Context, callerID primitive.ObjectID, relationshipID string, kind domain.PlanKind, planID primitive.ObjectID, title string, items []domain.PlanItem) (*domain.Plan, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: plan title is required", ErrValidation)
	}
	if planID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: plan ID is required", ErrValidation)
	}
	if err := s.requireCoachWrite(ctx, callerID, relationshipID); err != nil {
		return nil, err
	}

	existing, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if existing.RelationshipID != relationshipID || existing.Kind != kind {
		return nil, ErrPlanNotFound
	}

	existing.Title = title
	existing.Items = items
	if err := s.planRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return existing, nil
}
