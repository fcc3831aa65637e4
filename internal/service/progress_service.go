package service

import (
	"context"
	"errors"
	"fmt"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DaySummary is one day's entry together with its aggregated macros.
type DaySummary struct {
	Entry  domain.ProgressEntry `json:"entry"`
	Totals domain.MacroTotals   `json:"totals"`
}

// ProgressService is the per-client, per-day journal of meals, workouts and
// weight, plus the client's reusable meal bank.
type ProgressService interface {
	// RecordProgress appends meals for the day and conditionally overwrites
	// weight, via the atomic upsert-by-date merge.
	RecordProgress(ctx context.Context, clientID primitive.ObjectID, date string, meals []domain.Meal, weight *float64) error
	// RecordWorkoutProgress appends completed workouts to the day. No
	// dedup: repeated saves accumulate, it is a log and not a snapshot.
	RecordWorkoutProgress(ctx context.Context, clientID primitive.ObjectID, date string, workouts []domain.WorkoutLog) error
	// GetProgress returns the client's entries ascending by date; rows with
	// malformed dates are excluded.
	GetProgress(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressEntry, error)
	// GetProgressForDate returns one day's entry, or nil when absent.
	GetProgressForDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.ProgressEntry, error)
	// Summarize returns entries with per-day macro totals for charting.
	Summarize(ctx context.Context, clientID primitive.ObjectID) ([]DaySummary, error)

	SaveMealToBank(ctx context.Context, clientID primitive.ObjectID, meal domain.Meal) (*domain.MealBankEntry, error)
	ListMealBank(ctx context.Context, clientID primitive.ObjectID) ([]domain.MealBankEntry, error)
}

// progressService implements the ProgressService interface.
type progressService struct {
	progressRepo repository.ProgressRepository
	mealBankRepo repository.MealBankRepository
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(progressRepo repository.ProgressRepository, mealBankRepo repository.MealBankRepository) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		mealBankRepo: mealBankRepo,
	}
}

func validateDayWrite(clientID primitive.ObjectID, date string) error {
	if clientID == primitive.NilObjectID {
		return fmt.Errorf("%w: client ID is required", ErrValidation)
	}
	if !domain.ValidProgressDate(date) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrValidation, date)
	}
	return nil
}

// RecordProgress merges meals and weight into the client's entry for the
// date. Existing meals keep their order; new ones land at the tail. Weight
// is overwritten only when supplied.
func (s *progressService) RecordProgress(ctx context.Context, clientID primitive.ObjectID, date string, meals []domain.Meal, weight *float64) error {
	if err := validateDayWrite(clientID, date); err != nil {
		return err
	}
	for _, m := range meals {
		if m.Name == "" {
			return fmt.Errorf("%w: meal name is required", ErrValidation)
		}
	}
	if len(meals) == 0 && weight == nil {
		return fmt.Errorf("%w: nothing to record", ErrValidation)
	}

	return s.progressRepo.AppendToDay(ctx, clientID, date, meals, nil, weight)
}

// RecordWorkoutProgress appends completed workout records to the day.
func (s *progressService) RecordWorkoutProgress(ctx context.Context, clientID primitive.ObjectID, date string, workouts []domain.WorkoutLog) error {
	if err := validateDayWrite(clientID, date); err != nil {
		return err
	}
	if len(workouts) == 0 {
		return fmt.Errorf("%w: nothing to record", ErrValidation)
	}
	for _, w := range workouts {
		if w.Title == "" {
			return fmt.Errorf("%w: workout title is required", ErrValidation)
		}
	}

	return s.progressRepo.AppendToDay(ctx, clientID, date, nil, workouts, nil)
}

// GetProgress returns the journal ascending by date. The repository already
// sorts; the domain filter drops any legacy rows with malformed dates.
func (s *progressService) GetProgress(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	if clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: client ID is required", ErrValidation)
	}
	entries, err := s.progressRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return domain.SortProgressByDate(entries), nil
}

// GetProgressForDate returns one day's entry; absence is nil, not an error.
func (s *progressService) GetProgressForDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.ProgressEntry, error) {
	if err := validateDayWrite(clientID, date); err != nil {
		return nil, err
	}
	entry, err := s.progressRepo.GetByDate(ctx, clientID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Summarize pairs each entry with its macro totals. Free-form macro strings
// coerce to zero when missing or non-numeric, never to NaN.
func (s *progressService) Summarize(ctx context.Context, clientID primitive.ObjectID) ([]DaySummary, error) {
	entries, err := s.GetProgress(ctx, clientID)
	if err != nil {
		return nil, err
	}
	summaries := make([]DaySummary, len(entries))
	for i, e := range entries {
		summaries[i] = DaySummary{Entry: e, Totals: domain.SumMacros(e.Meals)}
	}
	return summaries, nil
}

// SaveMealToBank appends a reusable meal to the client's bank.
func (s *progressService) SaveMealToBank(ctx context.Context, clientID primitive.ObjectID, meal domain.Meal) (*domain.MealBankEntry, error) {
	if clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: client ID is required", ErrValidation)
	}
	if meal.Name == "" {
		return nil, fmt.Errorf("%w: meal name is required", ErrValidation)
	}

	entry := &domain.MealBankEntry{ClientID: clientID, Meal: meal}
	entryID, err := s.mealBankRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// ListMealBank returns the client's saved meals.
func (s *progressService) ListMealBank(ctx context.Context, clientID primitive.ObjectID) ([]domain.MealBankEntry, error) {
	if clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: client ID is required", ErrValidation)
	}
	return s.mealBankRepo.ListByClient(ctx, clientID)
}
