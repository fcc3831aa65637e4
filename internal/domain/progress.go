package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressDateLayout is the calendar-date format used to key progress
// entries. No time component; lexicographic order equals chronological order.
const ProgressDateLayout = "2006-01-02"

// Meal is one logged meal within a day's progress entry. The macro and
// calorie fields are free-form numeric strings as entered by the client;
// CoerceNumber turns them into numbers at aggregation time.
type Meal struct {
	Name     string `bson:"name" json:"name"`
	Protein  string `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs    string `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat      string `bson:"fat,omitempty" json:"fat,omitempty"`
	Calories string `bson:"calories,omitempty" json:"calories,omitempty"`
}

// ExerciseLog records completed counts for one exercise of a workout session.
type ExerciseLog struct {
	Name          string `bson:"name" json:"name"`
	SetsCompleted int    `bson:"setsCompleted" json:"setsCompleted"`
	RepsCompleted int    `bson:"repsCompleted" json:"repsCompleted"`
}

// WorkoutLog is one completed workout session within a day's progress entry.
// Repeated saves for the same workout accumulate duplicate records for the
// day. It is a log, not a snapshot.
type WorkoutLog struct {
	Title     string        `bson:"title" json:"title"`
	Exercises []ExerciseLog `bson:"exercises" json:"exercises"`
}

// ProgressEntry is one client's per-day log of meals, workouts and weight.
// Invariant: at most one entry per (clientId, date). Writes are
// upsert-by-date merges: meals and workouts are append-only sequences, and
// weight is overwritten only when a new value is supplied.
type ProgressEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date      string             `bson:"date" json:"date"` // YYYY-MM-DD
	Weight    *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Meals     []Meal             `bson:"meals" json:"meals"`
	Workouts  []WorkoutLog       `bson:"workouts" json:"workouts"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidProgressDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidProgressDate(s string) bool {
	_, err := time.Parse(ProgressDateLayout, s)
	return err == nil
}

// CoerceNumber parses a free-form numeric string into a float64. Missing or
// non-numeric values coerce to zero so that summation never propagates NaN.
func CoerceNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// MacroTotals is the aggregate of a meal sequence's macros and calories.
type MacroTotals struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// SumMacros aggregates the macro fields of a meal sequence, coercing each
// free-form value with CoerceNumber.
func SumMacros(meals []Meal) MacroTotals {
	var t MacroTotals
	for _, m := range meals {
		t.Protein += CoerceNumber(m.Protein)
		t.Carbs += CoerceNumber(m.Carbs)
		t.Fat += CoerceNumber(m.Fat)
		t.Calories += CoerceNumber(m.Calories)
	}
	return t
}

// MergeProgress applies the upsert-by-date merge to an existing entry:
// incoming meals and workouts are appended at the tail (existing order
// preserved), and weight is replaced only when the incoming value is present.
func MergeProgress(existing *ProgressEntry, meals []Meal, workouts []WorkoutLog, weight *float64) {
	existing.Meals = append(existing.Meals, meals...)
	existing.Workouts = append(existing.Workouts, workouts...)
	if weight != nil {
		existing.Weight = weight
	}
}

// SortProgressByDate orders entries ascending by date. Entries with a
// malformed date are excluded from the result.
func SortProgressByDate(entries []ProgressEntry) []ProgressEntry {
	out := make([]ProgressEntry, 0, len(entries))
	for _, e := range entries {
		if ValidProgressDate(e.Date) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
