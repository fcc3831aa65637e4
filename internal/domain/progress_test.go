package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, 42.5, CoerceNumber("42.5"))
	assert.Equal(t, 30.0, CoerceNumber(" 30 "))
	assert.Equal(t, 0.0, CoerceNumber(""))
	assert.Equal(t, 0.0, CoerceNumber("lots"))
	assert.Equal(t, -2.0, CoerceNumber("-2"))
}

func TestSumMacros(t *testing.T) {
	totals := SumMacros([]Meal{
		{Name: "breakfast", Protein: "30", Carbs: "50", Fat: "10", Calories: "400"},
		{Name: "lunch", Protein: "40.5", Carbs: "n/a", Fat: "", Calories: "600"},
	})

	assert.Equal(t, 70.5, totals.Protein)
	assert.Equal(t, 50.0, totals.Carbs)
	assert.Equal(t, 10.0, totals.Fat)
	assert.Equal(t, 1000.0, totals.Calories)

	assert.Equal(t, MacroTotals{}, SumMacros(nil))
}

func TestMergeProgress(t *testing.T) {
	t.Run("meals append in arrival order", func(t *testing.T) {
		entry := ProgressEntry{Date: "2026-03-01", Meals: []Meal{{Name: "A"}}}
		MergeProgress(&entry, []Meal{{Name: "B"}}, nil, nil)
		MergeProgress(&entry, []Meal{{Name: "C"}}, nil, nil)

		names := make([]string, len(entry.Meals))
		for i, m := range entry.Meals {
			names[i] = m.Name
		}
		assert.Equal(t, []string{"A", "B", "C"}, names)
	})

	t.Run("workouts accumulate duplicates", func(t *testing.T) {
		entry := ProgressEntry{Date: "2026-03-01"}
		log := WorkoutLog{Title: "Push Day", Exercises: []ExerciseLog{{Name: "Bench", SetsCompleted: 3, RepsCompleted: 8}}}
		MergeProgress(&entry, nil, []WorkoutLog{log}, nil)
		MergeProgress(&entry, nil, []WorkoutLog{log}, nil)

		assert.Len(t, entry.Workouts, 2)
	})

	t.Run("weight replaced only when supplied", func(t *testing.T) {
		oldWeight := 80.0
		entry := ProgressEntry{Date: "2026-03-01", Weight: &oldWeight}

		MergeProgress(&entry, []Meal{{Name: "snack"}}, nil, nil)
		assert.Equal(t, 80.0, *entry.Weight)

		newWeight := 79.2
		MergeProgress(&entry, nil, nil, &newWeight)
		assert.Equal(t, 79.2, *entry.Weight)
	})
}

func TestValidProgressDate(t *testing.T) {
	assert.True(t, ValidProgressDate("2026-03-01"))
	assert.False(t, ValidProgressDate("2026-13-01"))
	assert.False(t, ValidProgressDate("01-03-2026"))
	assert.False(t, ValidProgressDate("yesterday"))
	assert.False(t, ValidProgressDate(""))
}

func TestSortProgressByDate(t *testing.T) {
	entries := []ProgressEntry{
		{Date: "2026-03-15"},
		{Date: "garbage"},
		{Date: "2026-03-01"},
		{Date: "2025-12-31"},
	}

	sorted := SortProgressByDate(entries)

	dates := make([]string, len(sorted))
	for i, e := range sorted {
		dates[i] = e.Date
	}
	assert.Equal(t, []string{"2025-12-31", "2026-03-01", "2026-03-15"}, dates)
}
