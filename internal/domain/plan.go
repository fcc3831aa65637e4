package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanKind type to distinguish workout plans from diet plans
type PlanKind string

const (
	PlanWorkout PlanKind = "workout"
	PlanDiet    PlanKind = "diet"
)

// PlanItem is one entry in a plan's ordered item list. Sets/reps apply to
// workout plans, the macro fields to diet plans; unused fields stay zero.
// Macro values are free-form strings, coerced to numbers at aggregation time.
type PlanItem struct {
	Name     string `bson:"name" json:"name"`
	Sets     int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps     int    `bson:"reps,omitempty" json:"reps,omitempty"`
	Protein  string `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs    string `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat      string `bson:"fat,omitempty" json:"fat,omitempty"`
	Calories string `bson:"calories,omitempty" json:"calories,omitempty"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Plan is a workout or diet template scoped to a relationship. Created and
// updated only by the coach half; read by both parties. Updates overwrite in
// place, there is no versioning and no delete.
type Plan struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RelationshipID string             `bson:"relationshipId" json:"relationshipId"`
	Kind           PlanKind           `bson:"kind" json:"kind"`
	Title          string             `bson:"title" json:"title"`
	Items          []PlanItem         `bson:"items" json:"items"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
