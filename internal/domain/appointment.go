package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment is one entry in a coach's schedule, optionally tied to a
// specific client.
type Appointment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID  `bson:"coachId" json:"coachId"`
	ClientID  *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Title     string              `bson:"title" json:"title"`
	StartsAt  time.Time           `bson:"startsAt" json:"startsAt"`
	EndsAt    time.Time           `bson:"endsAt" json:"endsAt"`
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
