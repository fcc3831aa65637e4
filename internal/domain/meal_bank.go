package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealBankEntry is a reusable custom meal saved by a client for quick
// logging. Plain append, no merge semantics.
type MealBankEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Meal      Meal               `bson:"meal" json:"meal"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
