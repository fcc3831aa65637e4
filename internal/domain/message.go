package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one chat message in a relationship's append-only channel.
// Immutable after creation except the Seen flag, which transitions
// false -> true exactly once, set by the non-sender. SentAt is assigned
// server-side; delivery order is non-decreasing SentAt.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RelationshipID string             `bson:"relationshipId" json:"relationshipId"`
	SenderID       primitive.ObjectID `bson:"senderId" json:"senderId"`
	Text           string             `bson:"text" json:"text"`
	Seen           bool               `bson:"seen" json:"seen"`
	SentAt         time.Time          `bson:"sentAt" json:"sentAt"`
}
