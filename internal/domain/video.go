package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoAsset is an exercise video in a coach's library. Created and deleted
// only by the owning coach; visible to any client holding an active
// relationship with that coach (enforced by the service-level policy check,
// not by a store-level ACL).
type VideoAsset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name        string             `bson:"name" json:"name"`
	Tag         string             `bson:"tag,omitempty" json:"tag,omitempty"`
	MediaURL    string             `bson:"mediaUrl" json:"mediaUrl"`
	StoragePath string             `bson:"storagePath" json:"-"` // S3 object key, internal use
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
