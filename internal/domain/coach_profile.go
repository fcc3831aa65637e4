package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageRef points at a blob in object storage. StoragePath is the owning
// reference: replacing or removing the image must also delete the blob,
// or the storage leaks.
type ImageRef struct {
	URL         string `bson:"url" json:"url"`
	StoragePath string `bson:"storagePath" json:"storagePath"`
}

// CoachProfile is the coach-facing editable profile shown to browsing
// clients. Mutated only by the owning coach.
type CoachProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID        primitive.ObjectID `bson:"coachId" json:"coachId"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	AboutMe        string             `bson:"aboutMe,omitempty" json:"aboutMe,omitempty"`
	ProfilePicture *ImageRef          `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Gallery        []ImageRef         `bson:"gallery,omitempty" json:"gallery,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
