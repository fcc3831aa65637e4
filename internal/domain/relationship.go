package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipStatus type for the subscription lifecycle
type RelationshipStatus string

const (
	RelationshipActive   RelationshipStatus = "active"
	RelationshipCanceled RelationshipStatus = "canceled"
)

// relationshipIDSeparator joins the two party IDs. ObjectID hex is [0-9a-f]
// only, so the separator can never appear inside an ID and the derived key
// is injective over the identifier space.
const relationshipIDSeparator = "_"

// Relationship is the subscription linking one coach to one client.
// At most one document exists per (coachId, clientId) pair; its _id is the
// derived relationship ID, so either party can address it without a lookup.
// Cancellation is a status flip, never a hard delete.
type Relationship struct {
	ID        string             `bson:"_id" json:"relationshipId"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Status    RelationshipStatus `bson:"status" json:"status"`

	// ClientSearchKey is snapshotted from the client's profile at subscribe
	// time so coaches can search their roster without a join. It is NOT
	// re-synced if the client later renames.
	ClientSearchKey string `bson:"clientSearchKey" json:"clientSearchKey"`

	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DeriveRelationshipID produces the deterministic key for a coach/client
// pair. Pure function, no I/O. Callers must validate both IDs are non-nil
// first, otherwise the result addresses an inaccessible record.
func DeriveRelationshipID(coachID, clientID primitive.ObjectID) string {
	return coachID.Hex() + relationshipIDSeparator + clientID.Hex()
}

// SplitRelationshipID recovers the two party IDs from a derived key.
func SplitRelationshipID(relationshipID string) (coachID, clientID primitive.ObjectID, err error) {
	parts := strings.Split(relationshipID, relationshipIDSeparator)
	if len(parts) != 2 {
		return primitive.NilObjectID, primitive.NilObjectID, errors.New("malformed relationship ID")
	}
	coachID, err = primitive.ObjectIDFromHex(parts[0])
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, errors.New("malformed coach ID in relationship ID")
	}
	clientID, err = primitive.ObjectIDFromHex(parts[1])
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, errors.New("malformed client ID in relationship ID")
	}
	return coachID, clientID, nil
}

// IsParty reports whether the given user is one half of the relationship.
func (r *Relationship) IsParty(userID primitive.ObjectID) bool {
	return r.CoachID == userID || r.ClientID == userID
}
