package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User represents an account in the system (Coach, Client or Admin).
// Role is assigned at registration and immutable afterwards.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`

	// SearchKey is the normalized lowercase "first last" form of the name,
	// recomputed whenever the name fields change. Used for coach-side search.
	SearchKey string `bson:"searchKey" json:"searchKey"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// BuildSearchKey normalizes a first/last name pair into the search key form:
// lowercase, interior whitespace collapsed to single spaces, trimmed.
func BuildSearchKey(firstName, lastName string) string {
	joined := strings.ToLower(firstName + " " + lastName)
	return strings.Join(strings.Fields(joined), " ")
}
