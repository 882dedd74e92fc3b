package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish user capabilities.
type Role string

// Define constants for roles.
const (
	RoleTrainer Role = "TRAINER"
	RoleTrainee Role = "TRAINEE"
)

// User represents a user in the system. Roles are a set, not a single
// value: registration grants TRAINEE by default, and a trainer creating a
// trainee record for an existing account unions TRAINEE into whatever
// roles the account already holds.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Email        string             `bson:"email" json:"email"`              // Should be unique
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"` // Never expose this via JSON
	Roles        []Role             `bson:"roles" json:"roles"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Primary trainer for a trainee. Nil means unassigned.
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`

	// Additional trainers managing this trainee beyond the primary link.
	ManagingTrainerIDs []primitive.ObjectID `bson:"managingTrainerIds,omitempty" json:"managingTrainerIds,omitempty"`
}

// HasRole reports whether the user's role set contains the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsTrainer() bool {
	return u.HasRole(RoleTrainer)
}

func (u *User) IsTrainee() bool {
	return u.HasRole(RoleTrainee)
}
