package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the shared library.
// The library is global: every trainer works against the same catalog, and
// trainees see the exercises referenced by their routines.
//
// Muscles is the finer-grained source of truth; BodyParts may be supplied
// directly or derived as the union of the body-part groups implied by the
// selected muscles. Both tag sets are persisted.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"` // Plain URL or S3 object reference
	BodyParts   []string           `bson:"bodyParts,omitempty" json:"bodyParts,omitempty"`
	Muscles     []string           `bson:"muscles,omitempty" json:"muscles,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"` // Trainer who added it
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
