package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyComposition is a dated snapshot of a user's weight and optional
// body-fat / muscle-mass measurements. There is no uniqueness constraint on
// the date; multiple entries per day are allowed.
type BodyComposition struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Date       time.Time          `bson:"date" json:"date"`
	Weight     float64            `bson:"weight" json:"weight"`
	BodyFat    *float64           `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
	MuscleMass *float64           `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
