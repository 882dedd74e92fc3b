package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineExercise is one prescribed exercise inside a routine. It is
// embedded in the Routine document so the routine and its children persist
// as a single atomic insert.
type RoutineExercise struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       *int               `bson:"sets,omitempty" json:"sets,omitempty"` // Nil when the trainer left it open
	Reps       string             `bson:"reps,omitempty" json:"reps,omitempty"` // Plain count or free text like "12-15"
	Order      int                `bson:"order" json:"order"`                   // Zero-based, unique within the routine
}

// Routine is a named, ordered collection of exercise prescriptions assigned
// to one user (the trainee it targets, or the trainer who owns it as a
// template).
type Routine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Exercises   []RoutineExercise  `bson:"exercises" json:"exercises"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
