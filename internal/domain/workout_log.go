package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutSetEntry records one actually-performed set. SetNumber is 1-based
// and unique within (log, exercise).
type WorkoutSetEntry struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetNumber  int                `bson:"setNumber" json:"setNumber"`
	Reps       int                `bson:"reps" json:"reps"`
	Weight     float64            `bson:"weight" json:"weight"`
}

// WorkoutLog is a record of one performed workout session. Set entries are
// embedded so the log and its children persist atomically.
type WorkoutLog struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	RoutineID *primitive.ObjectID `bson:"routineId,omitempty" json:"routineId,omitempty"` // Optional: free sessions have none
	Date      time.Time           `bson:"date" json:"date"`
	Sets      []WorkoutSetEntry   `bson:"sets" json:"sets"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
