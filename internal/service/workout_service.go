package service

import (
	"context"
	"errors"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoExercisesLogged = errors.New("no exercises logged")
	ErrInvalidWeight     = errors.New("weight is required and must be positive")
)

// WorkoutExerciseInput is one exercise of a submitted workout with its
// performed sets.
type WorkoutExerciseInput struct {
	ExerciseID primitive.ObjectID `json:"exerciseId"`
	Sets       []WorkoutSetInput  `json:"sets"`
}

// WorkoutSetInput is a single performed set.
type WorkoutSetInput struct {
	SetNumber int     `json:"setNumber"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

// WorkoutService covers workout logging and body-composition entries.
type WorkoutService interface {
	// LogWorkout persists one workout log with all of its set entries
	// atomically. The routine reference is optional.
	LogWorkout(ctx context.Context, userID primitive.ObjectID, routineID *primitive.ObjectID, exercises []WorkoutExerciseInput) (*domain.WorkoutLog, error)
	// AddBodyComposition records a dated measurement snapshot. Multiple
	// entries per day are permitted.
	AddBodyComposition(ctx context.Context, userID primitive.ObjectID, weight float64, bodyFat, muscleMass *float64) (*domain.BodyComposition, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutLogRepository
	bodyCompRepo repository.BodyCompositionRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutLogRepository, bodyCompRepo repository.BodyCompositionRepository) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		bodyCompRepo: bodyCompRepo,
	}
}

// LogWorkout validates the submitted exercises and persists the log.
func (s *workoutService) LogWorkout(ctx context.Context, userID primitive.ObjectID, routineID *primitive.ObjectID, exercises []WorkoutExerciseInput) (*domain.WorkoutLog, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	// Flatten per-exercise sets into embedded entries. An empty exercise
	// list, or one where no exercise carries a set, is rejected before any
	// write.
	var entries []domain.WorkoutSetEntry
	for _, ex := range exercises {
		if ex.ExerciseID == primitive.NilObjectID {
			return nil, ErrNoExercisesLogged
		}
		for _, set := range ex.Sets {
			entries = append(entries, domain.WorkoutSetEntry{
				ExerciseID: ex.ExerciseID,
				SetNumber:  set.SetNumber,
				Reps:       set.Reps,
				Weight:     set.Weight,
			})
		}
	}
	if len(entries) == 0 {
		return nil, ErrNoExercisesLogged
	}

	log := &domain.WorkoutLog{
		UserID:    userID,
		RoutineID: routineID,
		Sets:      entries,
	}

	logID, err := s.workoutRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = logID
	return log, nil
}

// AddBodyComposition validates and records a measurement snapshot.
func (s *workoutService) AddBodyComposition(ctx context.Context, userID primitive.ObjectID, weight float64, bodyFat, muscleMass *float64) (*domain.BodyComposition, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if weight <= 0 {
		return nil, ErrInvalidWeight
	}

	entry := &domain.BodyComposition{
		UserID:     userID,
		Weight:     weight,
		BodyFat:    bodyFat,
		MuscleMass: muscleMass,
	}

	entryID, err := s.bodyCompRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}
