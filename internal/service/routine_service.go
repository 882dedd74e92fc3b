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
	ErrRoutineNotFound      = errors.New("routine not found")
	ErrRoutineNameRequired  = errors.New("routine name is required")
	ErrNoExercisesInRoutine = errors.New("routine needs at least one exercise")
)

// RoutineDayInput is one day grouping of exercise prescriptions as the
// routine builder submits them. Day boundaries only affect ordering; the
// flattened sequence determines each prescription's order value.
type RoutineDayInput struct {
	Exercises []RoutineExerciseInput `json:"exercises"`
}

// RoutineExerciseInput is a single prescription. Sets is nil when the
// trainer left the count open; Reps is free text ("12-15" is valid).
type RoutineExerciseInput struct {
	ExerciseID primitive.ObjectID `json:"exerciseId"`
	Sets       *int               `json:"sets,omitempty"`
	Reps       string             `json:"reps,omitempty"`
}

// RoutineDetail pairs a routine with the library exercises it references.
type RoutineDetail struct {
	Routine   domain.Routine    `json:"routine"`
	Exercises []domain.Exercise `json:"exercises"`
}

// RoutineService covers routine creation, listing, and deletion.
type RoutineService interface {
	// CreateRoutine validates and persists a routine with all of its
	// prescriptions in one atomic write. The routine is assigned to
	// targetUserID when set, otherwise to the acting user.
	CreateRoutine(ctx context.Context, actorID primitive.ObjectID, name, description string, targetUserID primitive.ObjectID, days []RoutineDayInput) (*domain.Routine, error)
	GetRoutines(ctx context.Context) ([]RoutineDetail, error)
	GetRoutinesForUser(ctx context.Context, userID primitive.ObjectID) ([]RoutineDetail, error)
	// DeleteRoutine removes a routine by id. There is deliberately no
	// ownership check here; see DESIGN.md.
	DeleteRoutine(ctx context.Context, routineID primitive.ObjectID) error
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo  repository.RoutineRepository
	exerciseRepo repository.ExerciseRepository
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository, exerciseRepo repository.ExerciseRepository) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		exerciseRepo: exerciseRepo,
	}
}

// CreateRoutine validates the day groupings and persists the routine.
func (s *routineService) CreateRoutine(ctx context.Context, actorID primitive.ObjectID, name, description string, targetUserID primitive.ObjectID, days []RoutineDayInput) (*domain.Routine, error) {
	if actorID == primitive.NilObjectID {
		return nil, errors.New("acting user ID is required")
	}
	if name == "" {
		return nil, ErrRoutineNameRequired
	}

	// Flatten the day groupings; order is zero-based over the whole
	// sequence. Validation happens entirely before any write, so a bad
	// payload aborts with nothing persisted.
	var prescriptions []domain.RoutineExercise
	order := 0
	for _, day := range days {
		for _, input := range day.Exercises {
			if input.ExerciseID == primitive.NilObjectID {
				return nil, ErrValidationFailed
			}
			prescriptions = append(prescriptions, domain.RoutineExercise{
				ExerciseID: input.ExerciseID,
				Sets:       input.Sets,
				Reps:       input.Reps,
				Order:      order,
			})
			order++
		}
	}
	if len(prescriptions) == 0 {
		return nil, ErrNoExercisesInRoutine
	}

	targetID := targetUserID
	if targetID == primitive.NilObjectID {
		targetID = actorID
	}

	routine := &domain.Routine{
		Name:        name,
		Description: description,
		UserID:      targetID,
		Exercises:   prescriptions,
	}

	routineID, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	return s.routineRepo.GetByID(ctx, routineID)
}

// GetRoutines returns every routine newest-first with exercise detail.
func (s *routineService) GetRoutines(ctx context.Context) ([]RoutineDetail, error) {
	routines, err := s.routineRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, routines)
}

// GetRoutinesForUser returns a user's routines with exercise detail.
func (s *routineService) GetRoutinesForUser(ctx context.Context, userID primitive.ObjectID) ([]RoutineDetail, error) {
	routines, err := s.routineRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, routines)
}

// enrich attaches the referenced library exercises to each routine.
func (s *routineService) enrich(ctx context.Context, routines []domain.Routine) ([]RoutineDetail, error) {
	details := make([]RoutineDetail, 0, len(routines))
	for _, routine := range routines {
		ids := make([]primitive.ObjectID, 0, len(routine.Exercises))
		seen := make(map[primitive.ObjectID]bool)
		for _, re := range routine.Exercises {
			if !seen[re.ExerciseID] {
				seen[re.ExerciseID] = true
				ids = append(ids, re.ExerciseID)
			}
		}
		exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		details = append(details, RoutineDetail{Routine: routine, Exercises: exercises})
	}
	return details, nil
}

// DeleteRoutine removes a routine by id, unconditionally.
func (s *routineService) DeleteRoutine(ctx context.Context, routineID primitive.ObjectID) error {
	if routineID == primitive.NilObjectID {
		return ErrRoutineNotFound
	}
	err := s.routineRepo.Delete(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	return nil
}
