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
	ErrTraineeNotFound      = errors.New("trainee user not found")
	ErrTrainerNotFound      = errors.New("trainer user not found")
	ErrNotATrainer          = errors.New("acting user does not have the trainer role")
	ErrTraineeFieldsMissing = errors.New("name, email, and password are required")
)

// TraineeOverview is a trainee enriched with the data a trainer's roster
// view needs: routines, recent workout history, and the latest
// body-composition entry.
type TraineeOverview struct {
	User            domain.User             `json:"user"`
	Routines        []domain.Routine        `json:"routines"`
	WorkoutLogs     []WorkoutLogDetail      `json:"workoutLogs"`
	LatestBodyComp  *domain.BodyComposition `json:"latestBodyComposition,omitempty"`
}

// WorkoutLogDetail pairs a log with its routine (when one was followed)
// and the exercises its set entries reference.
type WorkoutLogDetail struct {
	Log       domain.WorkoutLog `json:"log"`
	Routine   *domain.Routine   `json:"routine,omitempty"`
	Exercises []domain.Exercise `json:"exercises"`
}

// TrainerService covers the trainer-side roster operations: provisioning
// trainees and the multi-trainer bookkeeping.
type TrainerService interface {
	// CreateTrainee provisions a trainee account for the trainer. When the
	// email already belongs to a user, the TRAINEE role is unioned into the
	// existing role set and the trainer link is set; nothing is overwritten.
	CreateTrainee(ctx context.Context, trainerID primitive.ObjectID, name, email, password string) (*domain.User, error)
	GetTrainees(ctx context.Context, trainerID primitive.ObjectID) ([]TraineeOverview, error)
	// AddTrainerToTrainee links the trainer as an additional managing
	// trainer of the trainee (the primary link is untouched).
	AddTrainerToTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) error
	GetAllTrainers(ctx context.Context) ([]domain.User, error)
	GetUnassignedTrainees(ctx context.Context) ([]domain.User, error)
	// AddSelfAsTrainee unions the TRAINEE role into a trainer's own account
	// and self-links, so trainers can log their own workouts.
	AddSelfAsTrainee(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo     repository.UserRepository
	routineRepo  repository.RoutineRepository
	workoutRepo  repository.WorkoutLogRepository
	bodyCompRepo repository.BodyCompositionRepository
	exerciseRepo repository.ExerciseRepository
	policy       *AccessPolicy
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	routineRepo repository.RoutineRepository,
	workoutRepo repository.WorkoutLogRepository,
	bodyCompRepo repository.BodyCompositionRepository,
	exerciseRepo repository.ExerciseRepository,
	policy *AccessPolicy,
) TrainerService {
	return &trainerService{
		userRepo:     userRepo,
		routineRepo:  routineRepo,
		workoutRepo:  workoutRepo,
		bodyCompRepo: bodyCompRepo,
		exerciseRepo: exerciseRepo,
		policy:       policy,
	}
}

// requireTrainer loads the acting user and checks the TRAINER role.
func (s *trainerService) requireTrainer(ctx context.Context, trainerID primitive.ObjectID) (*domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, ErrNotATrainer
	}
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !s.policy.HasRole(trainer, domain.RoleTrainer) {
		return nil, ErrNotATrainer
	}
	return trainer, nil
}

// CreateTrainee provisions (or claims) a trainee account.
func (s *trainerService) CreateTrainee(ctx context.Context, trainerID primitive.ObjectID, name, email, password string) (*domain.User, error) {
	if _, err := s.requireTrainer(ctx, trainerID); err != nil {
		return nil, err
	}
	if name == "" || email == "" || password == "" {
		return nil, ErrTraineeFieldsMissing
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		// Existing account: union the TRAINEE role and set the trainer
		// link. Repeating the call with the same trainer is a no-op.
		if err := s.userRepo.AddRole(ctx, existing.ID, domain.RoleTrainee); err != nil {
			return nil, err
		}
		if err := s.userRepo.SetPrimaryTrainer(ctx, existing.ID, trainerID); err != nil {
			return nil, err
		}
		return s.userRepo.GetByID(ctx, existing.ID)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, ErrHashingFailed
	}

	trainee := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []domain.Role{domain.RoleTrainee},
		TrainerID:    &trainerID,
	}

	traineeID, err := s.userRepo.Create(ctx, trainee)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	trainee.ID = traineeID

	trainee.PasswordHash = ""
	return trainee, nil
}

// GetTrainees returns the trainer's roster, each trainee enriched with
// routines, workout history (most recent first, with routine and exercise
// detail) and only the latest body-composition entry.
func (s *trainerService) GetTrainees(ctx context.Context, trainerID primitive.ObjectID) ([]TraineeOverview, error) {
	if _, err := s.requireTrainer(ctx, trainerID); err != nil {
		return nil, err
	}

	trainees, err := s.userRepo.GetTraineesByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	overviews := make([]TraineeOverview, 0, len(trainees))
	for _, trainee := range trainees {
		trainee.PasswordHash = ""

		routines, err := s.routineRepo.GetByUserID(ctx, trainee.ID)
		if err != nil {
			return nil, err
		}

		logs, err := s.workoutRepo.GetByUserID(ctx, trainee.ID, 0)
		if err != nil {
			return nil, err
		}

		details, err := s.enrichWorkoutLogs(ctx, logs)
		if err != nil {
			return nil, err
		}

		overview := TraineeOverview{
			User:        trainee,
			Routines:    routines,
			WorkoutLogs: details,
		}

		latest, err := s.bodyCompRepo.GetLatestByUserID(ctx, trainee.ID)
		if err == nil {
			overview.LatestBodyComp = latest
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		overviews = append(overviews, overview)
	}

	return overviews, nil
}

// enrichWorkoutLogs attaches routine and exercise detail to raw logs.
func (s *trainerService) enrichWorkoutLogs(ctx context.Context, logs []domain.WorkoutLog) ([]WorkoutLogDetail, error) {
	details := make([]WorkoutLogDetail, 0, len(logs))
	for _, log := range logs {
		detail := WorkoutLogDetail{Log: log}

		if log.RoutineID != nil {
			routine, err := s.routineRepo.GetByID(ctx, *log.RoutineID)
			if err == nil {
				detail.Routine = routine
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			// A deleted routine leaves the log intact with no routine detail.
		}

		ids := make([]primitive.ObjectID, 0, len(log.Sets))
		seen := make(map[primitive.ObjectID]bool)
		for _, set := range log.Sets {
			if !seen[set.ExerciseID] {
				seen[set.ExerciseID] = true
				ids = append(ids, set.ExerciseID)
			}
		}
		exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		detail.Exercises = exercises

		details = append(details, detail)
	}
	return details, nil
}

// AddTrainerToTrainee links the trainer as an additional managing trainer.
func (s *trainerService) AddTrainerToTrainee(ctx context.Context, trainerID, traineeID primitive.ObjectID) error {
	if _, err := s.requireTrainer(ctx, trainerID); err != nil {
		return err
	}

	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTraineeNotFound
		}
		return err
	}
	if !trainee.IsTrainee() {
		return ErrTraineeNotFound
	}

	return s.userRepo.AddManagingTrainer(ctx, traineeID, trainerID)
}

// GetAllTrainers returns every TRAINER-role user.
func (s *trainerService) GetAllTrainers(ctx context.Context) ([]domain.User, error) {
	trainers, err := s.userRepo.GetByRole(ctx, domain.RoleTrainer)
	if err != nil {
		return nil, err
	}
	for i := range trainers {
		trainers[i].PasswordHash = ""
	}
	return trainers, nil
}

// GetUnassignedTrainees returns TRAINEE-role users with no primary trainer.
func (s *trainerService) GetUnassignedTrainees(ctx context.Context) ([]domain.User, error) {
	trainees, err := s.userRepo.GetUnassignedTrainees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range trainees {
		trainees[i].PasswordHash = ""
	}
	return trainees, nil
}

// AddSelfAsTrainee turns a trainer into their own trainee.
func (s *trainerService) AddSelfAsTrainee(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	if _, err := s.requireTrainer(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddRole(ctx, userID, domain.RoleTrainee); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetPrimaryTrainer(ctx, userID, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
