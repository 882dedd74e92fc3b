package repository

import (
	"context"

	"gym-coach-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// AddRole unions a role into the user's role set ($addToSet semantics).
	AddRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) error
	SetPrimaryTrainer(ctx context.Context, traineeID, trainerID primitive.ObjectID) error
	// AddManagingTrainer links an additional trainer to a trainee.
	AddManagingTrainer(ctx context.Context, traineeID, trainerID primitive.ObjectID) error
	GetTraineesByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	// GetUnassignedTrainees returns TRAINEE-role users with no primary trainer.
	GetUnassignedTrainees(ctx context.Context) ([]domain.User, error)
}

// ExerciseRepository defines the interface for interacting with the
// shared exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// GetAll returns the whole library ordered by name ascending.
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// RoutineRepository defines the interface for interacting with routines.
// A routine embeds its exercise prescriptions, so Create is atomic for the
// routine and all of its children.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	// GetAll returns routines newest-first.
	GetAll(ctx context.Context) ([]domain.Routine, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutLogRepository defines the interface for interacting with workout
// logs. Set entries are embedded, so Create is atomic.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	// GetByUserID returns the user's logs ordered by date descending,
	// optionally bounded to the most recent limit entries (limit <= 0 means all).
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error)
	// GetByUserIDAscending returns the user's logs ordered by date ascending.
	GetByUserIDAscending(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error)
}

// BodyCompositionRepository defines the interface for interacting with
// body-composition entries.
type BodyCompositionRepository interface {
	Create(ctx context.Context, entry *domain.BodyComposition) (primitive.ObjectID, error)
	// GetByUserIDAscending returns all entries for the user ordered by date ascending.
	GetByUserIDAscending(ctx context.Context, userID primitive.ObjectID) ([]domain.BodyComposition, error)
	// GetLatestByUserID returns the single most recent entry, or ErrNotFound.
	GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.BodyComposition, error)
}

// VideoUploadRepository defines the interface for interacting with
// exercise demo-video upload metadata.
type VideoUploadRepository interface {
	Create(ctx context.Context, upload *domain.VideoUpload) (primitive.ObjectID, error)
	GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.VideoUpload, error)
}
