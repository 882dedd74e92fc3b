package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/repository"
	"gym-coach-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrValidationFailed   = errors.New("exercise validation failed")
	ErrInvalidVideoType   = errors.New("invalid or missing video content type")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
	ErrNoVideoForExercise = errors.New("exercise has no uploaded video")
)

// ExerciseService manages the shared exercise library, including the
// muscle-tag to body-part derivation and the S3 demo-video flow.
type ExerciseService interface {
	// CreateExercise adds a library entry. When bodyParts is empty, the
	// set is derived as the union of groups implied by the muscle tags.
	CreateExercise(ctx context.Context, actorID primitive.ObjectID, name, description, videoURL string, bodyParts, muscles []string) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, actorID, exerciseID primitive.ObjectID, name, description, videoURL string, bodyParts, muscles []string) (*domain.Exercise, error)
	GetExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)

	// Demo-video upload flow: request a presigned PUT URL, upload out of
	// band, then confirm with the object key to record metadata.
	RequestVideoUploadURL(ctx context.Context, actorID, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmVideoUpload(ctx context.Context, actorID, exerciseID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.Exercise, error)
	GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// UploadURLResponse carries the presigned URL and the object key the
// client must report back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	uploadRepo   repository.VideoUploadRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	uploadRepo repository.VideoUploadRepository,
	fileStorage storage.FileStorage,
) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		uploadRepo:   uploadRepo,
		fileStorage:  fileStorage,
	}
}

// resolveBodyParts applies the derivation rule: directly supplied body
// parts win; otherwise the union implied by the muscle tags is used.
func resolveBodyParts(bodyParts, muscles []string) []string {
	if len(bodyParts) > 0 {
		return bodyParts
	}
	return domain.BodyPartsForMuscles(muscles)
}

// CreateExercise handles the creation of a new library exercise.
func (s *exerciseService) CreateExercise(ctx context.Context, actorID primitive.ObjectID, name, description, videoURL string, bodyParts, muscles []string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Name:        name,
		Description: description,
		VideoURL:    videoURL,
		BodyParts:   resolveBodyParts(bodyParts, muscles),
		Muscles:     muscles,
		CreatedBy:   actorID,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again so timestamps set by the repository come back populated.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// UpdateExercise modifies an existing library exercise.
func (s *exerciseService) UpdateExercise(ctx context.Context, actorID, exerciseID primitive.ObjectID, name, description, videoURL string, bodyParts, muscles []string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if exerciseID == primitive.NilObjectID {
		return nil, ErrExerciseNotFound
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.VideoURL = videoURL
	existing.Muscles = muscles
	existing.BodyParts = resolveBodyParts(bodyParts, muscles)

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// GetExercises retrieves the full library, ordered by name ascending.
func (s *exerciseService) GetExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetAll(ctx)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// RequestVideoUploadURL generates a presigned PUT URL for a demo video.
func (s *exerciseService) RequestVideoUploadURL(ctx context.Context, actorID, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if exerciseID == primitive.NilObjectID {
		return nil, ErrExerciseNotFound
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return nil, ErrInvalidVideoType
	}

	// The exercise must exist before a video can be attached to it.
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("exercise-videos", exerciseID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmVideoUpload records upload metadata and stamps the exercise's
// video reference. Called after the client PUT the file to S3.
func (s *exerciseService) ConfirmVideoUpload(ctx context.Context, actorID, exerciseID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.Exercise, error) {
	if exerciseID == primitive.NilObjectID || objectKey == "" {
		return nil, ErrValidationFailed
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	upload := &domain.VideoUpload{
		ExerciseID:  exerciseID,
		UploaderID:  actorID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
	}

	if _, err := s.uploadRepo.Create(ctx, upload); err != nil {
		return nil, err
	}

	// The stored reference is the object key; viewers resolve it to a
	// presigned download URL on demand.
	exercise.VideoURL = objectKey
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// GetVideoDownloadURL resolves the exercise's uploaded video to a
// temporary presigned GET URL.
func (s *exerciseService) GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	upload, err := s.uploadRepo.GetByExerciseID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNoVideoForExercise
		}
		return "", err
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, upload.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return downloadURL, nil
}
