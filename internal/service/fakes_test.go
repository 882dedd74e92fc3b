package service

import (
	"context"
	"sort"
	"time"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes mirroring the mongo repository behavior: timestamps set
// on create, ErrNotFound/ErrConflict semantics, sort orders.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	u := *user
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = &u
	return u.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) AddRole(_ context.Context, userID primitive.ObjectID, role domain.Role) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
	return nil
}

func (r *fakeUserRepo) SetPrimaryTrainer(_ context.Context, traineeID, trainerID primitive.ObjectID) error {
	u, ok := r.users[traineeID]
	if !ok {
		return repository.ErrNotFound
	}
	id := trainerID
	u.TrainerID = &id
	return nil
}

func (r *fakeUserRepo) AddManagingTrainer(_ context.Context, traineeID, trainerID primitive.ObjectID) error {
	u, ok := r.users[traineeID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, existing := range u.ManagingTrainerIDs {
		if existing == trainerID {
			return nil
		}
	}
	u.ManagingTrainerIDs = append(u.ManagingTrainerIDs, trainerID)
	return nil
}

func (r *fakeUserRepo) GetTraineesByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.HasRole(domain.RoleTrainee) && u.TrainerID != nil && *u.TrainerID == trainerID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.HasRole(role) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetUnassignedTrainees(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.HasRole(domain.RoleTrainee) && u.TrainerID == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

// seed inserts a user directly, bypassing duplicate checks.
func (r *fakeUserRepo) seed(user domain.User) primitive.ObjectID {
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = &user
	return user.ID
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	ex := *exercise
	ex.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	ex.CreatedAt = now
	ex.UpdatedAt = now
	r.exercises[ex.ID] = &ex
	return ex.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *ex
	return &copied, nil
}

func (r *fakeExerciseRepo) GetAll(_ context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, ex := range r.exercises {
		out = append(out, *ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, id := range ids {
		if ex, ok := r.exercises[id]; ok {
			out = append(out, *ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	ex := *exercise
	ex.UpdatedAt = time.Now().UTC()
	r.exercises[ex.ID] = &ex
	return nil
}

type fakeRoutineRepo struct {
	routines map[primitive.ObjectID]*domain.Routine
	order    []primitive.ObjectID
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{routines: make(map[primitive.ObjectID]*domain.Routine)}
}

func (r *fakeRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	rt := *routine
	rt.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	r.routines[rt.ID] = &rt
	r.order = append(r.order, rt.ID)
	return rt.ID, nil
}

func (r *fakeRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	rt, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rt
	return &copied, nil
}

func (r *fakeRoutineRepo) GetAll(_ context.Context) ([]domain.Routine, error) {
	out := make([]domain.Routine, 0, len(r.order))
	// Newest first.
	for i := len(r.order) - 1; i >= 0; i-- {
		if rt, ok := r.routines[r.order[i]]; ok {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (r *fakeRoutineRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	var out []domain.Routine
	for i := len(r.order) - 1; i >= 0; i-- {
		if rt, ok := r.routines[r.order[i]]; ok && rt.UserID == userID {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (r *fakeRoutineRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.routines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.routines, id)
	return nil
}

type fakeWorkoutLogRepo struct {
	logs []domain.WorkoutLog
}

func newFakeWorkoutLogRepo() *fakeWorkoutLogRepo {
	return &fakeWorkoutLogRepo{}
}

func (r *fakeWorkoutLogRepo) Create(_ context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if log.Date.IsZero() {
		log.Date = now
	}
	log.CreatedAt = now
	r.logs = append(r.logs, *log)
	return log.ID, nil
}

func (r *fakeWorkoutLogRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, l := range r.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeWorkoutLogRepo) GetByUserIDAscending(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, l := range r.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type fakeBodyCompRepo struct {
	entries []domain.BodyComposition
}

func newFakeBodyCompRepo() *fakeBodyCompRepo {
	return &fakeBodyCompRepo{}
}

func (r *fakeBodyCompRepo) Create(_ context.Context, entry *domain.BodyComposition) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = now
	}
	entry.CreatedAt = now
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeBodyCompRepo) GetByUserIDAscending(_ context.Context, userID primitive.ObjectID) ([]domain.BodyComposition, error) {
	var out []domain.BodyComposition
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeBodyCompRepo) GetLatestByUserID(_ context.Context, userID primitive.ObjectID) (*domain.BodyComposition, error) {
	var latest *domain.BodyComposition
	for i := range r.entries {
		e := r.entries[i]
		if e.UserID != userID {
			continue
		}
		if latest == nil || e.Date.After(latest.Date) {
			copied := e
			latest = &copied
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

type fakeVideoUploadRepo struct {
	uploads map[primitive.ObjectID]*domain.VideoUpload
}

func newFakeVideoUploadRepo() *fakeVideoUploadRepo {
	return &fakeVideoUploadRepo{uploads: make(map[primitive.ObjectID]*domain.VideoUpload)}
}

func (r *fakeVideoUploadRepo) Create(_ context.Context, upload *domain.VideoUpload) (primitive.ObjectID, error) {
	u := *upload
	u.ID = primitive.NewObjectID()
	u.UploadedAt = time.Now().UTC()
	r.uploads[u.ExerciseID] = &u
	return u.ID, nil
}

func (r *fakeVideoUploadRepo) GetByExerciseID(_ context.Context, exerciseID primitive.ObjectID) (*domain.VideoUpload, error) {
	u, ok := r.uploads[exerciseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeFileStorage struct {
	uploadErr   error
	downloadErr error
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, _ string) error {
	return nil
}
