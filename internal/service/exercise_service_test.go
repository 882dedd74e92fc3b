package service

import (
	"context"
	"strings"
	"testing"

	"gym-coach-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestExerciseService() (ExerciseService, *fakeExerciseRepo, *fakeVideoUploadRepo, *fakeFileStorage) {
	exerciseRepo := newFakeExerciseRepo()
	uploadRepo := newFakeVideoUploadRepo()
	fileStorage := &fakeFileStorage{}
	return NewExerciseService(exerciseRepo, uploadRepo, fileStorage), exerciseRepo, uploadRepo, fileStorage
}

func TestExerciseService_CreateExercise_DerivesBodyParts(t *testing.T) {
	svc, _, _, _ := newTestExerciseService()
	ctx := context.Background()
	actorID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(ctx, actorID, "Incline Press", "", "", nil, []string{"Pectoralis Major", "Triceps Brachii"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Chest", "Arms"}, exercise.BodyParts)
	assert.Equal(t, []string{"Pectoralis Major", "Triceps Brachii"}, exercise.Muscles)
	assert.Equal(t, actorID, exercise.CreatedBy)
}

func TestExerciseService_CreateExercise_DirectBodyPartsWin(t *testing.T) {
	svc, _, _, _ := newTestExerciseService()

	exercise, err := svc.CreateExercise(context.Background(), primitive.NewObjectID(),
		"Odd Lift", "", "", []string{"Full Body"}, []string{"Pectoralis Major"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Full Body"}, exercise.BodyParts, "explicit body parts override derivation")
}

func TestExerciseService_CreateExercise_RequiresName(t *testing.T) {
	svc, exerciseRepo, _, _ := newTestExerciseService()

	_, err := svc.CreateExercise(context.Background(), primitive.NewObjectID(), "", "", "", nil, nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, exerciseRepo.exercises)
}

func TestExerciseService_UpdateExercise(t *testing.T) {
	svc, _, _, _ := newTestExerciseService()
	ctx := context.Background()
	actorID := primitive.NewObjectID()

	created, err := svc.CreateExercise(ctx, actorID, "Press", "old", "", nil, []string{"Pectoralis Major"})
	require.NoError(t, err)

	updated, err := svc.UpdateExercise(ctx, actorID, created.ID, "Bench Press", "new", "", nil, []string{"Latissimus Dorsi"})
	require.NoError(t, err)

	assert.Equal(t, "Bench Press", updated.Name)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, []string{"Back"}, updated.BodyParts, "body parts re-derive from the new muscles")

	_, err = svc.UpdateExercise(ctx, actorID, primitive.NewObjectID(), "Ghost", "", "", nil, nil)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseService_GetExercises_SortedByName(t *testing.T) {
	svc, _, _, _ := newTestExerciseService()
	ctx := context.Background()
	actorID := primitive.NewObjectID()

	for _, name := range []string{"Squat", "Bench Press", "Row"} {
		_, err := svc.CreateExercise(ctx, actorID, name, "", "", []string{"Legs"}, nil)
		require.NoError(t, err)
	}

	exercises, err := svc.GetExercises(ctx)
	require.NoError(t, err)
	require.Len(t, exercises, 3)
	assert.Equal(t, "Bench Press", exercises[0].Name)
	assert.Equal(t, "Row", exercises[1].Name)
	assert.Equal(t, "Squat", exercises[2].Name)
}

func TestExerciseService_RequestVideoUploadURL(t *testing.T) {
	svc, _, _, _ := newTestExerciseService()
	ctx := context.Background()
	actorID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(ctx, actorID, "Squat", "", "", []string{"Legs"}, nil)
	require.NoError(t, err)

	resp, err := svc.RequestVideoUploadURL(ctx, actorID, exercise.ID, "video/mp4")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ObjectKey, "exercise-videos/"+exercise.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(resp.ObjectKey, ".mp4"))
	assert.Contains(t, resp.UploadURL, resp.ObjectKey)
}

func TestExerciseService_RequestVideoUploadURL_Rejections(t *testing.T) {
	svc, _, _, _ := newTestExerciseService()
	ctx := context.Background()
	actorID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(ctx, actorID, "Squat", "", "", []string{"Legs"}, nil)
	require.NoError(t, err)

	_, err = svc.RequestVideoUploadURL(ctx, actorID, exercise.ID, "image/png")
	assert.ErrorIs(t, err, ErrInvalidVideoType)

	_, err = svc.RequestVideoUploadURL(ctx, actorID, exercise.ID, "")
	assert.ErrorIs(t, err, ErrInvalidVideoType)

	_, err = svc.RequestVideoUploadURL(ctx, actorID, primitive.NewObjectID(), "video/mp4")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseService_ConfirmAndDownloadVideo(t *testing.T) {
	svc, _, uploadRepo, _ := newTestExerciseService()
	ctx := context.Background()
	actorID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(ctx, actorID, "Squat", "", "", []string{"Legs"}, nil)
	require.NoError(t, err)

	objectKey := "exercise-videos/" + exercise.ID.Hex() + "/demo.mp4"
	updated, err := svc.ConfirmVideoUpload(ctx, actorID, exercise.ID, objectKey, "demo.mp4", 1024, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, objectKey, updated.VideoURL)

	stored, err := uploadRepo.GetByExerciseID(ctx, exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, actorID, stored.UploaderID)
	assert.Equal(t, int64(1024), stored.Size)

	url, err := svc.GetVideoDownloadURL(ctx, exercise.ID)
	require.NoError(t, err)
	assert.Contains(t, url, objectKey)
}

func TestExerciseService_GetVideoDownloadURL_NoUpload(t *testing.T) {
	svc, _, _, _ := newTestExerciseService()

	_, err := svc.GetVideoDownloadURL(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNoVideoForExercise)
}

func TestBodyPartsForMuscles(t *testing.T) {
	cases := []struct {
		name    string
		muscles []string
		want    []string
	}{
		{"single group", []string{"Pectoralis Major", "Serratus Anterior"}, []string{"Chest"}},
		{"multiple groups", []string{"Latissimus Dorsi", "Quadriceps"}, []string{"Back", "Legs"}},
		{"unknown muscle ignored", []string{"Mystery Muscle"}, nil},
		{"empty input", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.BodyPartsForMuscles(tc.muscles)
			assert.Equal(t, tc.want, got)
		})
	}
}
