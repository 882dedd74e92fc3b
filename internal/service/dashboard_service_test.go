package service

import (
	"context"
	"testing"
	"time"

	"gym-coach-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type dashboardFixture struct {
	userRepo     *fakeUserRepo
	routineRepo  *fakeRoutineRepo
	workoutRepo  *fakeWorkoutLogRepo
	bodyCompRepo *fakeBodyCompRepo
	exerciseRepo *fakeExerciseRepo
	svc          DashboardService
	trainerID    primitive.ObjectID
	traineeID    primitive.ObjectID
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		userRepo:     newFakeUserRepo(),
		routineRepo:  newFakeRoutineRepo(),
		workoutRepo:  newFakeWorkoutLogRepo(),
		bodyCompRepo: newFakeBodyCompRepo(),
		exerciseRepo: newFakeExerciseRepo(),
	}
	policy := NewAccessPolicy(nil)
	trainerSvc := NewTrainerService(f.userRepo, f.routineRepo, f.workoutRepo, f.bodyCompRepo, f.exerciseRepo, policy)
	routineSvc := NewRoutineService(f.routineRepo, f.exerciseRepo)
	f.svc = NewDashboardService(f.userRepo, f.workoutRepo, f.bodyCompRepo, f.exerciseRepo, trainerSvc, routineSvc, policy)

	f.trainerID = f.userRepo.seed(domain.User{
		Name:  "Coach",
		Email: "coach@example.com",
		Roles: []domain.Role{domain.RoleTrainer},
	})
	trainerID := f.trainerID
	f.traineeID = f.userRepo.seed(domain.User{
		Name:      "Tina",
		Email:     "tina@example.com",
		Roles:     []domain.Role{domain.RoleTrainee},
		TrainerID: &trainerID,
	})
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestDashboardService_TraineeDashboard(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	benchID, _ := f.exerciseRepo.Create(ctx, &domain.Exercise{Name: "Bench Press"})
	routineID, _ := f.routineRepo.Create(ctx, &domain.Routine{
		Name:      "Push Day",
		UserID:    f.traineeID,
		Exercises: []domain.RoutineExercise{{ExerciseID: benchID, Reps: "8"}},
	})

	_, err := f.bodyCompRepo.Create(ctx, &domain.BodyComposition{UserID: f.traineeID, Date: date(2026, 8, 1), Weight: 82})
	require.NoError(t, err)
	_, err = f.bodyCompRepo.Create(ctx, &domain.BodyComposition{UserID: f.traineeID, Date: date(2026, 8, 20), Weight: 80.5})
	require.NoError(t, err)

	// Seven logs; only the five most recent should surface.
	for day := 1; day <= 7; day++ {
		_, err := f.workoutRepo.Create(ctx, &domain.WorkoutLog{
			UserID:    f.traineeID,
			RoutineID: &routineID,
			Date:      date(2026, 8, day),
			Sets:      []domain.WorkoutSetEntry{{ExerciseID: benchID, SetNumber: 1, Reps: 8, Weight: 60}},
		})
		require.NoError(t, err)
	}

	data, err := f.svc.GetDashboardData(ctx, f.traineeID, domain.RoleTrainee)
	require.NoError(t, err)
	require.NotNil(t, data.Trainee)
	assert.Nil(t, data.Trainer)

	dashboard := data.Trainee
	assert.Equal(t, f.traineeID, dashboard.User.ID)
	assert.Empty(t, dashboard.User.PasswordHash)
	require.Len(t, dashboard.Routines, 1)

	require.NotNil(t, dashboard.LatestBodyComp)
	assert.Equal(t, 80.5, dashboard.LatestBodyComp.Weight)

	require.Len(t, dashboard.RecentLogs, 5)
	assert.Equal(t, date(2026, 8, 7), dashboard.RecentLogs[0].Log.Date, "most recent first")
	require.NotNil(t, dashboard.RecentLogs[0].Routine)
	assert.Equal(t, "Push Day", dashboard.RecentLogs[0].Routine.Name)
}

func TestDashboardService_TraineeDashboard_NoActivity(t *testing.T) {
	f := newDashboardFixture(t)

	data, err := f.svc.GetDashboardData(context.Background(), f.traineeID, domain.RoleTrainee)
	require.NoError(t, err)
	require.NotNil(t, data.Trainee)

	assert.Empty(t, data.Trainee.Routines)
	assert.Nil(t, data.Trainee.LatestBodyComp)
	assert.Empty(t, data.Trainee.RecentLogs)
}

func TestDashboardService_TraineeDashboard_ReflectsRoutineDeletion(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	benchID, _ := f.exerciseRepo.Create(ctx, &domain.Exercise{Name: "Bench Press"})
	routineID, _ := f.routineRepo.Create(ctx, &domain.Routine{
		Name:      "Push Day",
		UserID:    f.traineeID,
		Exercises: []domain.RoutineExercise{{ExerciseID: benchID}},
	})
	_, err := f.workoutRepo.Create(ctx, &domain.WorkoutLog{
		UserID:    f.traineeID,
		RoutineID: &routineID,
		Date:      date(2026, 8, 10),
		Sets:      []domain.WorkoutSetEntry{{ExerciseID: benchID, SetNumber: 1, Reps: 8, Weight: 60}},
	})
	require.NoError(t, err)

	require.NoError(t, f.routineRepo.Delete(ctx, routineID))

	data, err := f.svc.GetDashboardData(ctx, f.traineeID, domain.RoleTrainee)
	require.NoError(t, err)
	require.NotNil(t, data.Trainee)

	assert.Empty(t, data.Trainee.Routines, "deleted routine disappears from the dashboard")
	require.Len(t, data.Trainee.RecentLogs, 1)
	assert.Nil(t, data.Trainee.RecentLogs[0].Routine, "log survives but loses its routine detail")
}

func TestDashboardService_TrainerDashboard(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	_, err := f.exerciseRepo.Create(ctx, &domain.Exercise{Name: "Squat"})
	require.NoError(t, err)
	_, err = f.routineRepo.Create(ctx, &domain.Routine{
		Name:      "Own Program",
		UserID:    f.trainerID,
		Exercises: []domain.RoutineExercise{},
	})
	require.NoError(t, err)

	data, err := f.svc.GetDashboardData(ctx, f.trainerID, domain.RoleTrainer)
	require.NoError(t, err)
	require.NotNil(t, data.Trainer)
	assert.Nil(t, data.Trainee)

	dashboard := data.Trainer
	assert.Equal(t, 1, dashboard.TotalTrainees)
	assert.Equal(t, 1, dashboard.ActiveRoutines)
	require.Len(t, dashboard.Trainees, 1)
	assert.Equal(t, f.traineeID, dashboard.Trainees[0].User.ID)
	require.Len(t, dashboard.Exercises, 1)
	assert.Equal(t, "Squat", dashboard.Exercises[0].Name)
}

func TestDashboardService_GetDashboardData_Rejections(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.svc.GetDashboardData(context.Background(), primitive.NilObjectID, domain.RoleTrainee)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.GetDashboardData(context.Background(), f.traineeID, domain.Role("ADMIN"))
	assert.ErrorIs(t, err, ErrUnsupportedDashboardRole)
}

func TestDashboardService_Analytics_BodyCompositionAscending(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	bodyFat := 19.0
	// Inserted out of order; the series must come back date ascending.
	_, err := f.bodyCompRepo.Create(ctx, &domain.BodyComposition{UserID: f.traineeID, Date: date(2026, 8, 20), Weight: 80.5})
	require.NoError(t, err)
	_, err = f.bodyCompRepo.Create(ctx, &domain.BodyComposition{UserID: f.traineeID, Date: date(2026, 8, 1), Weight: 82, BodyFat: &bodyFat})
	require.NoError(t, err)

	analytics, err := f.svc.GetTraineeAnalytics(ctx, f.traineeID, primitive.NilObjectID, []domain.Role{domain.RoleTrainee})
	require.NoError(t, err)

	require.Len(t, analytics.BodyComposition, 2)
	assert.Equal(t, "2026-08-01", analytics.BodyComposition[0].Date)
	assert.Equal(t, 82.0, analytics.BodyComposition[0].Weight)
	require.NotNil(t, analytics.BodyComposition[0].BodyFat)
	assert.Equal(t, 19.0, *analytics.BodyComposition[0].BodyFat)
	assert.Equal(t, "2026-08-20", analytics.BodyComposition[1].Date)
}

func TestDashboardService_Analytics_StrengthMaxPerDay(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	benchID, _ := f.exerciseRepo.Create(ctx, &domain.Exercise{Name: "Bench Press"})

	// Three sets on one day: 50, 55, 52.5 collapse to a single 55 point.
	_, err := f.workoutRepo.Create(ctx, &domain.WorkoutLog{
		UserID: f.traineeID,
		Date:   date(2026, 8, 10),
		Sets: []domain.WorkoutSetEntry{
			{ExerciseID: benchID, SetNumber: 1, Reps: 8, Weight: 50},
			{ExerciseID: benchID, SetNumber: 2, Reps: 6, Weight: 55},
			{ExerciseID: benchID, SetNumber: 3, Reps: 8, Weight: 52.5},
		},
	})
	require.NoError(t, err)

	// A later day with a lighter session still gets its own point.
	_, err = f.workoutRepo.Create(ctx, &domain.WorkoutLog{
		UserID: f.traineeID,
		Date:   date(2026, 8, 17),
		Sets:   []domain.WorkoutSetEntry{{ExerciseID: benchID, SetNumber: 1, Reps: 10, Weight: 45}},
	})
	require.NoError(t, err)

	analytics, err := f.svc.GetTraineeAnalytics(ctx, f.traineeID, primitive.NilObjectID, []domain.Role{domain.RoleTrainee})
	require.NoError(t, err)

	series, ok := analytics.Strength["Bench Press"]
	require.True(t, ok)
	require.Len(t, series, 2)
	assert.Equal(t, StrengthPoint{Date: "2026-08-10", Weight: 55}, series[0])
	assert.Equal(t, StrengthPoint{Date: "2026-08-17", Weight: 45}, series[1])
}

func TestDashboardService_Analytics_BodyweightSessionsKeepPoint(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	pullUpID, _ := f.exerciseRepo.Create(ctx, &domain.Exercise{Name: "Pull Up"})

	// A day logged entirely at weight 0 still yields a point.
	_, err := f.workoutRepo.Create(ctx, &domain.WorkoutLog{
		UserID: f.traineeID,
		Date:   date(2026, 8, 12),
		Sets: []domain.WorkoutSetEntry{
			{ExerciseID: pullUpID, SetNumber: 1, Reps: 10, Weight: 0},
			{ExerciseID: pullUpID, SetNumber: 2, Reps: 8, Weight: 0},
		},
	})
	require.NoError(t, err)

	analytics, err := f.svc.GetTraineeAnalytics(ctx, f.traineeID, primitive.NilObjectID, []domain.Role{domain.RoleTrainee})
	require.NoError(t, err)

	series, ok := analytics.Strength["Pull Up"]
	require.True(t, ok)
	require.Len(t, series, 1)
	assert.Equal(t, StrengthPoint{Date: "2026-08-12", Weight: 0}, series[0])
}

func TestDashboardService_Analytics_SkipsRemovedExercises(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	// The logged exercise no longer exists in the library.
	_, err := f.workoutRepo.Create(ctx, &domain.WorkoutLog{
		UserID: f.traineeID,
		Date:   date(2026, 8, 10),
		Sets:   []domain.WorkoutSetEntry{{ExerciseID: primitive.NewObjectID(), SetNumber: 1, Reps: 8, Weight: 50}},
	})
	require.NoError(t, err)

	analytics, err := f.svc.GetTraineeAnalytics(ctx, f.traineeID, primitive.NilObjectID, []domain.Role{domain.RoleTrainee})
	require.NoError(t, err)
	assert.Empty(t, analytics.Strength)
}

func TestDashboardService_Analytics_AccessControl(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	strangerTrainerID := f.userRepo.seed(domain.User{
		Name:  "Stranger Coach",
		Email: "stranger@example.com",
		Roles: []domain.Role{domain.RoleTrainer},
	})
	otherTraineeID := f.userRepo.seed(domain.User{
		Name:  "Other",
		Email: "othertrainee@example.com",
		Roles: []domain.Role{domain.RoleTrainee},
	})

	// Assigned trainer may view their trainee.
	_, err := f.svc.GetTraineeAnalytics(ctx, f.trainerID, f.traineeID, []domain.Role{domain.RoleTrainer})
	assert.NoError(t, err)

	// An unassigned trainer may not.
	_, err = f.svc.GetTraineeAnalytics(ctx, strangerTrainerID, f.traineeID, []domain.Role{domain.RoleTrainer})
	assert.ErrorIs(t, err, ErrAnalyticsAccessDenied)

	// A trainee may not view another trainee, even a fellow one.
	_, err = f.svc.GetTraineeAnalytics(ctx, f.traineeID, otherTraineeID, []domain.Role{domain.RoleTrainee})
	assert.ErrorIs(t, err, ErrAnalyticsAccessDenied)

	// Unknown target resolves to the same denial, not a lookup error.
	_, err = f.svc.GetTraineeAnalytics(ctx, f.trainerID, primitive.NewObjectID(), []domain.Role{domain.RoleTrainer})
	assert.ErrorIs(t, err, ErrAnalyticsAccessDenied)

	// Nobody unauthenticated gets anything.
	_, err = f.svc.GetTraineeAnalytics(ctx, primitive.NilObjectID, f.traineeID, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestDashboardService_Analytics_ManagingTrainerLink(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	extraTrainerID := f.userRepo.seed(domain.User{
		Name:  "Extra Coach",
		Email: "extra@example.com",
		Roles: []domain.Role{domain.RoleTrainer},
	})
	require.NoError(t, f.userRepo.AddManagingTrainer(ctx, f.traineeID, extraTrainerID))

	_, err := f.svc.GetTraineeAnalytics(ctx, extraTrainerID, f.traineeID, []domain.Role{domain.RoleTrainer})
	assert.NoError(t, err, "an additional managing trainer has the same view access")
}
