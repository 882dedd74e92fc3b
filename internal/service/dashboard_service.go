package service

import (
	"context"
	"errors"
	"sort"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUnauthenticated          = errors.New("not authenticated")
	ErrAnalyticsAccessDenied    = errors.New("access denied to this user's analytics")
	ErrDashboardUserNotFound    = errors.New("dashboard user not found")
	ErrUnsupportedDashboardRole = errors.New("unsupported dashboard role")
)

// TrainerDashboard is the trainer-facing dashboard payload. No
// pagination; rosters are expected to stay small.
type TrainerDashboard struct {
	TotalTrainees  int               `json:"totalTrainees"`
	ActiveRoutines int               `json:"activeRoutines"`
	Routines       []RoutineDetail   `json:"routines"`
	Exercises      []domain.Exercise `json:"exercises"`
	Trainees       []TraineeOverview `json:"trainees"`
}

// TraineeDashboard is the trainee-facing dashboard payload. RecentLogs
// holds the five most recent workout logs so the UI can detect whether
// today's session was already logged.
type TraineeDashboard struct {
	User           domain.User             `json:"user"`
	Routines       []RoutineDetail         `json:"routines"`
	LatestBodyComp *domain.BodyComposition `json:"latestBodyComposition,omitempty"`
	RecentLogs     []WorkoutLogDetail      `json:"recentLogs"`
}

// DashboardData wraps the role-specific payloads; exactly one side is set.
type DashboardData struct {
	Trainer *TrainerDashboard `json:"trainer,omitempty"`
	Trainee *TraineeDashboard `json:"trainee,omitempty"`
}

// BodyCompPoint is one point of the body-composition series.
type BodyCompPoint struct {
	Date       string   `json:"date"` // YYYY-MM-DD
	Weight     float64  `json:"weight"`
	BodyFat    *float64 `json:"bodyFat,omitempty"`
	MuscleMass *float64 `json:"muscleMass,omitempty"`
}

// StrengthPoint is one point of a per-exercise strength series: the best
// weight lifted on that calendar day.
type StrengthPoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Weight float64 `json:"weight"`
}

// TraineeAnalytics aggregates a trainee's measurement history into the two
// chart series the analytics view renders.
type TraineeAnalytics struct {
	BodyComposition []BodyCompPoint            `json:"bodyComposition"`
	Strength        map[string][]StrengthPoint `json:"strength"` // Keyed by exercise name
}

// DashboardService composes domain-operation results into role-specific
// dashboard payloads and derived analytics.
type DashboardService interface {
	GetDashboardData(ctx context.Context, userID primitive.ObjectID, role domain.Role) (*DashboardData, error)
	// GetTraineeAnalytics builds the analytics series for targetUserID.
	// The actor may view their own analytics; a trainer may view a trainee
	// they are assigned to (primary or additional link).
	GetTraineeAnalytics(ctx context.Context, actorID, targetUserID primitive.ObjectID, actorRoles []domain.Role) (*TraineeAnalytics, error)
}

// dashboardService implements the DashboardService interface.
type dashboardService struct {
	userRepo     repository.UserRepository
	workoutRepo  repository.WorkoutLogRepository
	bodyCompRepo repository.BodyCompositionRepository
	exerciseRepo repository.ExerciseRepository
	trainerSvc   TrainerService
	routineSvc   RoutineService
	policy       *AccessPolicy
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutLogRepository,
	bodyCompRepo repository.BodyCompositionRepository,
	exerciseRepo repository.ExerciseRepository,
	trainerSvc TrainerService,
	routineSvc RoutineService,
	policy *AccessPolicy,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		workoutRepo:  workoutRepo,
		bodyCompRepo: bodyCompRepo,
		exerciseRepo: exerciseRepo,
		trainerSvc:   trainerSvc,
		routineSvc:   routineSvc,
		policy:       policy,
	}
}

// GetDashboardData branches on the requested role.
func (s *dashboardService) GetDashboardData(ctx context.Context, userID primitive.ObjectID, role domain.Role) (*DashboardData, error) {
	if userID == primitive.NilObjectID {
		return nil, ErrUnauthenticated
	}

	switch role {
	case domain.RoleTrainer:
		dashboard, err := s.trainerDashboard(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &DashboardData{Trainer: dashboard}, nil
	case domain.RoleTrainee:
		dashboard, err := s.traineeDashboard(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &DashboardData{Trainee: dashboard}, nil
	default:
		return nil, ErrUnsupportedDashboardRole
	}
}

func (s *dashboardService) trainerDashboard(ctx context.Context, trainerID primitive.ObjectID) (*TrainerDashboard, error) {
	trainees, err := s.trainerSvc.GetTrainees(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	routines, err := s.routineSvc.GetRoutinesForUser(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &TrainerDashboard{
		TotalTrainees:  len(trainees),
		ActiveRoutines: len(routines),
		Routines:       routines,
		Exercises:      exercises,
		Trainees:       trainees,
	}, nil
}

func (s *dashboardService) traineeDashboard(ctx context.Context, userID primitive.ObjectID) (*TraineeDashboard, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDashboardUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""

	routines, err := s.routineSvc.GetRoutinesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &TraineeDashboard{
		User:     *user,
		Routines: routines,
	}

	latest, err := s.bodyCompRepo.GetLatestByUserID(ctx, userID)
	if err == nil {
		dashboard.LatestBodyComp = latest
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// The five most recent logs let the UI detect "already logged today".
	logs, err := s.workoutRepo.GetByUserID(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	recent := make([]WorkoutLogDetail, 0, len(logs))
	for _, log := range logs {
		detail := WorkoutLogDetail{Log: log}
		if log.RoutineID != nil {
			// The user's routines are already loaded; match in memory.
			for i := range routines {
				if routines[i].Routine.ID == *log.RoutineID {
					r := routines[i].Routine
					detail.Routine = &r
					break
				}
			}
		}
		recent = append(recent, detail)
	}
	dashboard.RecentLogs = recent

	return dashboard, nil
}

// GetTraineeAnalytics builds the body-composition and strength series.
func (s *dashboardService) GetTraineeAnalytics(ctx context.Context, actorID, targetUserID primitive.ObjectID, actorRoles []domain.Role) (*TraineeAnalytics, error) {
	if actorID == primitive.NilObjectID {
		return nil, ErrUnauthenticated
	}

	targetID := targetUserID
	if targetID == primitive.NilObjectID {
		targetID = actorID
	}

	if targetID != actorID {
		// Cross-user access: only a trainer assigned to the target trainee
		// may view.
		isTrainer := false
		for _, role := range actorRoles {
			if role == domain.RoleTrainer {
				isTrainer = true
				break
			}
		}
		if !isTrainer {
			return nil, ErrAnalyticsAccessDenied
		}
		target, err := s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrAnalyticsAccessDenied
			}
			return nil, err
		}
		if !s.policy.IsAssignedTrainer(actorID, target) {
			return nil, ErrAnalyticsAccessDenied
		}
	}

	entries, err := s.bodyCompRepo.GetByUserIDAscending(ctx, targetID)
	if err != nil {
		return nil, err
	}
	bodyComposition := make([]BodyCompPoint, 0, len(entries))
	for _, entry := range entries {
		bodyComposition = append(bodyComposition, BodyCompPoint{
			Date:       entry.Date.UTC().Format("2006-01-02"),
			Weight:     entry.Weight,
			BodyFat:    entry.BodyFat,
			MuscleMass: entry.MuscleMass,
		})
	}

	logs, err := s.workoutRepo.GetByUserIDAscending(ctx, targetID)
	if err != nil {
		return nil, err
	}
	strength, err := s.buildStrengthSeries(ctx, logs)
	if err != nil {
		return nil, err
	}

	return &TraineeAnalytics{
		BodyComposition: bodyComposition,
		Strength:        strength,
	}, nil
}

// buildStrengthSeries folds logs (already ascending by date) into one
// series per exercise name: the max weight lifted per calendar day.
// Multiple sets of the same exercise on the same day collapse to a single
// point holding the day's best weight.
func (s *dashboardService) buildStrengthSeries(ctx context.Context, logs []domain.WorkoutLog) (map[string][]StrengthPoint, error) {
	// Resolve exercise names in one query.
	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, log := range logs {
		for _, set := range log.Sets {
			if !seen[set.ExerciseID] {
				seen[set.ExerciseID] = true
				ids = append(ids, set.ExerciseID)
			}
		}
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(exercises))
	for _, ex := range exercises {
		names[ex.ID] = ex.Name
	}

	// maxPerDay[exercise name][YYYY-MM-DD] = best weight that day.
	maxPerDay := make(map[string]map[string]float64)
	for _, log := range logs {
		dateStr := log.Date.UTC().Format("2006-01-02")
		for _, set := range log.Sets {
			name, ok := names[set.ExerciseID]
			if !ok {
				continue // Exercise removed from the library; skip its sets.
			}
			if maxPerDay[name] == nil {
				maxPerDay[name] = make(map[string]float64)
			}
			// First set of the day always records a point, so bodyweight
			// (weight 0) sessions still show up in the series.
			if best, seen := maxPerDay[name][dateStr]; !seen || set.Weight > best {
				maxPerDay[name][dateStr] = set.Weight
			}
		}
	}

	strength := make(map[string][]StrengthPoint, len(maxPerDay))
	for name, days := range maxPerDay {
		points := make([]StrengthPoint, 0, len(days))
		for date, weight := range days {
			points = append(points, StrengthPoint{Date: date, Weight: weight})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
		strength[name] = points
	}

	return strength, nil
}
