package api

import (
	"errors"
	"net/http"
	"time"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type WorkoutSetRequest struct {
	SetNumber int     `json:"setNumber" binding:"required,min=1"`
	Reps      int     `json:"reps" binding:"required,min=1"`
	Weight    float64 `json:"weight" binding:"min=0"`
}

type WorkoutExerciseRequest struct {
	ExerciseID string              `json:"exerciseId" binding:"required"`
	Sets       []WorkoutSetRequest `json:"sets" binding:"required"`
}

// LogWorkoutRequest defines the JSON for logging a performed workout.
// RoutineID is optional for ad-hoc sessions.
type LogWorkoutRequest struct {
	RoutineID string                   `json:"routineId" binding:"omitempty"`
	Exercises []WorkoutExerciseRequest `json:"exercises" binding:"required"`
}

type WorkoutSetResponse struct {
	ExerciseID string  `json:"exerciseId"`
	SetNumber  int     `json:"setNumber"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
}

// WorkoutLogResponse is the DTO for a persisted workout log.
type WorkoutLogResponse struct {
	ID        string               `json:"id"`
	UserID    string               `json:"userId"`
	RoutineID *string              `json:"routineId,omitempty"`
	Date      time.Time            `json:"date"`
	Sets      []WorkoutSetResponse `json:"sets"`
	CreatedAt time.Time            `json:"createdAt"`
}

// AddBodyCompositionRequest defines the JSON for a measurement snapshot.
type AddBodyCompositionRequest struct {
	Weight     float64  `json:"weight" binding:"required,gt=0"`
	BodyFat    *float64 `json:"bodyFat" binding:"omitempty,gte=0"`
	MuscleMass *float64 `json:"muscleMass" binding:"omitempty,gte=0"`
}

// BodyCompositionResponse is the DTO for a measurement snapshot.
type BodyCompositionResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Date       time.Time `json:"date"`
	Weight     float64   `json:"weight"`
	BodyFat    *float64  `json:"bodyFat,omitempty"`
	MuscleMass *float64  `json:"muscleMass,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MapWorkoutLogToResponse converts a domain.WorkoutLog to its DTO.
func MapWorkoutLogToResponse(log *domain.WorkoutLog) WorkoutLogResponse {
	if log == nil {
		return WorkoutLogResponse{}
	}
	sets := make([]WorkoutSetResponse, len(log.Sets))
	for i, s := range log.Sets {
		sets[i] = WorkoutSetResponse{
			ExerciseID: s.ExerciseID.Hex(),
			SetNumber:  s.SetNumber,
			Reps:       s.Reps,
			Weight:     s.Weight,
		}
	}
	resp := WorkoutLogResponse{
		ID:        log.ID.Hex(),
		UserID:    log.UserID.Hex(),
		Date:      log.Date,
		Sets:      sets,
		CreatedAt: log.CreatedAt,
	}
	if log.RoutineID != nil {
		hex := log.RoutineID.Hex()
		resp.RoutineID = &hex
	}
	return resp
}

// MapBodyCompositionToResponse converts a domain.BodyComposition to its DTO.
func MapBodyCompositionToResponse(bc *domain.BodyComposition) BodyCompositionResponse {
	if bc == nil {
		return BodyCompositionResponse{}
	}
	return BodyCompositionResponse{
		ID:         bc.ID.Hex(),
		UserID:     bc.UserID.Hex(),
		Date:       bc.Date,
		Weight:     bc.Weight,
		BodyFat:    bc.BodyFat,
		MuscleMass: bc.MuscleMass,
		CreatedAt:  bc.CreatedAt,
	}
}

// --- Handler Methods ---

// LogWorkout godoc
// @Summary Log a performed workout with all of its sets
// @Description Persists the log and every set entry in one atomic write. A
// workout with no exercises or no sets is rejected before anything is saved.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body LogWorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutLogResponse
// @Failure 400 {object} gin.H "No exercises logged"
// @Router /workouts [post]
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var routineID *primitive.ObjectID
	if req.RoutineID != "" {
		id, err := primitive.ObjectIDFromHex(req.RoutineID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
			return
		}
		routineID = &id
	}

	exercises := make([]service.WorkoutExerciseInput, len(req.Exercises))
	for i, ex := range req.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(ex.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format: "+ex.ExerciseID)
			return
		}
		sets := make([]service.WorkoutSetInput, len(ex.Sets))
		for j, s := range ex.Sets {
			sets[j] = service.WorkoutSetInput{
				SetNumber: s.SetNumber,
				Reps:      s.Reps,
				Weight:    s.Weight,
			}
		}
		exercises[i] = service.WorkoutExerciseInput{ExerciseID: exerciseID, Sets: sets}
	}

	log, err := h.workoutService.LogWorkout(c.Request.Context(), actorID, routineID, exercises)
	if err != nil {
		if errors.Is(err, service.ErrNoExercisesLogged) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to log workout.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutLogToResponse(log))
}

// AddBodyComposition godoc
// @Summary Record a body-composition measurement
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body AddBodyCompositionRequest true "Measurement details"
// @Success 201 {object} BodyCompositionResponse
// @Failure 400 {object} gin.H "Invalid weight"
// @Router /body-compositions [post]
func (h *WorkoutHandler) AddBodyComposition(c *gin.Context) {
	var req AddBodyCompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := h.workoutService.AddBodyComposition(
		c.Request.Context(), actorID, req.Weight, req.BodyFat, req.MuscleMass,
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWeight) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save measurement.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapBodyCompositionToResponse(entry))
}
