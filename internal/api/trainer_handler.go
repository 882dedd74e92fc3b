package api

import (
	"errors"
	"net/http"

	"gym-coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

// CreateTraineeRequest defines the JSON for provisioning a trainee account.
type CreateTraineeRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// TraineeOverviewResponse is the enriched roster entry the trainer view
// renders: the trainee plus routines, recent activity and latest measurement.
type TraineeOverviewResponse struct {
	User           UserResponse             `json:"user"`
	Routines       []RoutineResponse        `json:"routines"`
	WorkoutLogs    []WorkoutLogDetailDTO    `json:"workoutLogs"`
	LatestBodyComp *BodyCompositionResponse `json:"latestBodyComposition,omitempty"`
}

// WorkoutLogDetailDTO pairs a log with its routine and referenced exercises.
type WorkoutLogDetailDTO struct {
	Log       WorkoutLogResponse `json:"log"`
	Routine   *RoutineResponse   `json:"routine,omitempty"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// MapWorkoutLogDetailToDTO converts an enriched log to its DTO.
func MapWorkoutLogDetailToDTO(d service.WorkoutLogDetail) WorkoutLogDetailDTO {
	dto := WorkoutLogDetailDTO{
		Log:       MapWorkoutLogToResponse(&d.Log),
		Exercises: MapExercisesToResponse(d.Exercises),
	}
	if d.Routine != nil {
		routine := MapRoutineToResponse(d.Routine)
		dto.Routine = &routine
	}
	return dto
}

// MapTraineeOverviewToResponse converts a roster entry to its DTO.
func MapTraineeOverviewToResponse(o service.TraineeOverview) TraineeOverviewResponse {
	routines := make([]RoutineResponse, len(o.Routines))
	for i := range o.Routines {
		routines[i] = MapRoutineToResponse(&o.Routines[i])
	}
	logs := make([]WorkoutLogDetailDTO, len(o.WorkoutLogs))
	for i, l := range o.WorkoutLogs {
		logs[i] = MapWorkoutLogDetailToDTO(l)
	}
	resp := TraineeOverviewResponse{
		User:        MapUserToResponse(&o.User),
		Routines:    routines,
		WorkoutLogs: logs,
	}
	if o.LatestBodyComp != nil {
		bc := MapBodyCompositionToResponse(o.LatestBodyComp)
		resp.LatestBodyComp = &bc
	}
	return resp
}

// --- Handler Methods ---

// CreateTrainee godoc
// @Summary Provision a trainee account
// @Description Creates the trainee and links them to the acting trainer. If
// the email already belongs to a user, the trainee role is added to that
// user's role set instead and nothing else is overwritten.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainee body CreateTraineeRequest true "Trainee details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} gin.H "Missing fields"
// @Failure 403 {object} gin.H "Acting user is not a trainer"
// @Router /trainer/trainees [post]
func (h *TrainerHandler) CreateTrainee(c *gin.Context) {
	var req CreateTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	trainee, err := h.trainerService.CreateTrainee(
		c.Request.Context(), trainerID, req.Name, req.Email, req.Password,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotATrainer):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrTraineeFieldsMissing):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create trainee.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(trainee))
}

// GetTrainees godoc
// @Summary Get the trainer's roster with per-trainee activity
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TraineeOverviewResponse
// @Router /trainer/trainees [get]
func (h *TrainerHandler) GetTrainees(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	overviews, err := h.trainerService.GetTrainees(c.Request.Context(), trainerID)
	if err != nil {
		if errors.Is(err, service.ErrNotATrainer) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainees.")
		}
		return
	}

	responses := make([]TraineeOverviewResponse, len(overviews))
	for i, o := range overviews {
		responses[i] = MapTraineeOverviewToResponse(o)
	}
	c.JSON(http.StatusOK, responses)
}

// AddTrainerToTrainee godoc
// @Summary Link the calling trainer to a trainee as an additional trainer
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 200 {object} gin.H "message"
// @Failure 404 {object} gin.H "Trainer or trainee not found"
// @Router /trainer/trainees/{id}/trainers [post]
func (h *TrainerHandler) AddTrainerToTrainee(c *gin.Context) {
	traineeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainee ID format.")
		return
	}

	// The linked trainer is always the caller; trainers cannot attach
	// other trainers to a trainee.
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.trainerService.AddTrainerToTrainee(c.Request.Context(), trainerID, traineeID); err != nil {
		switch {
		case errors.Is(err, service.ErrTrainerNotFound), errors.Is(err, service.ErrTraineeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotATrainer):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to link trainer.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trainer linked to trainee."})
}

// GetAllTrainers godoc
// @Summary List every user holding the trainer role
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /trainers [get]
func (h *TrainerHandler) GetAllTrainers(c *gin.Context) {
	trainers, err := h.trainerService.GetAllTrainers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainers.")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(trainers))
}

// GetUnassignedTrainees godoc
// @Summary List trainees without a primary trainer
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /trainer/unassigned-trainees [get]
func (h *TrainerHandler) GetUnassignedTrainees(c *gin.Context) {
	trainees, err := h.trainerService.GetUnassignedTrainees(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainees.")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(trainees))
}

// AddSelfAsTrainee godoc
// @Summary Enroll the acting trainer as their own trainee
// @Description Adds the trainee role to the acting user and sets them as
// their own primary trainer, so they can follow routines themselves.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /trainer/self-trainee [post]
func (h *TrainerHandler) AddSelfAsTrainee(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	user, err := h.trainerService.AddSelfAsTrainee(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotATrainer) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to enroll as trainee.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}
