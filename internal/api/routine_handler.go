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

// RoutineHandler holds the routine service dependency.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs ---

// RoutineDayRequest is one day grouping of a routine being created. The
// grouping is flattened into a single ordered prescription list on save.
type RoutineDayRequest struct {
	Exercises []RoutineExerciseRequest `json:"exercises" binding:"required"`
}

type RoutineExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
	Sets       *int   `json:"sets" binding:"omitempty,min=1"`
	Reps       string `json:"reps"`
}

// CreateRoutineRequest defines the JSON for creating a routine. UserID is
// optional; when empty the routine is assigned to the acting user.
type CreateRoutineRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	UserID      string              `json:"userId" binding:"omitempty"`
	Days        []RoutineDayRequest `json:"days" binding:"required,min=1"`
}

// RoutineExerciseResponse is a single persisted prescription.
type RoutineExerciseResponse struct {
	ExerciseID string `json:"exerciseId"`
	Sets       *int   `json:"sets,omitempty"`
	Reps       string `json:"reps,omitempty"`
	Order      int    `json:"order"`
}

// RoutineResponse is the DTO for returning routine details.
type RoutineResponse struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	UserID      string                    `json:"userId"`
	Exercises   []RoutineExerciseResponse `json:"exercises"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

// RoutineDetailResponse pairs a routine with the library exercises it
// references, so clients can render names without extra lookups.
type RoutineDetailResponse struct {
	Routine   RoutineResponse    `json:"routine"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// MapRoutineToResponse converts a domain.Routine to RoutineResponse DTO.
func MapRoutineToResponse(r *domain.Routine) RoutineResponse {
	if r == nil {
		return RoutineResponse{}
	}
	exercises := make([]RoutineExerciseResponse, len(r.Exercises))
	for i, re := range r.Exercises {
		exercises[i] = RoutineExerciseResponse{
			ExerciseID: re.ExerciseID.Hex(),
			Sets:       re.Sets,
			Reps:       re.Reps,
			Order:      re.Order,
		}
	}
	return RoutineResponse{
		ID:          r.ID.Hex(),
		Name:        r.Name,
		Description: r.Description,
		UserID:      r.UserID.Hex(),
		Exercises:   exercises,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// MapRoutineDetailsToResponse converts enriched routine details to DTOs.
func MapRoutineDetailsToResponse(details []service.RoutineDetail) []RoutineDetailResponse {
	responses := make([]RoutineDetailResponse, len(details))
	for i, d := range details {
		responses[i] = RoutineDetailResponse{
			Routine:   MapRoutineToResponse(&d.Routine),
			Exercises: MapExercisesToResponse(d.Exercises),
		}
	}
	return responses
}

// --- Handler Methods ---

// CreateRoutine godoc
// @Summary Create a routine with its exercise prescriptions
// @Description Persists the routine and all prescriptions in one atomic write.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body CreateRoutineRequest true "Routine details"
// @Success 201 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input or no exercises"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	targetUserID := primitive.NilObjectID
	if req.UserID != "" {
		targetUserID, err = primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
			return
		}
	}

	days := make([]service.RoutineDayInput, len(req.Days))
	for i, day := range req.Days {
		exercises := make([]service.RoutineExerciseInput, len(day.Exercises))
		for j, ex := range day.Exercises {
			exerciseID, err := primitive.ObjectIDFromHex(ex.ExerciseID)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format: "+ex.ExerciseID)
				return
			}
			exercises[j] = service.RoutineExerciseInput{
				ExerciseID: exerciseID,
				Sets:       ex.Sets,
				Reps:       ex.Reps,
			}
		}
		days[i] = service.RoutineDayInput{Exercises: exercises}
	}

	routine, err := h.routineService.CreateRoutine(
		c.Request.Context(), actorID, req.Name, req.Description, targetUserID, days,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineNameRequired),
			errors.Is(err, service.ErrNoExercisesInRoutine),
			errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create routine.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapRoutineToResponse(routine))
}

// GetRoutines godoc
// @Summary Get routines assigned to the authenticated user
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RoutineDetailResponse
// @Router /routines [get]
func (h *RoutineHandler) GetRoutines(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	details, err := h.routineService.GetRoutinesForUser(c.Request.Context(), actorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routines.")
		return
	}

	c.JSON(http.StatusOK, MapRoutineDetailsToResponse(details))
}

// GetAllRoutines godoc
// @Summary Get every routine (trainer view)
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RoutineDetailResponse
// @Router /trainer/routines [get]
func (h *RoutineHandler) GetAllRoutines(c *gin.Context) {
	details, err := h.routineService.GetRoutines(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routines.")
		return
	}

	c.JSON(http.StatusOK, MapRoutineDetailsToResponse(details))
}

// DeleteRoutine godoc
// @Summary Delete a routine
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 204 "No Content"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	routineID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
		return
	}

	if err := h.routineService.DeleteRoutine(c.Request.Context(), routineID); err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete routine.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
