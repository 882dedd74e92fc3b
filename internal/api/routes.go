package api

import (
	"net/http"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler into the /api/v1 surface.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	exerciseService service.ExerciseService,
	routineService service.RoutineService,
	workoutService service.WorkoutService,
	dashboardService service.DashboardService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	routineHandler := NewRoutineHandler(routineService)
	workoutHandler := NewWorkoutHandler(workoutService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			roles, _ := getUserRolesFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "roles": roles})
		})

		protected.GET("/dashboard", dashboardHandler.GetDashboard)
		protected.GET("/analytics", dashboardHandler.GetAnalytics)

		// The library is readable by everyone; mutation is trainer-only.
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.POST("", RoleMiddleware(domain.RoleTrainer), exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer), exerciseHandler.UpdateExercise)
			exerciseGroup.POST("/:id/video-upload-url", RoleMiddleware(domain.RoleTrainer), exerciseHandler.RequestVideoUploadURL)
			exerciseGroup.POST("/:id/video", RoleMiddleware(domain.RoleTrainer), exerciseHandler.ConfirmVideoUpload)
			exerciseGroup.GET("/:id/video-url", exerciseHandler.GetVideoDownloadURL)
		}

		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", routineHandler.GetRoutines)
			routineGroup.POST("", RoleMiddleware(domain.RoleTrainer), routineHandler.CreateRoutine)
			routineGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainer), routineHandler.DeleteRoutine)
		}

		protected.POST("/workouts", workoutHandler.LogWorkout)
		protected.POST("/body-compositions", workoutHandler.AddBodyComposition)

		protected.GET("/trainers", trainerHandler.GetAllTrainers)

		trainerApiGroup := protected.Group("/trainer")
		trainerApiGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerApiGroup.POST("/trainees", trainerHandler.CreateTrainee)
			trainerApiGroup.GET("/trainees", trainerHandler.GetTrainees)
			trainerApiGroup.POST("/trainees/:id/trainers", trainerHandler.AddTrainerToTrainee)
			trainerApiGroup.GET("/unassigned-trainees", trainerHandler.GetUnassignedTrainees)
			trainerApiGroup.POST("/self-trainee", trainerHandler.AddSelfAsTrainee)
			trainerApiGroup.GET("/routines", routineHandler.GetAllRoutines)
		}
	}
}
