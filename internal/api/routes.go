package api

import (
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth       service.AuthService
	Exercises  service.ExerciseService
	Clients    service.ClientService
	Workouts   service.WorkoutService
	Generation service.GenerationService
}

func SetupRoutes(router *gin.Engine, services Services, log *logger.Logger) {
	exerciseHandler := NewExerciseHandler(services.Exercises, log)
	clientHandler := NewClientHandler(services.Clients, log)
	workoutHandler := NewWorkoutHandler(services.Workouts, log)
	proposalHandler := NewProposalHandler(services.Generation, log)
	trainerHandler := NewTrainerHandler()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(services.Auth, log))
	{
		protected.GET("/me", trainerHandler.GetMe)

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/media-upload-url", exerciseHandler.RequestMediaUploadURL)
			exerciseGroup.GET("/:id/media-url", exerciseHandler.GetMediaURL)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/clients")
		{
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("/:id", clientHandler.GetClient)
			clientGroup.PUT("/:id", clientHandler.UpdateClient)
			clientGroup.DELETE("/:id", clientHandler.DeleteClient)
		}

		// --- Workout Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.POST("/proposals", proposalHandler.AcceptProposal)
			workoutGroup.POST("/generate", proposalHandler.GenerateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.PUT("/:id/plan", workoutHandler.ReplacePlan)
		}
	}
}
