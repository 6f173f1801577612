package api

import (
	"net/http"

	"alcyxob/fittrack/internal/metrics"
	"alcyxob/fittrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Services are the dependencies of the HTTP layer.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Workouts  service.WorkoutService
	Goals     service.GoalService
	Dashboard service.DashboardService
	Export    service.ExportService

	Metrics  *metrics.Manager
	Gatherer prometheus.Gatherer
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	goalHandler := NewGoalHandler(svc.Goals)
	dashboardHandler := NewDashboardHandler(svc.Dashboard, svc.Export)

	router.Use(RequestLogger(svc.Metrics))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	gatherer := svc.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
		// Account creation stays public under the CRUD path as well.
		api.POST("/users", authHandler.Register)
	}

	protected := api.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		users := protected.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		workouts := protected.Group("/workouts")
		{
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.POST("", workoutHandler.CreateWorkout)
			workouts.POST("/log", workoutHandler.LogWorkout)
			workouts.GET("/user/:userId", workoutHandler.ListUserWorkouts)
			workouts.GET("/:id", workoutHandler.GetWorkout)
			workouts.PUT("/:id", workoutHandler.UpdateWorkout)
			workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		goals := protected.Group("/goals")
		{
			goals.GET("", goalHandler.ListGoals)
			goals.POST("", goalHandler.CreateGoal)
			goals.GET("/user/:userId", goalHandler.ListUserGoals)
			goals.GET("/:id", goalHandler.GetGoal)
			goals.PUT("/:id", goalHandler.UpdateGoal)
			goals.PATCH("/:id/progress", goalHandler.RecordProgress)
			goals.POST("/:id/complete", goalHandler.CompleteGoal)
			goals.DELETE("/:id", goalHandler.DeleteGoal)
		}

		protected.GET("/dashboard", dashboardHandler.GetDashboard)
		protected.POST("/export", dashboardHandler.ExportData)
	}
}

// WithCORS wraps the engine so browser clients from allowedOrigins can call the API.
func WithCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(handler)
}
