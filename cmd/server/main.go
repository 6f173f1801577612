package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fittrack/internal/api"
	"alcyxob/fittrack/internal/config"
	"alcyxob/fittrack/internal/logging"
	"alcyxob/fittrack/internal/metrics"
	"alcyxob/fittrack/internal/progress"
	"alcyxob/fittrack/internal/repository"
	"alcyxob/fittrack/internal/repository/memory"
	"alcyxob/fittrack/internal/repository/mongo"
	"alcyxob/fittrack/internal/service"
	"alcyxob/fittrack/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title Fittrack API
// @version 1.0
// @description Workouts, goals and goal progress tracking.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Println("starting fittrack server...")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set")
	}

	// --- Repositories ---
	var (
		userRepo    repository.UserRepository
		workoutRepo repository.WorkoutRepository
		goalRepo    repository.GoalRepository
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("using the in-memory store; data is lost on exit")
		store := memory.NewStore()
		userRepo, workoutRepo, goalRepo = store.Users(), store.Workouts(), store.Goals()
	case config.DriverMongo:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("could not connect to MongoDB: %s", err)
		}
		defer func() {
			log.Println("disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Errorf("failed to disconnect MongoDB: %s", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Printf("connected to MongoDB database %q", cfg.Database.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
				log.Errorf("index creation finished with errors: %s", err)
				return
			}
			log.Println("indexes ensured")
		}()

		userRepo = mongo.NewMongoUserRepository(appDB)
		workoutRepo = mongo.NewMongoWorkoutRepository(appDB)
		goalRepo = mongo.NewMongoGoalRepository(appDB)
	default:
		log.Fatalf("unknown database.driver %q", cfg.Database.Driver)
	}

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %s", err)
		}
	} else {
		log.Println("s3 disabled, data export is off")
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("fittrack", reg)

	// --- Services ---
	goalService := service.NewGoalService(goalRepo, userRepo)
	services := api.Services{
		Auth:  service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Users: service.NewUserService(userRepo),
		Workouts: service.NewWorkoutService(workoutRepo, userRepo, goalService, metricsManager, progress.Options{
			RequestTimeout: cfg.Reconcile.RequestTimeout,
			Concurrency:    cfg.Reconcile.Concurrency,
		}),
		Goals:     goalService,
		Dashboard: service.NewDashboardService(userRepo, workoutRepo, goalRepo),
		Export:    service.NewExportService(userRepo, workoutRepo, goalRepo, fileStorage),
		Metrics:   metricsManager,
		Gatherer:  reg,
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.WithCORS(router, cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}
	log.Println("server exiting")
}
