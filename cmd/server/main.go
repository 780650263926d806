package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"levelup/gym-app/internal/api"
	"levelup/gym-app/internal/clock"
	"levelup/gym-app/internal/config"
	"levelup/gym-app/internal/repository/mongo"
	"levelup/gym-app/internal/service"
	"levelup/gym-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting gym app server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// --- Calendar ---
	// Day keys and display times everywhere in the app come from this one
	// fixed-zone calendar.
	calendar, err := clock.NewCalendar(cfg.Gym.Timezone)
	if err != nil {
		logger.Fatal("invalid gym timezone", zap.String("timezone", cfg.Gym.Timezone), zap.Error(err))
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureFoodItemIndexes(ctx, appDB.Collection("food_items"))
		mongo.EnsureDietPlanIndexes(ctx, appDB.Collection("diet_plans"))
		mongo.EnsureAttendanceIndexes(ctx, appDB.Collection("user_attendance"))
		mongo.EnsureMembershipIndexes(ctx, appDB.Collection("memberships"))
		logger.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, logger)
	if err != nil {
		logger.Fatal("failed to initialize S3 storage", zap.Error(err))
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	activityRepo := mongo.NewMongoActivityRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	foodItemRepo := mongo.NewMongoFoodItemRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	attendanceRepo := mongo.NewMongoAttendanceRepository(appDB)
	subscriptionRepo := mongo.NewMongoSubscriptionRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Gym.RegistrationPrefix)
	activityService := service.NewActivityService(activityRepo, fileStorage, calendar, logger)
	exerciseService := service.NewExerciseService(exerciseRepo)
	foodItemService := service.NewFoodItemService(foodItemRepo)
	planService := service.NewPlanService(planRepo, userRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, calendar, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, logger)

	// --- Nightly Jobs ---
	// 11:30 PM gym time: backfill absences for the closing day and sweep
	// expired memberships.
	scheduler := cron.New(cron.WithLocation(calendar.Location()))
	_, err = scheduler.AddFunc("30 23 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := attendanceService.MarkAbsentees(ctx); err != nil {
			logger.Error("absentee marking failed", zap.Error(err))
		}
		if _, err := subscriptionService.ExpireMemberships(ctx); err != nil {
			logger.Error("membership expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("could not schedule nightly jobs", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		activityService,
		exerciseService,
		foodItemService,
		planService,
		attendanceService,
		subscriptionService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("server starting", zap.String("address", cfg.Server.Address))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
