package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitvibe/coach-app/internal/api"
	"fitvibe/coach-app/internal/chat"
	"fitvibe/coach-app/internal/config"
	"fitvibe/coach-app/internal/logger"
	"fitvibe/coach-app/internal/repository/mongo"
	"fitvibe/coach-app/internal/service"
	"fitvibe/coach-app/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("Starting coach app server", zap.String("address", cfg.Server.Address))

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		zlog.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		zlog.Info("Disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			zlog.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	zlog.Info("Database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureRelationshipIndexes(ctx, appDB.Collection("subscriptions"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("progress"))
		mongo.EnsureMessageIndexes(ctx, appDB.Collection("messages"))
		mongo.EnsureCoachProfileIndexes(ctx, appDB.Collection("coach_profiles"))
		mongo.EnsureVideoIndexes(ctx, appDB.Collection("videos"))
		mongo.EnsureAppointmentIndexes(ctx, appDB.Collection("appointments"))
		mongo.EnsureMealBankIndexes(ctx, appDB.Collection("meal_bank"))
		zlog.Info("Index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize S3 storage", zap.Error(err))
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	relationshipRepo := mongo.NewMongoRelationshipRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	messageRepo := mongo.NewMongoMessageRepository(appDB)
	coachProfileRepo := mongo.NewMongoCoachProfileRepository(appDB)
	videoRepo := mongo.NewMongoVideoRepository(appDB)
	appointmentRepo := mongo.NewMongoAppointmentRepository(appDB)
	mealBankRepo := mongo.NewMongoMealBankRepository(appDB)

	// --- Initialize Services ---
	hub := chat.NewHub()
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	subscriptionService := service.NewSubscriptionService(relationshipRepo, userRepo, coachProfileRepo, zlog)
	planService := service.NewPlanService(planRepo, relationshipRepo)
	progressService := service.NewProgressService(progressRepo, mealBankRepo)
	chatService := service.NewChatService(messageRepo, relationshipRepo, hub)
	profileService := service.NewProfileService(coachProfileRepo, fileStorage, zlog)
	videoService := service.NewVideoService(videoRepo, relationshipRepo, fileStorage, zlog)
	appointmentService := service.NewAppointmentService(appointmentRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		subscriptionService,
		planService,
		progressService,
		chatService,
		profileService,
		videoService,
		appointmentService,
		zlog,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zlog.Info("Server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exiting")
}
