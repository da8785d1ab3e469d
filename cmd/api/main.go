package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/daehan-coding/grader-go-api/internal/config"
	"github.com/daehan-coding/grader-go-api/internal/database"
	"github.com/daehan-coding/grader-go-api/internal/handler"
	"github.com/daehan-coding/grader-go-api/internal/middleware"
	"github.com/daehan-coding/grader-go-api/internal/repository"
	"github.com/daehan-coding/grader-go-api/internal/router"
	"github.com/daehan-coding/grader-go-api/internal/service"
	"github.com/daehan-coding/grader-go-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	grader, err := ai.NewOpenAIGrader(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.GradingModel,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create grader: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	classGroupRepo := repository.NewClassGroupRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	authService := service.NewAuthService(studentRepo, classGroupRepo, adminRepo, validate, logger, cfg.JWTSecret)
	gradingService := service.NewGradingService(grader, service.GradingConfig{
		DefaultModel: cfg.GradingModel,
		Timeout:      cfg.GradingTimeout,
	}, logger)
	dashboardService := service.NewDashboardService(problemRepo, submissionRepo, studentRepo, classGroupRepo, redisClient, cfg.DashboardCacheTTL, logger)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, studentRepo, gradingService, dashboardService, validate, logger, service.SubmissionConfig{
		AttemptLimit: cfg.SubmissionLimit,
		Window:       cfg.SubmissionWindow,
		MaxCodeBytes: cfg.MaxCodeBytes,
	})
	problemService := service.NewProblemService(problemRepo, submissionRepo, validate, logger)
	rosterService := service.NewRosterService(studentRepo, classGroupRepo, validate, logger)

	if err := authService.EnsureDefaultAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure default admin: %v", err)
	}

	authHandler := handler.NewAuthHandler(authService, logger)
	problemHandler := handler.NewProblemHandler(problemService, dashboardService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	rosterHandler := handler.NewRosterHandler(rosterService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app)
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		ProblemHandler:    problemHandler,
		SubmissionHandler: submissionHandler,
		RosterHandler:     rosterHandler,
		DashboardHandler:  dashboardHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
