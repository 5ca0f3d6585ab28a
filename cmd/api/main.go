package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvforge/internal/ai"
	"cvforge/internal/api"
	"cvforge/internal/auth"
	"cvforge/internal/config"
	"cvforge/internal/database"
	"cvforge/internal/otp"
	"cvforge/internal/storage"
	syncsvc "cvforge/internal/sync"
	"cvforge/internal/tasks"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logger.Error("database init failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer redisClient.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	if err != nil {
		logger.Error("token service init failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	generator, err := ai.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		logger.Error("ai generator init failed", slog.Any("error", err))
		os.Exit(1)
	}

	handlers := api.Handlers{
		Auth: api.NewAuthHandler(
			db,
			otp.NewRedisRegistry(redisClient),
			tasks.NewDispatcher(asynqClient),
			tokens,
			redisClient,
			logger,
			cfg.OTP.TTL,
			cfg.OTP.IssuePerWindow,
			cfg.API.Production(),
		),
		Resumes:        api.NewResumeHandler(db),
		PersonalInfo:   api.NewPersonalInfoHandler(db),
		Experiences:    api.NewExperienceHandler(db),
		Education:      api.NewEducationHandler(db),
		Certifications: api.NewCertificationHandler(db),
		Skills:         api.NewSkillHandler(db),
		ResumeSkills:   api.NewResumeSkillHandler(db),
		Internships:    api.NewInternshipHandler(db),
		Hackathons:     api.NewHackathonHandler(db),
		Courses:        api.NewCourseHandler(db),
		Projects:       api.NewProjectHandler(db),
		Sync:           api.NewSyncHandler(syncsvc.NewService(db)),
		AI:             api.NewAIHandler(db, generator),
	}

	// Thumbnail storage is optional; without credentials the endpoints
	// simply are not mounted.
	if cfg.MinIO.AccessKeyID != "" {
		store, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			logger.Error("minio init failed", slog.Any("error", err))
			os.Exit(1)
		}
		var scanner storage.Scanner
		if cfg.MinIO.ClamdAddr != "" {
			clam := storage.NewClamScanner(cfg.MinIO.ClamdAddr)
			if err := clam.Ping(); err != nil {
				logger.Warn("clamd unreachable, uploads will not be scanned", slog.Any("error", err))
			} else {
				scanner = clam
			}
		}
		handlers.Thumbnails = api.NewThumbnailHandler(db, store, scanner)
	}

	router := api.NewRouter(logger, cfg.API.Production())
	api.RegisterRoutes(router, handlers, tokens)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.Int("port", cfg.API.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}
