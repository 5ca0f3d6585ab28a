package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"cvforge/internal/config"
	"cvforge/internal/mailer"
	"cvforge/internal/tasks"
	"cvforge/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr()},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"emails":  6,
				"default": 4,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeOTPEmail, worker.NewOTPEmailHandler(mailer.NewSMTPMailer(cfg.SMTP), logger))

	logger.Info("worker starting", slog.String("redis", cfg.Redis.Addr()))
	if err := srv.Run(mux); err != nil {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
