package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"yt-blindpicks/internal/bootstrap"
	"yt-blindpicks/internal/config"
	"yt-blindpicks/internal/worker"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger, logCloser, err := bootstrap.Logger(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("could not set up logging")
	}
	defer logCloser.Close()

	comps, err := bootstrap.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("could not start")
	}
	defer comps.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: 2, // gentle on API quota
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			RetryDelayFunc: retryDelay(logger),
			Logger:         logger,
		},
	)

	mux := asynq.NewServeMux()
	worker.NewTaskHandler(comps.Engine, logger).Register(mux)

	logger.Infof("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		logger.WithError(err).Fatal("could not run server")
	}
}

// retryDelay backs off exponentially: 1m, 2m, 4m ... capped at 1h.
func retryDelay(logger logrus.FieldLogger) asynq.RetryDelayFunc {
	return func(n int, err error, task *asynq.Task) time.Duration {
		delay := time.Minute
		maxDelay := time.Hour

		for i := 0; i < n; i++ {
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
				break
			}
		}

		logger.WithError(err).Warnf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
		return delay
	}
}
