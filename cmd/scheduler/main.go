package main

import (
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"yt-blindpicks/internal/bootstrap"
	"yt-blindpicks/internal/config"
	"yt-blindpicks/pkg/tasks"
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

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{Logger: logger},
	)

	task, err := tasks.NewSyncAllPlaylistsTask(cfg.SyncFetchDurations)
	if err != nil {
		logger.WithError(err).Fatal("could not create task")
	}

	entryID, err := scheduler.Register(cfg.SyncSchedule, task)
	if err != nil {
		logger.WithError(err).Fatal("could not register task")
	}

	logger.WithFields(logrus.Fields{"entry_id": entryID, "schedule": cfg.SyncSchedule}).
		Infof("Scheduler starting (commit: %s)", CommitSHA)
	if err := scheduler.Run(); err != nil {
		logger.WithError(err).Fatal("could not run scheduler")
	}
}
