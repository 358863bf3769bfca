package main

import (
	"os"

	"stayhub-backend/internal/infrastructure/queue"
	"stayhub-backend/pkg/container"
	"stayhub-backend/pkg/logger"
)

func startScheduler(c *container.Container) *queue.Scheduler {
	scheduler := queue.NewScheduler(
		c.Config.Redis.Addr,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)
	if err := scheduler.RegisterJobs(); err != nil {
		logger.Error("failed to register scheduled jobs", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("scheduler starting", nil)
		if err := scheduler.Start(); err != nil {
			logger.Error("scheduler failed", err)
			os.Exit(1)
		}
	}()

	return scheduler
}
