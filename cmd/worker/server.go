package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"

	"stayhub-backend/pkg/container"
	"stayhub-backend/pkg/logger"
)

// startWorker runs the asynq server in the background and returns it for
// shutdown.
func startWorker(c *container.Container, handlers *handlerRegistry) *asynq.Server {
	mux := asynq.NewServeMux()
	handlers.register(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 10,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Warn("task failed", map[string]interface{}{
					"type":  task.Type(),
					"error": err.Error(),
				})
			}),
		},
	)

	go func() {
		logger.Info("worker starting", map[string]interface{}{"redis": c.Config.Redis.Addr})
		if err := srv.Run(mux); err != nil {
			logger.Error("worker failed", err)
			os.Exit(1)
		}
	}()

	return srv
}
