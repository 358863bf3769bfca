package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer is what services see: fire-and-forget task submission.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, redisPassword string, redisDB int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

func (c *Client) Enqueue(ctx context.Context, taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}

	log.Debug().Str("task", taskType).Str("task_id", info.ID).Msg("task enqueued")
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
