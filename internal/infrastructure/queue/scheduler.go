package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"stayhub-backend/pkg/logger"
)

// revenueCron fires nightly so reports lag bookings by at most a day.
const revenueCron = "30 1 * * *"

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{
				Addr:     redisAddr,
				Password: redisPassword,
				DB:       redisDB,
			},
			&asynq.SchedulerOpts{
				Location: time.UTC,
				LogLevel: asynq.InfoLevel,
			},
		),
	}
}

// RegisterJobs wires the recurring tasks. An empty period makes the
// aggregation job roll up the month it runs in.
func (s *Scheduler) RegisterJobs() error {
	payload, err := json.Marshal(RevenueAggregationPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		revenueCron,
		asynq.NewTask(TypeRevenueAggregation, payload),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register revenue aggregation job", err)
		return err
	}
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
