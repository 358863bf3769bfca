package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"stayhub-backend/internal/domains/revenue"
	"stayhub-backend/internal/infrastructure/email"
	"stayhub-backend/internal/infrastructure/queue"
	"stayhub-backend/pkg/container"
	"stayhub-backend/pkg/logger"
)

// handlerRegistry holds every task handler with its dependencies.
type handlerRegistry struct {
	emails  email.EmailService
	revenue revenue.Service
}

func newHandlerRegistry(c *container.Container) *handlerRegistry {
	return &handlerRegistry{
		emails:  email.NewSMTPEmailService(c.Config.SMTP),
		revenue: c.RevenueService,
	}
}

func (r *handlerRegistry) register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeWelcomeEmail, r.handleWelcomeEmail)
	mux.HandleFunc(queue.TypeBookingConfirmed, r.handleBookingConfirmed)
	mux.HandleFunc(queue.TypeRevenueAggregation, r.handleRevenueAggregation)
}

func (r *handlerRegistry) handleWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	var payload queue.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal welcome email payload: %w", err)
	}
	return r.emails.SendWelcome(ctx, email.WelcomeData{
		Email:    payload.Email,
		FullName: payload.FullName,
	})
}

func (r *handlerRegistry) handleBookingConfirmed(ctx context.Context, task *asynq.Task) error {
	var payload queue.BookingConfirmedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal booking confirmation payload: %w", err)
	}
	return r.emails.SendBookingConfirmation(ctx, email.BookingConfirmationData{
		Email:      payload.Email,
		HotelName:  payload.HotelName,
		RoomName:   payload.RoomName,
		Reference:  payload.Reference,
		CheckIn:    payload.CheckIn,
		CheckOut:   payload.CheckOut,
		TotalPrice: payload.TotalPrice,
	})
}

func (r *handlerRegistry) handleRevenueAggregation(ctx context.Context, task *asynq.Task) error {
	var payload queue.RevenueAggregationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal revenue aggregation payload: %w", err)
	}

	hotels, err := r.revenue.Aggregate(ctx, payload.Period)
	if err != nil {
		return err
	}
	logger.Info("revenue aggregation task done", map[string]interface{}{
		"period": payload.Period,
		"hotels": hotels,
	})
	return nil
}
