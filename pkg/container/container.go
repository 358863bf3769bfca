// Package container assembles the dependency graph: config, then
// infrastructure, then services, then handlers. Everything is a
// singleton living for the process lifetime.
package container

import (
	"context"
	"fmt"
	"time"

	"stayhub-backend/internal/config"
	"stayhub-backend/internal/domains/booking"
	"stayhub-backend/internal/domains/discount"
	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/domains/message"
	"stayhub-backend/internal/domains/paymentmethod"
	"stayhub-backend/internal/domains/revenue"
	"stayhub-backend/internal/domains/review"
	"stayhub-backend/internal/domains/rolerequest"
	"stayhub-backend/internal/domains/room"
	"stayhub-backend/internal/domains/support"
	"stayhub-backend/internal/domains/transaction"
	"stayhub-backend/internal/domains/user"
	"stayhub-backend/internal/infrastructure/cache"
	"stayhub-backend/internal/infrastructure/database"
	"stayhub-backend/internal/infrastructure/queue"
	"stayhub-backend/internal/infrastructure/storage"
	"stayhub-backend/internal/payment/paylink"
	"stayhub-backend/pkg/jwt"
	"stayhub-backend/pkg/logger"
)

type Container struct {
	Config *config.Config

	Postgres  *database.PostgresDB
	Mongo     *database.MongoDB
	Redis     *cache.RedisClient
	Blacklist *cache.TokenBlacklist
	Storage   *storage.MinIOStorage
	Queue     *queue.Client

	JWTManager *jwt.Manager
	Gateway    paylink.Gateway

	UserService          user.Service
	HotelService         hotel.Service
	RoomService          room.Service
	DiscountService      discount.Service
	BookingService       booking.Service
	ReviewService        review.Service
	MessageService       message.Service
	RevenueService       revenue.Service
	RoleRequestService   rolerequest.Service
	TransactionService   transaction.Service
	PaymentMethodService paymentmethod.Service
	SupportService       support.Service

	UserHandler          *user.Handler
	HotelHandler         *hotel.Handler
	RoomHandler          *room.Handler
	DiscountHandler      *discount.Handler
	BookingHandler       *booking.Handler
	ReviewHandler        *review.Handler
	MessageHandler       *message.Handler
	RevenueHandler       *revenue.Handler
	RoleRequestHandler   *rolerequest.Handler
	TransactionHandler   *transaction.Handler
	PaymentMethodHandler *paymentmethod.Handler
	SupportHandler       *support.Handler
}

func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Postgres = database.NewPostgresDB(c.Config.Postgres)
	if err := c.Postgres.Connect(ctx); err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}

	c.Mongo = database.NewMongoDB(c.Config.Mongo)
	if err := c.Mongo.Connect(ctx); err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := c.Mongo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure mongo indexes: %w", err)
	}

	c.Redis = cache.NewRedisClient(c.Config.Redis.Addr, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	c.Blacklist = cache.NewTokenBlacklist(c.Redis)

	st, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}
	c.Storage = st

	c.Queue = queue.NewClient(c.Config.Redis.Addr, c.Config.Redis.Password, c.Config.Redis.DB)

	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.AccessTTL, c.Config.JWT.RefreshTTL)
	c.Gateway = paylink.NewClient(c.Config.PayLink)

	return nil
}

func (c *Container) initServices() {
	db := c.Mongo.Database

	userRepo := user.NewPostgresRepository(c.Postgres.Pool)
	c.UserService = user.NewService(userRepo, c.JWTManager, c.Blacklist, c.Queue)

	images := storage.NewImageProcessor()
	c.HotelService = hotel.NewService(db, c.Storage, images)
	c.RoomService = room.NewService(db, c.HotelService)
	c.DiscountService = discount.NewService(db, c.HotelService)
	c.TransactionService = transaction.NewService(db)
	c.BookingService = booking.NewService(
		db,
		c.RoomService,
		c.HotelService,
		c.DiscountService,
		c.TransactionService,
		c.Gateway,
		c.Queue,
	)
	// The webhook settles transactions and then confirms bookings, so the
	// transaction service learns about bookings only after both exist.
	c.TransactionService.Bind(c.BookingService)

	c.ReviewService = review.NewService(db, c.BookingService, c.HotelService)
	c.MessageService = message.NewService(db, c.HotelService)
	c.RevenueService = revenue.NewService(db)
	c.RoleRequestService = rolerequest.NewService(db, c.UserService)
	c.PaymentMethodService = paymentmethod.NewService(db)
	c.SupportService = support.NewService(db)
}

func (c *Container) initHandlers() {
	c.UserHandler = user.NewHandler(c.UserService)
	c.HotelHandler = hotel.NewHandler(c.HotelService)
	c.RoomHandler = room.NewHandler(c.RoomService)
	c.DiscountHandler = discount.NewHandler(c.DiscountService)
	c.BookingHandler = booking.NewHandler(c.BookingService)
	c.ReviewHandler = review.NewHandler(c.ReviewService)
	c.MessageHandler = message.NewHandler(c.MessageService)
	c.RevenueHandler = revenue.NewHandler(c.RevenueService)
	c.RoleRequestHandler = rolerequest.NewHandler(c.RoleRequestService)
	c.TransactionHandler = transaction.NewHandler(c.TransactionService, c.Gateway)
	c.PaymentMethodHandler = paymentmethod.NewHandler(c.PaymentMethodService)
	c.SupportHandler = support.NewHandler(c.SupportService)
}

// Cleanup releases external connections during graceful shutdown.
func (c *Container) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("close queue client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("close redis", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Close(ctx); err != nil {
			logger.Error("close mongo", err)
		}
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}
}
