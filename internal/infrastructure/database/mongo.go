package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub-backend/internal/config"
)

// MongoDB wraps the client holding the domain document store.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	cfg      config.MongoConfig
}

func NewMongoDB(cfg config.MongoConfig) *MongoDB {
	return &MongoDB{cfg: cfg}
}

func (m *MongoDB) Connect(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(m.cfg.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}

	m.Client = client
	m.Database = client.Database(m.cfg.Database)
	log.Info().Str("database", m.cfg.Database).Msg("MongoDB connection established")
	return nil
}

// EnsureIndexes creates the indexes on foreign-reference and frequently
// filtered fields. Safe to run on every startup.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		"hotels": {
			{Keys: bson.D{{Key: "ownerId", Value: 1}}},
			{Keys: bson.D{{Key: "city", Value: 1}}},
		},
		"rooms": {
			{Keys: bson.D{{Key: "hotelId", Value: 1}}},
		},
		"bookings": {
			{Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "checkIn", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "hotelId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"discounts": {
			// One code per scope: a hotel, or platform-wide (missing hotelId).
			{Keys: bson.D{{Key: "code", Value: 1}, {Key: "hotelId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"reviews": {
			{Keys: bson.D{{Key: "hotelId", Value: 1}}},
			{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"messages": {
			{Keys: bson.D{{Key: "hotelId", Value: 1}, {Key: "customerId", Value: 1}}},
		},
		"revenue_reports": {
			{Keys: bson.D{{Key: "hotelId", Value: 1}, {Key: "period", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"transactions": {
			{Keys: bson.D{{Key: "bookingId", Value: 1}}},
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"role_requests": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		},
		"payment_methods": {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"support_requests": {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := m.Database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", coll, err)
		}
	}
	return nil
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}
	return m.Client.Ping(ctx, nil)
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client != nil {
		return m.Client.Disconnect(ctx)
	}
	return nil
}
