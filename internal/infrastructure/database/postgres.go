package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"stayhub-backend/internal/config"
)

// PostgresDB wraps the pgx connection pool holding the accounts store.
type PostgresDB struct {
	Pool *pgxpool.Pool
	cfg  config.PostgresConfig
}

func NewPostgresDB(cfg config.PostgresConfig) *PostgresDB {
	return &PostgresDB{cfg: cfg}
}

func (db *PostgresDB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(db.cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse postgres config: %w", err)
	}

	poolCfg.MaxConns = db.cfg.MaxConns
	poolCfg.MinConns = db.cfg.MinConns
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("postgres ping failed: %w", err)
	}

	db.Pool = pool
	log.Info().Str("database", db.cfg.Database).Msg("PostgreSQL connection established")
	return nil
}

func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
