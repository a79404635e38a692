package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"membership-backend/internal/config"
)

const (
	maxRetries     = 5
	retryBaseDelay = time.Second
	connectTimeout = 10 * time.Second
)

// PostgresDB wraps the pgx connection pool and its lifecycle.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	config config.DatabaseConfig
}

func NewPostgresDB(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{config: cfg}
}

func (db *PostgresDB) connString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		db.config.User,
		db.config.Password,
		db.config.Host,
		db.config.Port,
		db.config.Database,
		db.config.SSLMode,
	)
}

func (db *PostgresDB) poolConfig() (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(db.connString())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	cfg.MaxConns = int32(db.config.MaxConns)
	cfg.MinConns = int32(db.config.MinConns)
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	return cfg, nil
}

// Connect establishes the pool, retrying with exponential backoff so a
// restarting database does not take the service down with it.
func (db *PostgresDB) Connect(ctx context.Context) error {
	cfg, err := db.poolConfig()
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		pool, lastErr = pgxpool.NewWithConfig(connectCtx, cfg)
		cancel()

		if lastErr == nil {
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				lastErr = err
			} else {
				log.Info().Int("attempt", attempt).Msg("database connected")
				db.Pool = pool
				return nil
			}
		}

		log.Warn().Int("attempt", attempt).Err(lastErr).Msg("database connection failed")

		if attempt < maxRetries {
			delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, lastErr)
}

// HealthCheck pings the pool with a short deadline.
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
