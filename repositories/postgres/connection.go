package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/config"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// NewDBFromConn wraps an existing connection (used in tests with sqlmock)
func NewDBFromConn(conn *sql.DB, logger *zap.Logger) *DB {
	return &DB{
		DB:     conn,
		logger: logger,
	}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitAccessLogSchema creates the access_logs table owned by the
// gateway. The users table belongs to the course platform and is never
// created here.
func (db *DB) InitAccessLogSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS access_logs (
			id UUID PRIMARY KEY,
			path TEXT NOT NULL,
			class VARCHAR(20) NOT NULL,
			user_id UUID,
			email VARCHAR(255),
			role VARCHAR(50),
			source_ip VARCHAR(45),
			user_agent TEXT,
			decision VARCHAR(20) NOT NULL,
			reason TEXT,
			status_code INTEGER,
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_access_logs_user_id ON access_logs(user_id);
		CREATE INDEX IF NOT EXISTS idx_access_logs_decision ON access_logs(decision);
		CREATE INDEX IF NOT EXISTS idx_access_logs_timestamp ON access_logs(timestamp);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize access log schema: %w", err)
	}
	db.logger.Info("access log schema initialized")
	return nil
}
