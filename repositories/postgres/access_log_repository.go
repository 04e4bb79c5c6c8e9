package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/models"
	"github.com/coursekit/media-gateway/repositories"
)

// AccessLogRepository implements the repositories.AccessLogRepository interface
type AccessLogRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAccessLogRepository creates a new access log repository
func NewAccessLogRepository(db *DB, logger *zap.Logger) repositories.AccessLogRepository {
	return &AccessLogRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a single access event
func (r *AccessLogRepository) Insert(ctx context.Context, event *models.AccessEvent) error {
	query := `
		INSERT INTO access_logs (id, path, class, user_id, email, role, source_ip, user_agent, decision, reason, status_code, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Path,
		event.Class,
		event.UserID,
		nullableString(event.Email),
		nullableString(event.Role),
		event.SourceIP,
		event.UserAgent,
		event.Decision,
		nullableString(event.Reason),
		event.StatusCode,
		event.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to insert access event: %w", err)
	}

	r.logger.Debug("access event recorded",
		zap.String("id", event.ID.String()),
		zap.String("path", event.Path),
		zap.String("decision", string(event.Decision)))
	return nil
}

// nullableString maps "" to NULL so empty identity fields stay unset
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
