package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/coursekit/media-gateway/models"
)

// UserRepository reads users from the identity store. The gateway never
// writes users; the course platform owns that table.
type UserRepository interface {
	// GetByID retrieves a user by primary key. Token subjects resolve
	// by id only.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AccessLogRepository appends access events to the audit sink
type AccessLogRepository interface {
	// Insert appends a single access event
	Insert(ctx context.Context, event *models.AccessEvent) error
}
