// Package middleware implements the gateway's request pipeline: media
// path extraction, class-aware authentication, course authorization,
// the response header policy, and request metrics. Stages communicate
// through typed context values.
package middleware

import (
	"context"

	"github.com/coursekit/media-gateway/media"
	"github.com/coursekit/media-gateway/models"
)

// contextKey is a private type to avoid context key collisions
type contextKey string

const (
	mediaPathKey   contextKey = "media_path"
	accessClassKey contextKey = "access_class"
	userKey        contextKey = "user"
)

// WithMediaPath stores the decoded media path in the context
func WithMediaPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, mediaPathKey, path)
}

// GetMediaPathFromContext retrieves the decoded media path
func GetMediaPathFromContext(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(mediaPathKey).(string)
	return path, ok
}

// WithAccessClass stores the derived access class in the context
func WithAccessClass(ctx context.Context, class media.AccessClass) context.Context {
	return context.WithValue(ctx, accessClassKey, class)
}

// GetAccessClassFromContext retrieves the derived access class
func GetAccessClassFromContext(ctx context.Context) (media.AccessClass, bool) {
	class, ok := ctx.Value(accessClassKey).(media.AccessClass)
	return class, ok
}

// WithUser stores the authenticated user in the context. Absence of a
// user means the request is anonymous, which is legal for non-video
// assets.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated user, if any
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
