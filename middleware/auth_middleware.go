package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/models"
	"github.com/coursekit/media-gateway/services/audit"
	"github.com/coursekit/media-gateway/token"
	"github.com/coursekit/media-gateway/utils"
)

// RequestVerifier validates the credential on an incoming request.
// Satisfied by token.Verifier; tests substitute their own.
type RequestVerifier interface {
	VerifyRequest(ctx context.Context, r *http.Request) (*models.User, error)
}

// Authenticate enforces the class-dependent authentication policy.
//
// Video assets are strict: a missing or invalid credential is a 401
// before any filesystem work happens. All other classes are
// opportunistic: a valid credential attaches the user to the context,
// anything else leaves the request anonymous and lets it continue.
func Authenticate(verifier RequestVerifier, auditor *audit.Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class, _ := GetAccessClassFromContext(r.Context())
			mediaPath, _ := GetMediaPathFromContext(r.Context())

			user, err := verifier.VerifyRequest(r.Context(), r)

			if class.IsVideo() && err != nil {
				reason := "invalid_credential"
				if errors.Is(err, token.ErrNoCredential) {
					reason = "no_credential"
				}
				logger.Info("video access denied",
					zap.String("path", mediaPath),
					zap.String("reason", reason),
					zap.String("remote_addr", r.RemoteAddr),
				)
				auditor.Record(models.NewAccessEvent(mediaPath, string(class), models.DecisionDenied).
					WithRequest(r.RemoteAddr, r.UserAgent()).
					WithOutcome(http.StatusUnauthorized, reason))
				utils.WriteUnauthorized(w, "authentication required for video content")
				return
			}

			if err == nil {
				r = r.WithContext(WithUser(r.Context(), user))
			} else if !errors.Is(err, token.ErrNoCredential) {
				// Invalid credential on a non-video asset: proceed
				// anonymously, but leave a trace.
				logger.Debug("ignoring invalid credential on non-video asset",
					zap.String("path", mediaPath),
					zap.Error(err),
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}
