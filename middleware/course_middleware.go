package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/models"
	"github.com/coursekit/media-gateway/services/audit"
	"github.com/coursekit/media-gateway/utils"
)

// coursePathPrefix marks assets that belong to a specific course
const coursePathPrefix = "courses/"

// AuthorizeCourse gates course-scoped video assets on the viewer's role.
//
// Course scoping is structural: the first segment is "courses", the
// second is the course id, and at least one asset segment follows.
// Anything else passes through untouched. For course videos, super
// admins always pass and trainers and trainees pass on role alone.
//
// TODO: check trainee enrollment and trainer assignment against the
// platform's enrollments table instead of authorizing every
// authenticated member for every course.
func AuthorizeCourse(auditor *audit.Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class, _ := GetAccessClassFromContext(r.Context())
			mediaPath, _ := GetMediaPathFromContext(r.Context())

			courseID, ok := parseCourseID(mediaPath)
			if !ok || !class.IsVideo() {
				next.ServeHTTP(w, r)
				return
			}

			// Authentication already ran: a video request without a user
			// cannot reach this stage.
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				utils.WriteUnauthorized(w, "authentication required for video content")
				return
			}

			if user.IsSuperAdmin() || user.IsKnownRole() {
				next.ServeHTTP(w, r)
				return
			}

			logger.Info("course access denied",
				zap.String("path", mediaPath),
				zap.String("course_id", courseID),
				zap.String("user_id", user.ID.String()),
				zap.String("role", string(user.Role)),
			)
			auditor.Record(models.NewAccessEvent(mediaPath, string(class), models.DecisionDenied).
				WithUser(user).
				WithRequest(r.RemoteAddr, r.UserAgent()).
				WithOutcome(http.StatusForbidden, "unknown_role"))
			utils.WriteForbidden(w, "not authorized for this course")
		})
	}
}

// parseCourseID extracts the course id from a courses/<id>/... path.
// Any non-empty id segment counts; course ids are opaque strings.
func parseCourseID(mediaPath string) (string, bool) {
	if !strings.HasPrefix(mediaPath, coursePathPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(mediaPath, coursePathPrefix)
	segment, _, found := strings.Cut(rest, "/")
	if !found || segment == "" {
		return "", false
	}
	return segment, true
}
