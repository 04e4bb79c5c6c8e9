package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/media"
	"github.com/coursekit/media-gateway/models"
)

func TestAuthorizeCourse(t *testing.T) {
	logger := zap.NewNop()
	courseID := uuid.New().String()

	run := func(t *testing.T, path string, class media.AccessClass, user *models.User) *httptest.ResponseRecorder {
		t.Helper()
		handler := AuthorizeCourse(newTestAuditor(t), logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		req := classifiedRequest(path, class)
		if user != nil {
			req = req.WithContext(WithUser(req.Context(), user))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("trainee passes for course video", func(t *testing.T) {
		w := run(t, "courses/"+courseID+"/lecture.mp4", media.ClassVideo, testUser(models.RoleTrainee))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("trainer passes for course video", func(t *testing.T) {
		w := run(t, "courses/"+courseID+"/lecture.mp4", media.ClassVideo, testUser(models.RoleTrainer))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("super admin passes for course video", func(t *testing.T) {
		w := run(t, "courses/"+courseID+"/lecture.mp4", media.ClassVideo, testUser(models.RoleSuperAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		w := run(t, "courses/"+courseID+"/lecture.mp4", media.ClassVideo, testUser("auditor"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-uuid course id is still gated", func(t *testing.T) {
		// Course ids are opaque strings; a short slug must not bypass
		// the role check.
		w := run(t, "courses/abc123/lesson1.mp4", media.ClassVideo, testUser("auditor"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("video without user is unauthorized", func(t *testing.T) {
		w := run(t, "courses/"+courseID+"/lecture.mp4", media.ClassVideo, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-course video passes through", func(t *testing.T) {
		w := run(t, "promos/teaser.mp4", media.ClassVideo, testUser("auditor"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("course document passes through", func(t *testing.T) {
		w := run(t, "courses/"+courseID+"/syllabus.pdf", media.ClassDocument, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestParseCourseID(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		wantID string
		wantOK bool
	}{
		{"uuid course id", "courses/6f1d9db2-9f6e-4bde-8f3f-0a4f7a0f8e21/video.mp4", "6f1d9db2-9f6e-4bde-8f3f-0a4f7a0f8e21", true},
		{"slug course id", "courses/abc123/lesson1.mp4", "abc123", true},
		{"nested asset", "courses/go101/week1/video.mp4", "go101", true},
		{"not a course path", "images/logo.png", "", false},
		{"course id without asset", "courses/go101", "", false},
		{"empty segment", "courses//video.mp4", "", false},
		{"bare prefix", "courses/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCourseID(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, got)
		})
	}
}
