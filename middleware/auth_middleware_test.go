package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/media"
	"github.com/coursekit/media-gateway/models"
	"github.com/coursekit/media-gateway/services/audit"
	"github.com/coursekit/media-gateway/token"
)

// MockVerifier is a mock implementation of RequestVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyRequest(ctx context.Context, r *http.Request) (*models.User, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestAuditor(t *testing.T) *audit.Service {
	t.Helper()
	svc := audit.NewService(nil, zap.NewNop(), audit.Config{BufferSize: 100, WorkerCount: 1})
	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = svc.Stop(time.Second) })
	return svc
}

func testUser(role models.UserRole) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "user@example.com",
		Role:     role,
		IsActive: true,
	}
}

// classifiedRequest builds a request with the path and class already in
// context, as ExtractMediaPath would leave them.
func classifiedRequest(path string, class media.AccessClass) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/media/"+path, nil)
	ctx := WithMediaPath(req.Context(), path)
	ctx = WithAccessClass(ctx, class)
	return req.WithContext(ctx)
}

func TestAuthenticate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("anonymous video request is rejected", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mockVerifier.On("VerifyRequest", mock.Anything, mock.Anything).
			Return(nil, token.ErrNoCredential)

		called := false
		handler := Authenticate(mockVerifier, newTestAuditor(t), logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, classifiedRequest("courses/abc/lecture.mp4", media.ClassVideo))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
		mockVerifier.AssertExpectations(t)
	})

	t.Run("invalid credential on video is rejected", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mockVerifier.On("VerifyRequest", mock.Anything, mock.Anything).
			Return(nil, token.ErrInvalidCredential)

		handler := Authenticate(mockVerifier, newTestAuditor(t), logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, classifiedRequest("lecture.mp4", media.ClassVideo))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid credential on video attaches the user", func(t *testing.T) {
		user := testUser(models.RoleTrainee)
		mockVerifier := new(MockVerifier)
		mockVerifier.On("VerifyRequest", mock.Anything, mock.Anything).
			Return(user, nil)

		handler := Authenticate(mockVerifier, newTestAuditor(t), logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok := GetUserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, user.ID, got.ID)
				w.WriteHeader(http.StatusOK)
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, classifiedRequest("lecture.mp4", media.ClassVideo))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("anonymous image request passes through", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mockVerifier.On("VerifyRequest", mock.Anything, mock.Anything).
			Return(nil, token.ErrNoCredential)

		handler := Authenticate(mockVerifier, newTestAuditor(t), logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok := GetUserFromContext(r.Context())
				assert.False(t, ok)
				w.WriteHeader(http.StatusOK)
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, classifiedRequest("logo.png", media.ClassGeneric))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid credential on document continues anonymously", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mockVerifier.On("VerifyRequest", mock.Anything, mock.Anything).
			Return(nil, token.ErrInvalidCredential)

		handler := Authenticate(mockVerifier, newTestAuditor(t), logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok := GetUserFromContext(r.Context())
				assert.False(t, ok)
				w.WriteHeader(http.StatusOK)
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, classifiedRequest("syllabus.pdf", media.ClassDocument))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid credential on generic asset attaches the user", func(t *testing.T) {
		user := testUser(models.RoleTrainer)
		mockVerifier := new(MockVerifier)
		mockVerifier.On("VerifyRequest", mock.Anything, mock.Anything).
			Return(user, nil)

		handler := Authenticate(mockVerifier, newTestAuditor(t), logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok := GetUserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, user.Email, got.Email)
				w.WriteHeader(http.StatusOK)
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, classifiedRequest("logo.png", media.ClassGeneric))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
