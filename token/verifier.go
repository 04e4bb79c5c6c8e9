// Package token verifies the platform's signed session tokens. The
// gateway never issues tokens; login and refresh belong to the course
// platform. Verification resolves the subject against the identity
// store and enforces that the account is still active.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coursekit/media-gateway/models"
	"github.com/coursekit/media-gateway/repositories"
)

const (
	// CookieName is the session cookie carrying a token
	CookieName = "token"

	// QueryParamName is the query parameter carrying a token. It exists
	// so <video src="..."> tags, which cannot set headers, can still
	// authenticate.
	QueryParamName = "token"
)

var (
	// ErrNoCredential means the request carried no token at all.
	// Callers decide whether that is fatal; for non-video assets it is not.
	ErrNoCredential = errors.New("no credential presented")

	// ErrInvalidCredential covers bad signature, expiry, malformed
	// tokens, and tokens that resolve to a missing or inactive user.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Claims represents the session token claims issued by the platform
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Verifier validates session tokens against the server-held secret and
// resolves the subject through the identity store.
type Verifier struct {
	secret []byte
	users  repositories.UserRepository
	leeway time.Duration
}

// NewVerifier creates a new session token verifier
func NewVerifier(secret string, users repositories.UserRepository, leeway time.Duration) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		users:  users,
		leeway: leeway,
	}
}

// VerifyRequest extracts a credential from the request and validates it.
// Returns the resolved active user, ErrNoCredential when no carrier is
// present, or ErrInvalidCredential for anything the gateway rejects.
func (v *Verifier) VerifyRequest(ctx context.Context, r *http.Request) (*models.User, error) {
	tokenString := ExtractToken(r)
	if tokenString == "" {
		return nil, ErrNoCredential
	}
	return v.ValidateToken(ctx, tokenString)
}

// ValidateToken validates a raw token string and resolves the user
func (v *Verifier) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidCredential
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidCredential)
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: sub is not a user ID", ErrInvalidCredential)
	}

	user, err := v.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup failed: %v", ErrInvalidCredential, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user is deactivated", ErrInvalidCredential)
	}

	return user, nil
}

// ExtractToken selects the first credential carrier present, in
// priority order: Authorization header, session cookie, query parameter.
func ExtractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token := r.URL.Query().Get(QueryParamName); token != "" {
		return token
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
