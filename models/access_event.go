package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessDecision classifies the outcome of a media request
type AccessDecision string

const (
	DecisionGranted AccessDecision = "granted"
	DecisionDenied  AccessDecision = "denied"
	DecisionError   AccessDecision = "error"
)

// AccessEvent is one append-only record of a media access attempt.
// who, what, from where, when — plus the gateway's verdict.
type AccessEvent struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	Path       string         `json:"path" db:"path"`
	Class      string         `json:"class" db:"class"`
	UserID     *uuid.UUID     `json:"user_id,omitempty" db:"user_id"`
	Email      string         `json:"email,omitempty" db:"email"`
	Role       string         `json:"role,omitempty" db:"role"`
	SourceIP   string         `json:"source_ip" db:"source_ip"`
	UserAgent  string         `json:"user_agent" db:"user_agent"`
	Decision   AccessDecision `json:"decision" db:"decision"`
	Reason     string         `json:"reason,omitempty" db:"reason"`
	StatusCode int            `json:"status_code" db:"status_code"`
	Timestamp  time.Time      `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AccessEvent model
func (AccessEvent) TableName() string {
	return "access_logs"
}

// NewAccessEvent creates an access event for the given path and verdict
func NewAccessEvent(path, class string, decision AccessDecision) *AccessEvent {
	return &AccessEvent{
		ID:        uuid.New(),
		Path:      path,
		Class:     class,
		Decision:  decision,
		Timestamp: time.Now().UTC(),
	}
}

// WithUser attaches the resolved identity to the event
func (e *AccessEvent) WithUser(u *User) *AccessEvent {
	if u == nil {
		return e
	}
	id := u.ID
	e.UserID = &id
	e.Email = u.Email
	e.Role = string(u.Role)
	return e
}

// WithRequest attaches request metadata to the event
func (e *AccessEvent) WithRequest(sourceIP, userAgent string) *AccessEvent {
	e.SourceIP = sourceIP
	e.UserAgent = userAgent
	return e
}

// WithOutcome attaches the HTTP status and a human-readable reason
func (e *AccessEvent) WithOutcome(statusCode int, reason string) *AccessEvent {
	e.StatusCode = statusCode
	e.Reason = reason
	return e
}
