package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/platinummonkey/restaurant-service/pkg/contextkeys"
	"github.com/platinummonkey/restaurant-service/pkg/observability"
)

// AuditLog is one security audit record
type AuditLog struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	UserAgent    string
	Status       string
	HTTPStatus   int
	ErrorMessage string
	CreatedAt    time.Time
}

// AuditLogger writes security audit records as structured log entries
type AuditLogger struct {
	logger *observability.Logger
	now    func() time.Time
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *observability.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger.WithField("audit", true),
		now:    time.Now,
	}
}

// LogAction validates and writes an audit record
func (al *AuditLogger) LogAction(ctx context.Context, log *AuditLog) error {
	if log.Action == "" {
		return fmt.Errorf("action is required")
	}
	if log.ResourceType == "" {
		return fmt.Errorf("resource_type is required")
	}
	if log.Status == "" {
		return fmt.Errorf("status is required")
	}

	log.CreatedAt = al.now()

	fields := map[string]interface{}{
		"action":        log.Action,
		"resource_type": log.ResourceType,
		"status":        log.Status,
		"ip_address":    log.IPAddress,
	}
	if log.ResourceID != "" {
		fields["resource_id"] = log.ResourceID
	}
	if log.UserID != "" {
		fields["user_id"] = log.UserID
	}
	if log.UserAgent != "" {
		fields["user_agent"] = log.UserAgent
	}
	if log.HTTPStatus != 0 {
		fields["http_status"] = log.HTTPStatus
	}
	if log.ErrorMessage != "" {
		fields["error"] = log.ErrorMessage
	}
	if requestID := contextkeys.GetRequestID(ctx); requestID != "" {
		fields["request_id"] = requestID
	}

	entry := al.logger.WithFields(fields)
	if log.Status == StatusSuccess {
		entry.Info("audit " + log.Action)
	} else {
		entry.Warn("audit " + log.Action)
	}
	return nil
}

// LogFromRequest creates an audit record from an HTTP request.
// identity may be nil for anonymous callers.
func (al *AuditLogger) LogFromRequest(r *http.Request, identity *Identity, action, resourceType, resourceID, status string, err error) error {
	log := &AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    getClientIP(r),
		UserAgent:    r.UserAgent(),
		Status:       status,
	}
	if identity != nil {
		log.UserID = identity.Subject
	}
	if err != nil {
		log.ErrorMessage = err.Error()
	}
	return al.LogAction(r.Context(), log)
}

// LogDenial records a request stopped with httpStatus before reaching its handler
func (al *AuditLogger) LogDenial(r *http.Request, identity *Identity, resourceType, resourceID string, httpStatus int, err error) error {
	action, status := ActionAccessDenied, StatusDenied
	switch {
	case httpStatus == http.StatusUnauthorized:
		action = ActionAuthFailure
	case httpStatus != http.StatusForbidden:
		status = StatusFailure
	}

	log := &AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    getClientIP(r),
		UserAgent:    r.UserAgent(),
		Status:       status,
		HTTPStatus:   httpStatus,
	}
	if identity != nil {
		log.UserID = identity.Subject
	}
	if err != nil {
		log.ErrorMessage = err.Error()
	}
	return al.LogAction(r.Context(), log)
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}

// Audit actions
const (
	ActionRestaurantCreate = "restaurant.create"
	ActionRestaurantDelete = "restaurant.delete"
	ActionOwnerAdd         = "owner.add"
	ActionAuthFailure      = "auth.failure"
	ActionAccessDenied     = "authz.denied"
)

// Audit statuses
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusDenied  = "denied"
)
