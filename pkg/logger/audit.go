package logger

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// Audit event types
const (
	EventRegister      = "register"
	EventVerifyEmail   = "verify_email"
	EventLogin         = "login"
	EventVerifyLogin   = "verify_login"
	EventPasswordReset = "password_reset"
	EventTokenRefresh  = "token_refresh"
	EventRoleChange    = "role_change"
)

// AuditEvent is one step of an authentication flow
type AuditEvent struct {
	EventType     string
	UserID        string
	Email         string // masked before logging
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes security records through the application logger,
// tagged with audit_type so they can be filtered out of the request log.
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LogAuthAttempt records an authentication step; failures log at warn
func (al *AuditLogger) LogAuthAttempt(event AuditEvent) {
	attrs := al.header("auth", event.EventType)
	attrs = append(attrs, slog.Bool("success", event.Success))

	attrs = appendNonEmpty(attrs, "user_id", event.UserID)
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	attrs = appendNonEmpty(attrs, "ip_address", event.IPAddress)
	attrs = appendNonEmpty(attrs, "user_agent", event.UserAgent)
	attrs = appendNonEmpty(attrs, "failure_reason", event.FailureReason)
	attrs = appendMetadata(attrs, event.Metadata)

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}

// LogAccountAction records an administrator changing someone's account
func (al *AuditLogger) LogAccountAction(eventType, actorID, targetID string, metadata map[string]string) {
	attrs := al.header("account", eventType)
	attrs = append(attrs,
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
	)
	attrs = appendMetadata(attrs, metadata)

	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
}

func (al *AuditLogger) header(auditType, eventType string) []slog.Attr {
	return []slog.Attr{
		slog.String("audit_type", auditType),
		slog.String("event_type", eventType),
		slog.String("timestamp", al.now().Format(time.RFC3339)),
	}
}

func appendNonEmpty(attrs []slog.Attr, key, value string) []slog.Attr {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}

// appendMetadata adds metadata in key order so records are stable
func appendMetadata(attrs []slog.Attr, metadata map[string]string) []slog.Attr {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		attrs = append(attrs, slog.String(k, metadata[k]))
	}
	return attrs
}
