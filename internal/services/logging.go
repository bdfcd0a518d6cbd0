package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/happynation/wellbeing-service/internal/utils"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceLogger{logger: logger.With("service", service)}
}

// ===== OPERATION LOGGING =====

// LogOperation records the outcome of one service call. Caller errors log at
// warn, everything else that failed at error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, actor, resource string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err) || IsForbidden(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("actor", actor),
		slog.String("resource", resource),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr ValidationErrors
		var businessErr *BusinessRuleError
		switch {
		case errors.As(err, &validationErr):
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		case errors.As(err, &businessErr):
			attrs = append(attrs, slog.String("business_rule", businessErr.Rule))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation, actor string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("actor", actor),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
			slog.String("field", err.Field),
			slog.String("message", err.Message),
			slog.Any("value", err.Value),
		))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

// ===== AUDIT LOGGING =====

type AuditEventType string

const (
	AuditEventCreate AuditEventType = "create"
	AuditEventUpdate AuditEventType = "update"
	AuditEventDelete AuditEventType = "delete"
	AuditEventLogin  AuditEventType = "login"
)

type AuditEvent struct {
	Type      AuditEventType         `json:"type"`
	Actor     string                 `json:"actor"`
	Resource  string                 `json:"resource"`
	Action    string                 `json:"action"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (l *ServiceLogger) LogAuditEvent(ctx context.Context, event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("event_type", string(event.Type)),
		slog.String("actor", event.Actor),
		slog.String("resource", event.Resource),
		slog.String("action", event.Action),
		slog.Time("timestamp", event.Timestamp),
	}

	for key, value := range event.Metadata {
		attrs = append(attrs, slog.Any("meta_"+key, value))
	}

	l.logger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf("Audit: %s %s", event.Action, event.Resource), attrs...)
}

// ===== HELPERS =====

// ContextualLogger times one operation and logs its result
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	actor     string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, actor string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		actor:     actor,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resource string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.actor, resource, time.Since(cl.startTime), err)

	var validationErrors ValidationErrors
	if errors.As(err, &validationErrors) {
		cl.logger.LogValidationError(cl.ctx, cl.operation, cl.actor, validationErrors)
	}
}

func (cl *ContextualLogger) LogAudit(eventType AuditEventType, resource string, metadata map[string]interface{}) {
	cl.logger.LogAuditEvent(cl.ctx, AuditEvent{
		Type:      eventType,
		Actor:     cl.actor,
		Resource:  resource,
		Action:    cl.operation,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
}
