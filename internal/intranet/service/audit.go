package service

import (
	"log/slog"
	"time"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/metrics"
)

// AuditEvent describes one denied authorization attempt.
type AuditEvent struct {
	IdentityID string
	Action     string
	Role       domain.Role
	Reason     DenyReason
	At         time.Time
}

// AuditSink receives denied-access events. Implementations must be safe for
// concurrent use; the evaluator dispatches to the sink on its own goroutine
// and never waits for it.
type AuditSink interface {
	RecordDenied(event AuditEvent)
}

// LogAuditSink writes audit events through slog. The default sink.
type LogAuditSink struct {
	Logger *slog.Logger
}

func (s *LogAuditSink) RecordDenied(event AuditEvent) {
	metrics.RecordAuditEvent()
	s.Logger.Warn("access denied",
		slog.String("identity_id", event.IdentityID),
		slog.String("action", event.Action),
		slog.String("role", event.Role.String()),
		slog.String("reason", event.Reason.String()),
		slog.Time("at", event.At),
	)
}

// NopAuditSink discards events. Useful in tests.
type NopAuditSink struct{}

func (NopAuditSink) RecordDenied(AuditEvent) {}
