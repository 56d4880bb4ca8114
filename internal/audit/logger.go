package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"business-analytics-server/internal/audit/domain"
	auditrepo "business-analytics-server/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger records one dispatched operation per entry.
// LogOperation is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogOperation(ctx context.Context, userID, operation, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogOperation writes one audit entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogOperation(ctx context.Context, userID, operation, metadata string) {
	if l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		if v := l.ipExtractor(ctx); v != "" {
			ip = v
		}
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Operation: operation,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log operation %s: %v", operation, err)
	}
}

// Nop is an AuditLogger that records nothing. Used in tests and tooling.
type Nop struct{}

func (Nop) LogOperation(context.Context, string, string, string) {}
