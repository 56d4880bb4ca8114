package audit

import (
	"context"
	"errors"
	"testing"

	"business-analytics-server/internal/audit/domain"
)

type fakeRepo struct {
	entries []*domain.AuditLog
	err     error
}

func (f *fakeRepo) Create(_ context.Context, a *domain.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, a)
	return nil
}

func (f *fakeRepo) ListRecent(context.Context, int) ([]*domain.AuditLog, error) {
	return f.entries, nil
}

func TestLogOperation(t *testing.T) {
	repo := &fakeRepo{}
	l := NewLogger(repo, func(context.Context) string { return "10.0.0.1" })

	l.LogOperation(context.Background(), "u1", "get_customer_analytics", `{"filters":0}`)

	if len(repo.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("entry ID must be assigned")
	}
	if e.Operation != "get_customer_analytics" || e.UserID != "u1" || e.IP != "10.0.0.1" {
		t.Errorf("entry = %+v", e)
	}
}

func TestLogOperation_NilExtractorRecordsUnknownIP(t *testing.T) {
	repo := &fakeRepo{}
	l := NewLogger(repo, nil)

	l.LogOperation(context.Background(), "u1", "export_data", "")

	if repo.entries[0].IP != "unknown" {
		t.Errorf("IP = %q, want unknown", repo.entries[0].IP)
	}
}

func TestLogOperation_RepoErrorDoesNotPropagate(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	l := NewLogger(repo, nil)

	// Must not panic or surface the error.
	l.LogOperation(context.Background(), "u1", "get_order_analytics", "")
}

func TestLogOperation_NilRepoIsNoop(t *testing.T) {
	l := NewLogger(nil, nil)
	l.LogOperation(context.Background(), "u1", "get_order_analytics", "")
}
