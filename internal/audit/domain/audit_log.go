package domain

import "time"

// AuditLog represents one dispatched operation recorded for the audit trail.
type AuditLog struct {
	ID        string
	UserID    string
	Operation string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
