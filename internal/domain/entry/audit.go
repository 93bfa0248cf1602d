package entry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditAction names an audited change
type AuditAction string

const (
	AuditCreated        AuditAction = "created"
	AuditClassesAdded   AuditAction = "classes_added"
	AuditClassesAmended AuditAction = "classes_amended"
	AuditConfirmed      AuditAction = "confirmed"
)

// AuditLog is an append-only change record for an entry
type AuditLog struct {
	ID        uuid.UUID
	EntryID   uuid.UUID
	ActorID   uuid.UUID
	Action    AuditAction
	Changes   map[string]any
	Reason    string
	CreatedAt time.Time
}

// NewAuditLog creates an audit row
func NewAuditLog(entryID, actorID uuid.UUID, action AuditAction, changes map[string]any, reason string) *AuditLog {
	return &AuditLog{
		ID:        uuid.New(),
		EntryID:   entryID,
		ActorID:   actorID,
		Action:    action,
		Changes:   changes,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

// AuditLogRepository has no update or delete
type AuditLogRepository interface {
	Append(ctx context.Context, log *AuditLog) error
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]AuditLog, error)
}
