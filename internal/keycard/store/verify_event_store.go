package store

import (
	"context"
	"time"
)

// VerifyEventRecord captures a single reader verification decision for the
// audit trail, including rejections.
type VerifyEventRecord struct {
	Room       string
	Outcome    string
	Reason     string
	ReceivedAt time.Time
}

// VerifyEventStore persists verification decisions as an append-only log.
type VerifyEventStore interface {
	RecordEvent(ctx context.Context, rec VerifyEventRecord) error
}
