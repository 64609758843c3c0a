package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/frontdesk-labs/keycard/internal/db"
	"github.com/frontdesk-labs/keycard/internal/keycard/store"
)

type VerifyEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewVerifyEventStore(db *sql.DB, writer *dbpkg.Worker) *VerifyEventStore {
	return &VerifyEventStore{db: db, writer: writer}
}

func (s *VerifyEventStore) RecordEvent(ctx context.Context, rec store.VerifyEventRecord) error {
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	receivedMs := rec.ReceivedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO verify_events(room, outcome, reason, received_at_ms)
VALUES (?, ?, ?, ?);
`, rec.Room, rec.Outcome, rec.Reason, receivedMs); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}
		return nil
	})
}
