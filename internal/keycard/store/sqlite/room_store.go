package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/frontdesk-labs/keycard/internal/db"
	"github.com/frontdesk-labs/keycard/internal/keycard/store"
)

type RoomStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewRoomStore(db *sql.DB, writer *dbpkg.Worker) *RoomStore {
	return &RoomStore{db: db, writer: writer}
}

// Create inserts the room and its seed ledger entry in one transaction, so
// even the initial code has an issuance record.
func (s *RoomStore) Create(ctx context.Context, number, code string) error {
	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO rooms(number, current_code, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?);
`, number, code, nowMs, nowMs)
		if err != nil {
			return fmt.Errorf("Create insert room: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrRoomExists
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO bookings(room, seq, guest_name, guest_phone, previous_code, new_code, created_at_ms)
VALUES (?, 1, ?, '', '', ?, ?);
`, number, store.SeedGuestName, code, nowMs); err != nil {
			return fmt.Errorf("Create seed ledger entry: %w", err)
		}

		return nil
	})
}

func (s *RoomStore) CurrentCode(ctx context.Context, number string) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx, `
SELECT current_code FROM rooms WHERE number = ?;
`, number).Scan(&code)

	if err == sql.ErrNoRows {
		return "", store.ErrUnknownRoom
	}
	if err != nil {
		return "", fmt.Errorf("CurrentCode query: %w", err)
	}
	return code, nil
}

// AdvanceCode is the catch-up write: guarded by the code the caller read,
// so a stale read surfaces as ErrCodeConflict instead of a lost update.
func (s *RoomStore) AdvanceCode(ctx context.Context, number, from, to string) error {
	nowMs := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE rooms
SET current_code  = ?,
    updated_at_ms = ?
WHERE number = ? AND current_code = ?;
`, to, nowMs, number, from)
		if err != nil {
			return fmt.Errorf("AdvanceCode update: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return nil
		}

		// Distinguish a missing room from a lost race.
		var one int
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE number = ?;`, number).Scan(&one)
		if err == sql.ErrNoRows {
			return store.ErrUnknownRoom
		}
		if err != nil {
			return fmt.Errorf("AdvanceCode verify room: %w", err)
		}
		return store.ErrCodeConflict
	})
}

func (s *RoomStore) List(ctx context.Context) ([]store.RoomRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT number, current_code, created_at_ms, updated_at_ms
FROM rooms
ORDER BY created_at_ms, number;
`)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []store.RoomRecord
	for rows.Next() {
		var rec store.RoomRecord
		var createdMs, updatedMs int64
		if err := rows.Scan(&rec.Number, &rec.CurrentCode, &createdMs, &updatedMs); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		rec.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}
