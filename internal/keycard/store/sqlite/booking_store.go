package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/frontdesk-labs/keycard/internal/db"
	"github.com/frontdesk-labs/keycard/internal/keycard/store"
)

type BookingStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewBookingStore(db *sql.DB, writer *dbpkg.Worker) *BookingStore {
	return &BookingStore{db: db, writer: writer}
}

// Append writes the ledger entry and advances the room's current code in
// the same transaction.  The room update is guarded by rec.PreviousCode so
// a concurrent rotation fails the whole transaction rather than forking
// the chain.
func (s *BookingStore) Append(ctx context.Context, rec store.BookingRecord) (int64, error) {
	nowMs := time.Now().UTC().UnixMilli()

	var id int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `
SELECT current_code FROM rooms WHERE number = ?;
`, rec.Room).Scan(&current)
		if err == sql.ErrNoRows {
			return store.ErrUnknownRoom
		}
		if err != nil {
			return fmt.Errorf("Append read room: %w", err)
		}
		if current != rec.PreviousCode {
			return store.ErrCodeConflict
		}

		var seq int64
		if err := tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(seq), 0) + 1 FROM bookings WHERE room = ?;
`, rec.Room).Scan(&seq); err != nil {
			return fmt.Errorf("Append next seq: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO bookings(room, seq, guest_name, guest_phone, previous_code, new_code, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?);
`, rec.Room, seq, rec.GuestName, rec.GuestPhone, rec.PreviousCode, rec.NewCode, nowMs)
		if err != nil {
			return fmt.Errorf("Append insert booking: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("Append last insert id: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE rooms
SET current_code  = ?,
    updated_at_ms = ?
WHERE number = ? AND current_code = ?;
`, rec.NewCode, nowMs, rec.Room, rec.PreviousCode); err != nil {
			return fmt.Errorf("Append advance room code: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *BookingStore) Get(ctx context.Context, id int64) (store.BookingRecord, error) {
	rec, err := scanBooking(s.db.QueryRowContext(ctx, `
SELECT id, room, seq, guest_name, guest_phone, previous_code, new_code, created_at_ms
FROM bookings
WHERE id = ?;
`, id))
	if err == sql.ErrNoRows {
		return store.BookingRecord{}, store.ErrBookingNotFound
	}
	if err != nil {
		return store.BookingRecord{}, fmt.Errorf("Get query: %w", err)
	}
	return rec, nil
}

// LatestForRoom uses the per-room sequence, not insertion order: the entry
// with the greatest seq is the room's most recent issuance.
func (s *BookingStore) LatestForRoom(ctx context.Context, room string) (store.BookingRecord, error) {
	rec, err := scanBooking(s.db.QueryRowContext(ctx, `
SELECT id, room, seq, guest_name, guest_phone, previous_code, new_code, created_at_ms
FROM bookings
WHERE room = ?
ORDER BY seq DESC
LIMIT 1;
`, room))
	if err == sql.ErrNoRows {
		return store.BookingRecord{}, store.ErrNoBookings
	}
	if err != nil {
		return store.BookingRecord{}, fmt.Errorf("LatestForRoom query: %w", err)
	}
	return rec, nil
}

func (s *BookingStore) ListForRoom(ctx context.Context, room string) ([]store.BookingRecord, error) {
	query := `
SELECT id, room, seq, guest_name, guest_phone, previous_code, new_code, created_at_ms
FROM bookings`
	var args []any
	if room != "" {
		query += `
WHERE room = ?`
		args = append(args, room)
	}
	query += `
ORDER BY id;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListForRoom query: %w", err)
	}
	defer rows.Close()

	var out []store.BookingRecord
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("ListForRoom scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (store.BookingRecord, error) {
	var rec store.BookingRecord
	var createdMs int64
	if err := row.Scan(
		&rec.ID, &rec.Room, &rec.Sequence,
		&rec.GuestName, &rec.GuestPhone,
		&rec.PreviousCode, &rec.NewCode, &createdMs,
	); err != nil {
		return store.BookingRecord{}, err
	}
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	return rec, nil
}
