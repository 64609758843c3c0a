package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SeedDevOptions struct {
	// RoomNumber and RoomCode let dev deployments start with a predictable
	// room so printed test cards keep working across restarts.
	RoomNumber string
	RoomCode   string
}

// SeedDev creates a starter room (idempotently) so the dev server has
// something to issue bookings against.  The seed ledger entry mirrors what
// room creation writes in production.
func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	number := opt.RoomNumber
	if number == "" {
		number = "101"
	}
	code := opt.RoomCode
	if code == "" {
		code = "0000-0000-0000-0000"
	}

	now := time.Now().UTC().UnixMilli()

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO rooms(number, current_code, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?);`, number, code, now, now)
	if err != nil {
		return fmt.Errorf("seed room %s: %w", number, err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		// Room already present from a previous run; leave its state alone.
		return nil
	}

	if _, err := db.ExecContext(ctx, `
INSERT INTO bookings(room, seq, guest_name, guest_phone, previous_code, new_code, created_at_ms)
VALUES (?, 1, '--- NEW ROOM ---', '', '', ?, ?);`, number, code, now); err != nil {
		return fmt.Errorf("seed room %s ledger entry: %w", number, err)
	}

	return nil
}
