package store

import (
	"context"
	"time"
)

// BookingRecord is one issuance-ledger entry.  Sequence is per-room and
// strictly increasing; the entry with the greatest Sequence is the room's
// most recent booking.
type BookingRecord struct {
	ID           int64
	Room         string
	Sequence     int64
	GuestName    string
	GuestPhone   string
	PreviousCode string
	NewCode      string
	CreatedAt    time.Time
}

// BookingStore is the append-only issuance ledger.
type BookingStore interface {
	// Append writes a ledger entry and advances the room's current code
	// from rec.PreviousCode to rec.NewCode in the same transaction — either
	// both land or neither does.  The store assigns ID, Sequence, and
	// CreatedAt.  Returns ErrUnknownRoom if the room does not exist, or
	// ErrCodeConflict if the room's code no longer equals rec.PreviousCode.
	Append(ctx context.Context, rec BookingRecord) (int64, error)

	// Get returns the entry with the given id, or ErrBookingNotFound.
	Get(ctx context.Context, id int64) (BookingRecord, error)

	// LatestForRoom returns the entry with the greatest sequence for the
	// room, or ErrNoBookings.
	LatestForRoom(ctx context.Context, room string) (BookingRecord, error)

	// ListForRoom returns entries in append order; room == "" lists all rooms.
	ListForRoom(ctx context.Context, room string) ([]BookingRecord, error)
}
