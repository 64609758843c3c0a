package store

import (
	"context"
	"time"
)

// SeedGuestName marks the ledger entry written when a room is created, so
// the initial code has an issuance record like every later one.  The guest
// fields are placeholders and will never pass an identity challenge.
const SeedGuestName = "--- NEW ROOM ---"

type RoomRecord struct {
	Number      string
	CurrentCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoomStore is the authoritative per-room credential state.  CurrentCode and
// AdvanceCode together form the compare-and-set pair the rotation protocol
// is built on: every mutation states the code it read, and the store refuses
// the write if that code is stale.
type RoomStore interface {
	// Create registers a room with its initial code and writes the seed
	// ledger entry.  Returns ErrRoomExists if the number is taken.
	Create(ctx context.Context, number, code string) error

	// CurrentCode returns the room's authoritative code, or ErrUnknownRoom.
	CurrentCode(ctx context.Context, number string) (string, error)

	// AdvanceCode sets the room's code to `to` only if it still equals
	// `from`.  Returns ErrUnknownRoom or ErrCodeConflict.
	AdvanceCode(ctx context.Context, number, from, to string) error

	List(ctx context.Context) ([]RoomRecord, error)
}
