package store

import "errors"

var (
	// ErrUnknownRoom: the operation referenced a room with no credential state.
	ErrUnknownRoom = errors.New("unknown room")

	// ErrRoomExists: room creation hit an already-registered room number.
	ErrRoomExists = errors.New("room already exists")

	// ErrCodeConflict: a read-modify-write on a room's code lost a race —
	// the code no longer matches the value the caller read.  The caller must
	// retry from a fresh read, never overwrite.
	ErrCodeConflict = errors.New("room code changed concurrently")

	// ErrNoBookings: the room has no ledger entries.
	ErrNoBookings = errors.New("no bookings for room")

	// ErrBookingNotFound: no ledger entry with the requested id.
	ErrBookingNotFound = errors.New("booking not found")
)
