package service

import "sync"

// RoomLocks is an arena of per-room mutexes.  Issuance and reader catch-up
// for the same room both read-then-write the room's current code; holding
// the room's lock across that window closes the check-then-act race without
// serializing unrelated rooms against each other.
//
// Locks are created on first use and never discarded.  The population is
// the set of room identifiers seen on bookings and presented media — small
// for any real deployment.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for room and returns its unlock function.
func (l *RoomLocks) Lock(room string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[room]
	if !ok {
		m = &sync.Mutex{}
		l.locks[room] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
