// Package memory holds an in-memory implementation of the keycard stores,
// intended for tests and dev environments.  A single Store backs RoomStore,
// BookingStore, and VerifyEventStore so a ledger append can advance the
// room's code under the same lock, matching the sqlite transaction
// semantics.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/frontdesk-labs/keycard/internal/keycard/store"
)

type roomState struct {
	currentCode string
	createdAt   time.Time
	updatedAt   time.Time
}

type Store struct {
	mu       sync.Mutex
	rooms    map[string]*roomState
	order    []string // room numbers in creation order, for List
	bookings []store.BookingRecord
	nextID   int64
	events   []store.VerifyEventRecord
}

func New() *Store {
	return &Store{
		rooms:  make(map[string]*roomState),
		nextID: 1,
	}
}

// ── RoomStore ────────────────────────────────────────────────────────────────

func (s *Store) Create(_ context.Context, number, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[number]; ok {
		return store.ErrRoomExists
	}

	now := time.Now().UTC()
	s.rooms[number] = &roomState{currentCode: code, createdAt: now, updatedAt: now}
	s.order = append(s.order, number)
	s.appendLocked(store.BookingRecord{
		Room:      number,
		GuestName: store.SeedGuestName,
		NewCode:   code,
	})
	return nil
}

func (s *Store) CurrentCode(_ context.Context, number string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[number]
	if !ok {
		return "", store.ErrUnknownRoom
	}
	return r.currentCode, nil
}

func (s *Store) AdvanceCode(_ context.Context, number, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[number]
	if !ok {
		return store.ErrUnknownRoom
	}
	if r.currentCode != from {
		return store.ErrCodeConflict
	}
	r.currentCode = to
	r.updatedAt = time.Now().UTC()
	return nil
}

func (s *Store) List(_ context.Context) ([]store.RoomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.RoomRecord, 0, len(s.order))
	for _, number := range s.order {
		r := s.rooms[number]
		out = append(out, store.RoomRecord{
			Number:      number,
			CurrentCode: r.currentCode,
			CreatedAt:   r.createdAt,
			UpdatedAt:   r.updatedAt,
		})
	}
	return out, nil
}

// ── BookingStore ─────────────────────────────────────────────────────────────

func (s *Store) Append(_ context.Context, rec store.BookingRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[rec.Room]
	if !ok {
		return 0, store.ErrUnknownRoom
	}
	if r.currentCode != rec.PreviousCode {
		return 0, store.ErrCodeConflict
	}

	id := s.appendLocked(rec)
	r.currentCode = rec.NewCode
	r.updatedAt = time.Now().UTC()
	return id, nil
}

// appendLocked assigns id, sequence and timestamp.  Caller holds s.mu.
func (s *Store) appendLocked(rec store.BookingRecord) int64 {
	rec.ID = s.nextID
	s.nextID++

	var maxSeq int64
	for _, b := range s.bookings {
		if b.Room == rec.Room && b.Sequence > maxSeq {
			maxSeq = b.Sequence
		}
	}
	rec.Sequence = maxSeq + 1
	rec.CreatedAt = time.Now().UTC()

	s.bookings = append(s.bookings, rec)
	return rec.ID
}

func (s *Store) Get(_ context.Context, id int64) (store.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return store.BookingRecord{}, store.ErrBookingNotFound
}

func (s *Store) LatestForRoom(_ context.Context, room string) (store.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest store.BookingRecord
	found := false
	for _, b := range s.bookings {
		if b.Room == room && (!found || b.Sequence > latest.Sequence) {
			latest = b
			found = true
		}
	}
	if !found {
		return store.BookingRecord{}, store.ErrNoBookings
	}
	return latest, nil
}

func (s *Store) ListForRoom(_ context.Context, room string) ([]store.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.BookingRecord, 0, len(s.bookings))
	for _, b := range s.bookings {
		if room == "" || b.Room == room {
			out = append(out, b)
		}
	}
	return out, nil
}

// ── VerifyEventStore ─────────────────────────────────────────────────────────

func (s *Store) RecordEvent(_ context.Context, rec store.VerifyEventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	s.events = append(s.events, rec)
	return nil
}

// Events returns a copy of all recorded verify events.  Test-only helper.
func (s *Store) Events() []store.VerifyEventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.VerifyEventRecord, len(s.events))
	copy(out, s.events)
	return out
}
