package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frontdesk-labs/keycard/internal/keycard/keycode"
	"github.com/frontdesk-labs/keycard/internal/keycard/store"
	"github.com/frontdesk-labs/keycard/internal/keycard/types"
)

var (
	ErrInvalidRoom      = errors.New("room is required")
	ErrInvalidGuestName = errors.New("guest_name is required")
)

// IssuanceService rotates a room's code when a booking is recorded: one new
// code per booking, chained from the code it replaces.  The returned
// (new, previous) pair is the only export — it is what gets written onto
// the physical key medium.
type IssuanceService struct {
	rooms    store.RoomStore
	bookings store.BookingStore
	locks    *RoomLocks
	generate func() (string, error)
}

func NewIssuanceService(rooms store.RoomStore, bookings store.BookingStore, locks *RoomLocks) *IssuanceService {
	return &IssuanceService{
		rooms:    rooms,
		bookings: bookings,
		locks:    locks,
		generate: keycode.Generate,
	}
}

func (s *IssuanceService) Issue(ctx context.Context, req types.IssueRequest) (types.IssueResponse, error) {
	room := strings.TrimSpace(req.Room)
	guestName := strings.TrimSpace(req.GuestName)
	guestPhone := strings.TrimSpace(req.GuestPhone)

	if room == "" {
		return types.IssueResponse{}, ErrInvalidRoom
	}
	if guestName == "" {
		return types.IssueResponse{}, ErrInvalidGuestName
	}

	// Serialize issuance per room: the previous code read here must still
	// be current when the ledger entry commits.
	unlock := s.locks.Lock(room)
	defer unlock()

	prev, err := s.rooms.CurrentCode(ctx, room)
	if err != nil {
		// Unknown room is a hard failure for issuance — a booking for a
		// room with no credential state has nothing to chain from.
		return types.IssueResponse{}, err
	}

	next, err := s.generate()
	if err != nil {
		return types.IssueResponse{}, err
	}

	id, err := s.bookings.Append(ctx, store.BookingRecord{
		Room:         room,
		GuestName:    guestName,
		GuestPhone:   guestPhone,
		PreviousCode: prev,
		NewCode:      next,
	})
	if err != nil {
		return types.IssueResponse{}, err
	}

	return types.IssueResponse{
		OK:            true,
		Room:          room,
		NewCode:       next,
		PreviousCode:  prev,
		LedgerEntryID: id,
		ServerTime:    time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}
