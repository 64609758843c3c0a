package service

import (
	"context"
	"strings"
	"time"

	"github.com/frontdesk-labs/keycard/internal/keycard/store"
	"github.com/frontdesk-labs/keycard/internal/keycard/types"
)

// LedgerService exposes the booking ledger to the records API and renders
// ledger entries as printable key files.
type LedgerService struct {
	bookings store.BookingStore
}

func NewLedgerService(bookings store.BookingStore) *LedgerService {
	return &LedgerService{bookings: bookings}
}

func (s *LedgerService) Get(ctx context.Context, id int64) (types.Booking, error) {
	rec, err := s.bookings.Get(ctx, id)
	if err != nil {
		return types.Booking{}, err
	}
	return bookingFromRecord(rec), nil
}

func (s *LedgerService) List(ctx context.Context, room string) ([]types.Booking, error) {
	recs, err := s.bookings.ListForRoom(ctx, strings.TrimSpace(room))
	if err != nil {
		return nil, err
	}
	out := make([]types.Booking, 0, len(recs))
	for _, rec := range recs {
		out = append(out, bookingFromRecord(rec))
	}
	return out, nil
}

// KeyFile renders the ledger entry as the version-1 presented-key document.
// This is the artifact written onto the physical medium; it embeds the code
// issued for the booking and the code it superseded.
func (s *LedgerService) KeyFile(ctx context.Context, id int64) (types.PresentedKey, error) {
	rec, err := s.bookings.Get(ctx, id)
	if err != nil {
		return types.PresentedKey{}, err
	}
	return types.PresentedKey{
		Version:      types.KeyVersion,
		Room:         rec.Room,
		Code:         rec.NewCode,
		PreviousCode: rec.PreviousCode,
	}, nil
}

func bookingFromRecord(rec store.BookingRecord) types.Booking {
	return types.Booking{
		ID:           rec.ID,
		Room:         rec.Room,
		Sequence:     rec.Sequence,
		GuestName:    rec.GuestName,
		GuestPhone:   rec.GuestPhone,
		PreviousCode: rec.PreviousCode,
		NewCode:      rec.NewCode,
		CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
