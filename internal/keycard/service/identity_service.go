package service

import (
	"context"
	"errors"
	"strings"

	"github.com/frontdesk-labs/keycard/internal/keycard/store"
	"github.com/frontdesk-labs/keycard/internal/keycard/types"
)

// DefaultPhoneSuffixDigits is how many trailing phone digits must match in
// an identity challenge when no override is configured.
const DefaultPhoneSuffixDigits = 4

// IdentityService gates the replace-key flow: before the current code is
// re-disclosed to a guest who lost their card, the claimed identity is
// checked against the room's most recent booking.  The result is a bare
// boolean — the caller never learns which half of the check failed.
type IdentityService struct {
	bookings          store.BookingStore
	phoneSuffixDigits int
}

func NewIdentityService(bookings store.BookingStore, phoneSuffixDigits int) *IdentityService {
	if phoneSuffixDigits <= 0 {
		phoneSuffixDigits = DefaultPhoneSuffixDigits
	}
	return &IdentityService{bookings: bookings, phoneSuffixDigits: phoneSuffixDigits}
}

// Challenge verifies the claimed name and phone against the latest ledger
// entry for the room.  Both must match: the claimed name case-insensitively
// as a substring of the stored guest name, and the last N digits of the
// phone numbers exactly.  A room with no booking history always fails.
func (s *IdentityService) Challenge(ctx context.Context, req types.ChallengeRequest) (types.ChallengeResponse, error) {
	room := strings.TrimSpace(req.Room)
	if room == "" {
		return types.ChallengeResponse{}, ErrInvalidRoom
	}

	latest, err := s.bookings.LatestForRoom(ctx, room)
	if errors.Is(err, store.ErrNoBookings) {
		return types.ChallengeResponse{Verified: false}, nil
	}
	if err != nil {
		return types.ChallengeResponse{}, err
	}

	if !nameMatches(latest.GuestName, req.GuestName) {
		return types.ChallengeResponse{Verified: false}, nil
	}
	if !phoneMatches(latest.GuestPhone, req.GuestPhone, s.phoneSuffixDigits) {
		return types.ChallengeResponse{Verified: false}, nil
	}

	return types.ChallengeResponse{
		Verified:      true,
		LedgerEntryID: latest.ID,
	}, nil
}

// nameMatches reports whether the claimed name is a non-empty,
// case-insensitive substring of the stored guest name.  An empty claim is
// rejected outright — the empty string is a substring of everything, which
// would reduce the gate to the phone check alone.
func nameMatches(stored, claimed string) bool {
	claimed = strings.ToLower(strings.TrimSpace(claimed))
	if claimed == "" {
		return false
	}
	return strings.Contains(strings.ToLower(stored), claimed)
}

// phoneMatches compares the last n digits of both numbers, ignoring
// formatting.  Either side having fewer than n digits fails the check: a
// guest record without a usable phone number cannot be verified over it.
func phoneMatches(stored, claimed string, n int) bool {
	storedSuffix, ok := phoneSuffix(stored, n)
	if !ok {
		return false
	}
	claimedSuffix, ok := phoneSuffix(claimed, n)
	if !ok {
		return false
	}
	return storedSuffix == claimedSuffix
}

func phoneSuffix(s string, n int) (string, bool) {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) < n {
		return "", false
	}
	return string(digits[len(digits)-n:]), true
}
