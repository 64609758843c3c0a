package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/frontdesk-labs/keycard/internal/keycard/store"
	"github.com/frontdesk-labs/keycard/internal/keycard/types"
)

var ErrMalformedKey = errors.New("malformed key file")

// ReaderService evaluates presented key media against the authoritative
// room state.  Exactly one generation of skew is tolerated: if the room's
// recorded code matches the key's embedded previous code, the authority is
// advanced to the embedded current code (catch-up).  Anything older is
// indistinguishable from a forged or revoked key and is rejected.
//
// Every decision is appended to the verify-event audit log.  Audit writes
// are best-effort and never block or alter the decision.
type ReaderService struct {
	rooms  store.RoomStore
	events store.VerifyEventStore
	locks  *RoomLocks
}

func NewReaderService(rooms store.RoomStore, events store.VerifyEventStore, locks *RoomLocks) *ReaderService {
	return &ReaderService{rooms: rooms, events: events, locks: locks}
}

// VerifyKey parses an uploaded key file and returns the verification
// outcome.  A storage failure is returned as an error, distinct from any
// outcome — the caller must be able to tell "key rejected" from "could not
// evaluate".  The decision fails closed: no partial interpretation, no
// guessing on unknown versions.
func (s *ReaderService) VerifyKey(ctx context.Context, keyBytes []byte) (types.VerifyResponse, error) {
	now := time.Now().UTC()

	key, err := parsePresentedKey(keyBytes)
	if err != nil {
		return types.VerifyResponse{}, err
	}

	if key.Version != types.KeyVersion {
		resp := types.VerifyResponse{
			OK:         true,
			Outcome:    types.OutcomeUnsupportedVersion,
			Room:       key.Room,
			Reason:     "unsupported_key_version",
			ServerTime: now.Format(time.RFC3339Nano),
		}
		s.recordEvent(ctx, key.Room, resp.Outcome, resp.Reason, now)
		return resp, nil
	}

	room := strings.TrimSpace(key.Room)

	// Catch-up mutates the room's code; take the same per-room lock as
	// issuance so the two read-modify-writes cannot interleave.
	unlock := s.locks.Lock(room)
	defer unlock()

	outcome, reason, err := s.decide(ctx, room, key)
	if err != nil {
		return types.VerifyResponse{}, err
	}

	s.recordEvent(ctx, room, outcome, reason, now)

	return types.VerifyResponse{
		OK:         true,
		Outcome:    outcome,
		Room:       room,
		Reason:     reason,
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}

// decide runs the read-compare-advance step.  On a code conflict (another
// writer advanced the room between our read and our write, which can only
// happen if state is mutated outside this process) it retries once from a
// fresh read rather than overwriting.
func (s *ReaderService) decide(ctx context.Context, room string, key types.PresentedKey) (types.VerificationOutcome, string, error) {
	for attempt := 0; ; attempt++ {
		current, err := s.rooms.CurrentCode(ctx, room)
		if errors.Is(err, store.ErrUnknownRoom) {
			return types.OutcomeInvalid, "unknown_room", nil
		}
		if err != nil {
			return "", "", err
		}

		switch {
		case current == key.Code:
			// Authority and medium agree; no state change.
			return types.OutcomeValid, "code_current", nil

		case current == key.PreviousCode:
			// The authority's record lags the medium by one rotation.
			err := s.rooms.AdvanceCode(ctx, room, current, key.Code)
			if errors.Is(err, store.ErrCodeConflict) && attempt == 0 {
				continue
			}
			if err != nil {
				return "", "", err
			}
			return types.OutcomeValidCatchUp, "code_caught_up", nil

		default:
			return types.OutcomeInvalid, "code_mismatch", nil
		}
	}
}

func (s *ReaderService) recordEvent(ctx context.Context, room string, outcome types.VerificationOutcome, reason string, receivedAt time.Time) {
	_ = s.events.RecordEvent(ctx, store.VerifyEventRecord{
		Room:       room,
		Outcome:    string(outcome),
		Reason:     reason,
		ReceivedAt: receivedAt,
	})
}

// parsePresentedKey decodes a key file strictly: unknown fields and trailing
// garbage are rejected, never partially interpreted.
func parsePresentedKey(b []byte) (types.PresentedKey, error) {
	var key types.PresentedKey
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&key); err != nil {
		return types.PresentedKey{}, ErrMalformedKey
	}
	if dec.More() {
		return types.PresentedKey{}, ErrMalformedKey
	}
	return key, nil
}
