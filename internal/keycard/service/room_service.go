package service

import (
	"context"
	"strings"
	"time"

	"github.com/frontdesk-labs/keycard/internal/keycard/keycode"
	"github.com/frontdesk-labs/keycard/internal/keycard/store"
	"github.com/frontdesk-labs/keycard/internal/keycard/types"
)

// RoomService is the administrative shell around room credential state:
// registering rooms and reading current codes.  Creation is the one path
// that writes a code without chaining from a predecessor — every later
// change goes through issuance or reader catch-up.
type RoomService struct {
	rooms    store.RoomStore
	generate func() (string, error)
}

func NewRoomService(rooms store.RoomStore) *RoomService {
	return &RoomService{rooms: rooms, generate: keycode.Generate}
}

func (s *RoomService) Create(ctx context.Context, number string) (types.Room, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return types.Room{}, ErrInvalidRoom
	}

	code, err := s.generate()
	if err != nil {
		return types.Room{}, err
	}

	if err := s.rooms.Create(ctx, number, code); err != nil {
		return types.Room{}, err
	}

	return types.Room{
		Number:      number,
		CurrentCode: code,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// CurrentCode is the read-only accessor for re-displaying a room's code.
// Callers are expected to gate it behind a successful identity challenge or
// an administrative override.
func (s *RoomService) CurrentCode(ctx context.Context, number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", ErrInvalidRoom
	}
	return s.rooms.CurrentCode(ctx, number)
}

func (s *RoomService) List(ctx context.Context) ([]types.Room, error) {
	recs, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Room, 0, len(recs))
	for _, r := range recs {
		out = append(out, types.Room{
			Number:      r.Number,
			CurrentCode: r.CurrentCode,
			CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out, nil
}
