package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frontdesk-labs/keycard/internal/keycard/store"
	"github.com/frontdesk-labs/keycard/internal/keycard/store/sqlite"
)

func newBookingFixture(t *testing.T) (*sqlite.RoomStore, *sqlite.BookingStore) {
	t.Helper()
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	rooms := sqlite.NewRoomStore(conn, w)
	bookings := sqlite.NewBookingStore(conn, w)

	if err := rooms.Create(context.Background(), "101", "0000-0000-0000-0000"); err != nil {
		t.Fatalf("create room: %v", err)
	}
	return rooms, bookings
}

func TestBookingStore_AppendAdvancesRoom(t *testing.T) {
	rooms, bookings := newBookingFixture(t)
	ctx := context.Background()

	id, err := bookings.Append(ctx, store.BookingRecord{
		Room:         "101",
		GuestName:    "Ada Lovelace",
		GuestPhone:   "900123",
		PreviousCode: "0000-0000-0000-0000",
		NewCode:      "aaaa-aaaa-aaaa-aaaa",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a ledger entry id")
	}

	// The room's code and the ledger commit together.
	code, err := rooms.CurrentCode(ctx, "101")
	if err != nil {
		t.Fatalf("CurrentCode: %v", err)
	}
	if code != "aaaa-aaaa-aaaa-aaaa" {
		t.Errorf("room code = %q, want the appended new_code", code)
	}

	rec, err := bookings.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Sequence != 2 {
		t.Errorf("sequence = %d, want 2 (after the seed entry)", rec.Sequence)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

func TestBookingStore_AppendStalePrevious_Conflict(t *testing.T) {
	rooms, bookings := newBookingFixture(t)
	ctx := context.Background()

	_, err := bookings.Append(ctx, store.BookingRecord{
		Room:         "101",
		GuestName:    "Stale Writer",
		PreviousCode: "ffff-ffff-ffff-ffff", // not the room's current code
		NewCode:      "aaaa-aaaa-aaaa-aaaa",
	})
	if !errors.Is(err, store.ErrCodeConflict) {
		t.Fatalf("expected ErrCodeConflict, got %v", err)
	}

	// Neither the room nor the ledger moved.
	code, _ := rooms.CurrentCode(ctx, "101")
	if code != "0000-0000-0000-0000" {
		t.Errorf("room code = %q after rejected append", code)
	}
	entries, err := bookings.ListForRoom(ctx, "101")
	if err != nil {
		t.Fatalf("ListForRoom: %v", err)
	}
	if len(entries) != 1 { // seed entry only
		t.Errorf("expected 1 ledger entry, got %d", len(entries))
	}
}

func TestBookingStore_AppendUnknownRoom(t *testing.T) {
	_, bookings := newBookingFixture(t)

	_, err := bookings.Append(context.Background(), store.BookingRecord{
		Room:         "404",
		GuestName:    "Nobody",
		PreviousCode: "",
		NewCode:      "aaaa-aaaa-aaaa-aaaa",
	})
	if !errors.Is(err, store.ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
}

func TestBookingStore_LatestForRoom(t *testing.T) {
	_, bookings := newBookingFixture(t)
	ctx := context.Background()

	prev := "0000-0000-0000-0000"
	for _, next := range []string{"aaaa-aaaa-aaaa-aaaa", "bbbb-bbbb-bbbb-bbbb", "cccc-cccc-cccc-cccc"} {
		if _, err := bookings.Append(ctx, store.BookingRecord{
			Room: "101", GuestName: "Guest", PreviousCode: prev, NewCode: next,
		}); err != nil {
			t.Fatalf("Append %s: %v", next, err)
		}
		prev = next
	}

	latest, err := bookings.LatestForRoom(ctx, "101")
	if err != nil {
		t.Fatalf("LatestForRoom: %v", err)
	}
	if latest.NewCode != "cccc-cccc-cccc-cccc" {
		t.Errorf("latest new_code = %q", latest.NewCode)
	}
	if latest.Sequence != 4 { // seed + 3 bookings
		t.Errorf("latest sequence = %d, want 4", latest.Sequence)
	}

	_, err = bookings.LatestForRoom(ctx, "404")
	if !errors.Is(err, store.ErrNoBookings) {
		t.Fatalf("expected ErrNoBookings, got %v", err)
	}
}

func TestBookingStore_Get_NotFound(t *testing.T) {
	_, bookings := newBookingFixture(t)

	_, err := bookings.Get(context.Background(), 9999)
	if !errors.Is(err, store.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBookingStore_ListForRoom_FiltersAndChains(t *testing.T) {
	rooms, bookings := newBookingFixture(t)
	ctx := context.Background()

	if err := rooms.Create(ctx, "102", "1111-1111-1111-1111"); err != nil {
		t.Fatalf("create room 102: %v", err)
	}

	if _, err := bookings.Append(ctx, store.BookingRecord{
		Room: "101", GuestName: "Guest A",
		PreviousCode: "0000-0000-0000-0000", NewCode: "aaaa-aaaa-aaaa-aaaa",
	}); err != nil {
		t.Fatalf("Append 101: %v", err)
	}
	if _, err := bookings.Append(ctx, store.BookingRecord{
		Room: "102", GuestName: "Guest B",
		PreviousCode: "1111-1111-1111-1111", NewCode: "bbbb-bbbb-bbbb-bbbb",
	}); err != nil {
		t.Fatalf("Append 102: %v", err)
	}

	only101, err := bookings.ListForRoom(ctx, "101")
	if err != nil {
		t.Fatalf("ListForRoom 101: %v", err)
	}
	if len(only101) != 2 { // seed + one booking
		t.Fatalf("expected 2 entries for room 101, got %d", len(only101))
	}
	for i := 1; i < len(only101); i++ {
		if only101[i].PreviousCode != only101[i-1].NewCode {
			t.Errorf("chain broken: %q after %q", only101[i].PreviousCode, only101[i-1].NewCode)
		}
	}

	all, err := bookings.ListForRoom(ctx, "")
	if err != nil {
		t.Fatalf("ListForRoom all: %v", err)
	}
	if len(all) != 4 { // two seeds + two bookings
		t.Errorf("expected 4 entries in total, got %d", len(all))
	}
}
