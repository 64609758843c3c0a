package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/frontdesk-labs/keycard/internal/keycard/service"
	"github.com/frontdesk-labs/keycard/internal/keycard/store"
	"github.com/frontdesk-labs/keycard/internal/keycard/types"
)

// maxKeyFileBytes caps uploaded key files.  A version-1 key document is
// under 150 bytes of JSON, so 4 KiB is generous.
const maxKeyFileBytes = 4096

type Dependencies struct {
	Logger   *log.Logger
	Addr     string
	Rooms    *service.RoomService
	Issuance *service.IssuanceService
	Reader   *service.ReaderService
	Identity *service.IdentityService
	Ledger   *service.LedgerService
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	rooms      *service.RoomService
	issuance   *service.IssuanceService
	reader     *service.ReaderService
	identity   *service.IdentityService
	ledger     *service.LedgerService
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:   d.Logger,
		mux:      mux,
		rooms:    d.Rooms,
		issuance: d.Issuance,
		reader:   d.Reader,
		identity: d.Identity,
		ledger:   d.Ledger,
	}

	mux.HandleFunc("POST /v1/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /v1/rooms", s.handleListRooms)
	mux.HandleFunc("GET /v1/rooms/{number}/code", s.handleCurrentCode)
	mux.HandleFunc("POST /v1/bookings", s.handleIssueBooking)
	mux.HandleFunc("GET /v1/bookings", s.handleListBookings)
	mux.HandleFunc("GET /v1/bookings/{id}/key", s.handleKeyFile)
	mux.HandleFunc("POST /v1/reader/verify", s.handleVerifyKey)
	mux.HandleFunc("POST /v1/replacekey/challenge", s.handleChallenge)

	handler := requestIDMiddleware(loggingMiddleware(d.Logger, mux))

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ── Rooms ────────────────────────────────────────────────────────────────────

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req types.RoomCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := s.rooms.Create(r.Context(), req.Number)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRoom):
			writeError(w, http.StatusBadRequest, "invalid_room", err.Error())
		case errors.Is(err, store.ErrRoomExists):
			writeError(w, http.StatusConflict, "room_exists", "room number is already registered")
		default:
			s.internalError(w, "create room", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.List(r.Context())
	if err != nil {
		s.internalError(w, "list rooms", err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleCurrentCode(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	code, err := s.rooms.CurrentCode(r.Context(), number)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRoom):
			writeError(w, http.StatusBadRequest, "invalid_room", err.Error())
		case errors.Is(err, store.ErrUnknownRoom):
			writeError(w, http.StatusNotFound, "unknown_room", "no such room")
		default:
			s.internalError(w, "current code", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, types.Room{Number: number, CurrentCode: code})
}

// ── Bookings ─────────────────────────────────────────────────────────────────

func (s *Server) handleIssueBooking(w http.ResponseWriter, r *http.Request) {
	var req types.IssueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.issuance.Issue(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRoom):
			writeError(w, http.StatusBadRequest, "invalid_room", err.Error())
		case errors.Is(err, service.ErrInvalidGuestName):
			writeError(w, http.StatusBadRequest, "invalid_guest_name", err.Error())
		case errors.Is(err, store.ErrUnknownRoom):
			writeError(w, http.StatusNotFound, "unknown_room", "no such room")
		case errors.Is(err, store.ErrCodeConflict):
			writeError(w, http.StatusConflict, "code_conflict", "room code changed concurrently; retry")
		default:
			s.internalError(w, "issue booking", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.ledger.List(r.Context(), r.URL.Query().Get("room"))
	if err != nil {
		s.internalError(w, "list bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleKeyFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_booking_id", "booking id must be an integer")
		return
	}

	key, err := s.ledger.KeyFile(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrBookingNotFound) {
			writeError(w, http.StatusNotFound, "booking_not_found", "no such booking")
			return
		}
		s.internalError(w, "key file", err)
		return
	}

	// The document itself is the printable key medium.
	w.Header().Set("Content-Disposition", `attachment; filename="key.json"`)
	writeJSON(w, http.StatusOK, key)
}

// ── Reader ───────────────────────────────────────────────────────────────────

func (s *Server) handleVerifyKey(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxKeyFileBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_body", "could not read key file")
		return
	}

	resp, err := s.reader.VerifyKey(r.Context(), body)
	if err != nil {
		if errors.Is(err, service.ErrMalformedKey) {
			writeError(w, http.StatusBadRequest, "malformed_key", "key file could not be parsed")
			return
		}
		// Storage failure: the key was not evaluated.  Distinct from any
		// verification outcome so readers don't treat it as a rejection.
		s.internalError(w, "verify key", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ── Replace key ──────────────────────────────────────────────────────────────

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	var req types.ChallengeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.identity.Challenge(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRoom) {
			writeError(w, http.StatusBadRequest, "invalid_room", err.Error())
			return
		}
		s.internalError(w, "challenge", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Printf("%s error: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
