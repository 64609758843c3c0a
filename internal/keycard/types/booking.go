package types

type IssueRequest struct {
	Room       string `json:"room"`
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone,omitempty"`
}

type IssueResponse struct {
	OK            bool   `json:"ok"`
	Room          string `json:"room"`
	NewCode       string `json:"new_code"`
	PreviousCode  string `json:"previous_code"`
	LedgerEntryID int64  `json:"ledger_entry_id"`
	ServerTime    string `json:"server_time"`
}

// Booking is the JSON rendering of a ledger entry for the records API.
type Booking struct {
	ID           int64  `json:"id"`
	Room         string `json:"room"`
	Sequence     int64  `json:"sequence"`
	GuestName    string `json:"guest_name"`
	GuestPhone   string `json:"guest_phone,omitempty"`
	PreviousCode string `json:"previous_code"`
	NewCode      string `json:"new_code"`
	CreatedAt    string `json:"created_at"`
}

type ChallengeRequest struct {
	Room       string `json:"room"`
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`
}

// ChallengeResponse deliberately carries no detail about which half of the
// identity check failed.
type ChallengeResponse struct {
	Verified      bool  `json:"verified"`
	LedgerEntryID int64 `json:"ledger_entry_id,omitempty"`
}

type RoomCreateRequest struct {
	Number string `json:"number"`
}

type Room struct {
	Number      string `json:"number"`
	CurrentCode string `json:"current_code"`
	CreatedAt   string `json:"created_at,omitempty"`
}
