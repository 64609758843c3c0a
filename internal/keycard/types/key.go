package types

// KeyVersion is the presented-key file format version this server
// understands.  Anything else is rejected outright, never best-guessed.
const KeyVersion = 1

// PresentedKey is the record written onto a physical key medium at issuance
// time.  It embeds both the code that was current when the card was printed
// and the code it replaced; the pair is what lets a lagging authority
// catch up by exactly one generation.  Media are never rewritten after
// printing.
type PresentedKey struct {
	Version      int    `json:"version"`
	Room         string `json:"room"`
	Code         string `json:"code"`
	PreviousCode string `json:"previous_code"`
}

// VerificationOutcome is the result of presenting a key to the reader
// endpoint.
type VerificationOutcome string

const (
	// OutcomeValid: the embedded code matches the room's current code.
	OutcomeValid VerificationOutcome = "valid"

	// OutcomeValidCatchUp: the room's current code matched the key's
	// previous code — the authority lagged one rotation behind the medium
	// and has been advanced to the embedded code.
	OutcomeValidCatchUp VerificationOutcome = "valid_catch_up"

	// OutcomeInvalid: no match within the one-generation skew tolerance,
	// or the room is unknown.
	OutcomeInvalid VerificationOutcome = "invalid"

	// OutcomeUnsupportedVersion: the key declares a format version this
	// verifier does not implement.
	OutcomeUnsupportedVersion VerificationOutcome = "unsupported_version"
)

type VerifyResponse struct {
	OK         bool                `json:"ok"`
	Outcome    VerificationOutcome `json:"outcome"`
	Room       string              `json:"room,omitempty"`
	Reason     string              `json:"reason,omitempty"`
	ServerTime string              `json:"server_time"`
}
