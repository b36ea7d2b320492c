package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an accepted, immutable entry of an auction's bid ledger
type Bid struct {
	BidID       string          `json:"bid_id"`
	SessionID   string          `json:"session_id"`
	BidderID    string          `json:"bidder_id"`
	Amount      decimal.Decimal `json:"amount"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Sequence    int             `json:"sequence"`
}

// RegistrationStatus is the state of a participant row
type RegistrationStatus string

const (
	Registered RegistrationStatus = "registered"
	Withdrawn  RegistrationStatus = "withdrawn"
)

// Participant is an applicant registered for a session
type Participant struct {
	ParticipantID      string             `json:"participant_id"`
	SessionID          string             `json:"session_id"`
	BranchID           string             `json:"branch_id"`
	ApplicantID        string             `json:"applicant_id"`
	RegisteredAt       time.Time          `json:"registered_at"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	WithdrawnAt        time.Time          `json:"withdrawn_at,omitempty"`
}

// Active reports whether the registration still counts toward draws and caps
func (p Participant) Active() bool {
	return p.RegistrationStatus == Registered
}

// Outcome is the terminal result of a session
type Outcome string

const (
	OutcomeAwarded  Outcome = "awarded"
	OutcomeNoWinner Outcome = "no_winner"
)

// SelectionMethod records how the winner was chosen
type SelectionMethod string

const (
	MethodHighestBid SelectionMethod = "highest_bid"
	MethodRandomDraw SelectionMethod = "random_draw"
)

// WinnerRecord is written exactly once per session by the winner selector
type WinnerRecord struct {
	SessionID         string           `json:"session_id"`
	StallID           string           `json:"stall_id"`
	Outcome           Outcome          `json:"outcome"`
	WinnerApplicantID string           `json:"winner_applicant_id,omitempty"`
	WinningBidID      string           `json:"winning_bid_id,omitempty"`
	WinningValue      *decimal.Decimal `json:"winning_value,omitempty"`
	SelectedAt        time.Time        `json:"selected_at"`
	SelectionMethod   SelectionMethod  `json:"selection_method"`
	Seed              int64            `json:"seed"`
	CandidateCount    int              `json:"candidate_count"`
}

// Awarded reports whether the session produced a winner
func (w WinnerRecord) Awarded() bool {
	return w.Outcome == OutcomeAwarded
}
