package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSession publishes a stall under auction or raffle pricing
type CreateSession struct {
	StallID             string
	BranchID            string
	Kind                SessionKind
	Duration            time.Duration // zero picks the configured default
	StartingPrice       decimal.Decimal
	MinimumIncrement    decimal.Decimal
	RequireRegistration bool
	MaxParticipants     int
}

// PlaceBid is a bid submission for an auction session
type PlaceBid struct {
	SessionID string
	BidderID  string
	Amount    decimal.Decimal
}

// Register is a registration request for a session
type Register struct {
	SessionID   string
	ApplicantID string
}

// Withdraw releases an applicant's registration
type Withdraw struct {
	SessionID   string
	ApplicantID string
}

// Extend moves an open session's deadline forward
type Extend struct {
	SessionID  string
	By         time.Duration
	OperatorID string
	Reason     string
}

// Cancel terminates a non-terminal session without a winner
type Cancel struct {
	SessionID  string
	OperatorID string
	Reason     string
}

// BidResult is returned for an accepted bid
type BidResult struct {
	Bid        Bid
	NewHighest decimal.Decimal
	Session    Session
}

// RegistrationResult is returned for an accepted registration
type RegistrationResult struct {
	Participant Participant
	Session     Session
}

// Summary is the read model served to presentation clients
type Summary struct {
	Session          Session
	Remaining        time.Duration
	HighestBid       *Bid
	ParticipantCount int
	Winner           *WinnerRecord
}
