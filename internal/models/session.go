package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionKind is the pricing mode a stall was published under
type SessionKind string

const (
	KindAuction SessionKind = "auction"
	KindRaffle  SessionKind = "raffle"
)

// Valid reports whether k is a known session kind
func (k SessionKind) Valid() bool {
	return k == KindAuction || k == KindRaffle
}

// SessionStatus is a state of the allocation session lifecycle
type SessionStatus string

const (
	StatusAwaitingFirstActivity SessionStatus = "awaiting_first_activity"
	StatusOpen                  SessionStatus = "open"
	StatusExpired               SessionStatus = "expired"
	StatusWinnerSelected        SessionStatus = "winner_selected"
	StatusCancelled             SessionStatus = "cancelled"
)

// IsTerminal reports whether no further transition can leave this status
func (s SessionStatus) IsTerminal() bool {
	return s == StatusWinnerSelected || s == StatusCancelled
}

// AuctionConfig holds the price rules of an auction session
type AuctionConfig struct {
	StartingPrice       decimal.Decimal `json:"starting_price"`
	MinimumIncrement    decimal.Decimal `json:"minimum_increment"`
	RequireRegistration bool            `json:"require_registration"`
}

// RaffleConfig holds the entry rules of a raffle session. Zero MaxParticipants means unlimited.
type RaffleConfig struct {
	MaxParticipants int `json:"max_participants"`
}

// Session is the per-stall allocation record for one auction or raffle
type Session struct {
	SessionID      string        `json:"session_id"`
	StallID        string        `json:"stall_id"`
	BranchID       string        `json:"branch_id"`
	Kind           SessionKind   `json:"kind"`
	Status         SessionStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Duration       time.Duration `json:"duration"`
	Deadline       time.Time     `json:"deadline"` // zero until the clock starts
	ExtensionCount int           `json:"extension_count"`
	TotalExtension time.Duration `json:"total_extension"`
	Auction        AuctionConfig `json:"auction"`
	Raffle         RaffleConfig  `json:"raffle"`

	// cached under the same atomic step as ledger/registry writes
	HighestBidID     string          `json:"highest_bid_id"`
	HighestAmount    decimal.Decimal `json:"highest_amount"`
	BidCount         int             `json:"bid_count"`
	ParticipantCount int             `json:"participant_count"`

	CancelReason string `json:"cancel_reason,omitempty"`
}

// HasDeadline reports whether the session clock has been started
func (s Session) HasDeadline() bool {
	return !s.Deadline.IsZero()
}

// HasBids reports whether at least one bid was accepted
func (s Session) HasBids() bool {
	return s.HighestBidID != ""
}
