package helpers

import (
	"strconv"
	"time"

	"stall-allocation/internal/catalog"
	model "stall-allocation/internal/models"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateSessionRequest struct {
	StallID             string          `json:"stall_id" binding:"required"`
	BranchID            string          `json:"branch_id" binding:"required"`
	Kind                string          `json:"kind" binding:"required,oneof=auction raffle"`
	Duration            string          `json:"duration"` // Go duration, e.g. "72h"; empty uses the default
	StartingPrice       decimal.Decimal `json:"starting_price"`
	MinimumIncrement    decimal.Decimal `json:"minimum_increment"`
	RequireRegistration bool            `json:"require_registration"`
	MaxParticipants     int             `json:"max_participants" binding:"gte=0"`
}

type PlaceBidRequest struct {
	BidderID string          `json:"bidder_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

type RegisterRequest struct {
	ApplicantID string `json:"applicant_id" binding:"required"`
}

type ExtendRequest struct {
	By         string `json:"by" binding:"required"`
	OperatorID string `json:"operator_id" binding:"required"`
	Reason     string `json:"reason"`
}

type CancelRequest struct {
	OperatorID string `json:"operator_id" binding:"required"`
	Reason     string `json:"reason"`
}

// Response DTOs

type SessionResponse struct {
	SessionID           string `json:"session_id"`
	StallID             string `json:"stall_id"`
	BranchID            string `json:"branch_id"`
	Kind                string `json:"kind"`
	Status              string `json:"status"`
	Deadline            string `json:"deadline,omitempty"`
	ExtensionCount      int    `json:"extension_count"`
	StartingPrice       string `json:"starting_price,omitempty"`
	MinimumIncrement    string `json:"minimum_increment,omitempty"`
	RequireRegistration bool   `json:"require_registration"`
	MaxParticipants     int    `json:"max_participants"`
	HighestAmount       string `json:"highest_amount,omitempty"`
	BidCount            int    `json:"bid_count"`
	ParticipantCount    int    `json:"participant_count"`
	CancelReason        string `json:"cancel_reason,omitempty"`
	CreatedAt           string `json:"created_at"`
}

type BidResponse struct {
	BidID       string `json:"bid_id"`
	SessionID   string `json:"session_id"`
	BidderID    string `json:"bidder_id"`
	Amount      string `json:"amount"`
	Sequence    int    `json:"sequence"`
	SubmittedAt string `json:"submitted_at"`
}

type BidResultResponse struct {
	Bid        BidResponse     `json:"bid"`
	NewHighest string          `json:"new_highest"`
	Session    SessionResponse `json:"session"`
}

type ParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
	SessionID     string `json:"session_id"`
	BranchID      string `json:"branch_id"`
	ApplicantID   string `json:"applicant_id"`
	Status        string `json:"registration_status"`
	RegisteredAt  string `json:"registered_at"`
	WithdrawnAt   string `json:"withdrawn_at,omitempty"`
}

type WinnerResponse struct {
	SessionID         string `json:"session_id"`
	StallID           string `json:"stall_id"`
	Outcome           string `json:"outcome"`
	WinnerApplicantID string `json:"winner_applicant_id,omitempty"`
	WinningBidID      string `json:"winning_bid_id,omitempty"`
	WinningValue      string `json:"winning_value,omitempty"`
	SelectionMethod   string `json:"selection_method"`
	Seed              int64  `json:"seed"`
	// decimal form of Seed for clients that parse JSON numbers as float64
	SeedString        string `json:"seed_string"`
	CandidateCount    int    `json:"candidate_count"`
	SelectedAt        string `json:"selected_at"`
}

type SummaryResponse struct {
	Session          SessionResponse `json:"session"`
	RemainingSeconds int64           `json:"remaining_seconds"`
	HighestBid       *BidResponse    `json:"highest_bid,omitempty"`
	ParticipantCount int             `json:"participant_count"`
	Winner           *WinnerResponse `json:"winner,omitempty"`
}

type StallResponse struct {
	StallID    string `json:"stall_id"`
	BranchID   string `json:"branch_id"`
	State      string `json:"state"`
	SessionID  string `json:"session_id,omitempty"`
	OccupantID string `json:"occupant_id,omitempty"`
	UpdatedAt  string `json:"updated_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ToSessionResponse(s model.Session) SessionResponse {
	resp := SessionResponse{
		SessionID:        s.SessionID,
		StallID:          s.StallID,
		BranchID:         s.BranchID,
		Kind:             string(s.Kind),
		Status:           string(s.Status),
		Deadline:         formatTime(s.Deadline),
		ExtensionCount:   s.ExtensionCount,
		BidCount:         s.BidCount,
		ParticipantCount: s.ParticipantCount,
		CancelReason:     s.CancelReason,
		CreatedAt:        formatTime(s.CreatedAt),
	}
	switch s.Kind {
	case model.KindAuction:
		resp.StartingPrice = s.Auction.StartingPrice.StringFixed(2)
		resp.MinimumIncrement = s.Auction.MinimumIncrement.StringFixed(2)
		resp.RequireRegistration = s.Auction.RequireRegistration
		if s.HasBids() {
			resp.HighestAmount = s.HighestAmount.StringFixed(2)
		}
	case model.KindRaffle:
		resp.MaxParticipants = s.Raffle.MaxParticipants
	}
	return resp
}

func ToBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:       b.BidID,
		SessionID:   b.SessionID,
		BidderID:    b.BidderID,
		Amount:      b.Amount.StringFixed(2),
		Sequence:    b.Sequence,
		SubmittedAt: b.SubmittedAt.UTC().Format(time.RFC3339Nano),
	}
}

func ToBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ToBidResponse(b))
	}
	return out
}

func ToParticipantResponse(p model.Participant) ParticipantResponse {
	return ParticipantResponse{
		ParticipantID: p.ParticipantID,
		SessionID:     p.SessionID,
		BranchID:      p.BranchID,
		ApplicantID:   p.ApplicantID,
		Status:        string(p.RegistrationStatus),
		RegisteredAt:  formatTime(p.RegisteredAt),
		WithdrawnAt:   formatTime(p.WithdrawnAt),
	}
}

func ToParticipantResponses(ps []model.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToParticipantResponse(p))
	}
	return out
}

func ToWinnerResponse(w model.WinnerRecord) WinnerResponse {
	resp := WinnerResponse{
		SessionID:         w.SessionID,
		StallID:           w.StallID,
		Outcome:           string(w.Outcome),
		WinnerApplicantID: w.WinnerApplicantID,
		WinningBidID:      w.WinningBidID,
		SelectionMethod:   string(w.SelectionMethod),
		Seed:              w.Seed,
		SeedString:        strconv.FormatInt(w.Seed, 10),
		CandidateCount:    w.CandidateCount,
		SelectedAt:        formatTime(w.SelectedAt),
	}
	if w.WinningValue != nil {
		resp.WinningValue = w.WinningValue.StringFixed(2)
	}
	return resp
}

func ToSummaryResponse(s model.Summary) SummaryResponse {
	resp := SummaryResponse{
		Session:          ToSessionResponse(s.Session),
		RemainingSeconds: int64(s.Remaining / time.Second),
		ParticipantCount: s.ParticipantCount,
	}
	if s.HighestBid != nil {
		b := ToBidResponse(*s.HighestBid)
		resp.HighestBid = &b
	}
	if s.Winner != nil {
		w := ToWinnerResponse(*s.Winner)
		resp.Winner = &w
	}
	return resp
}

func ToStallResponse(st catalog.Stall) StallResponse {
	return StallResponse{
		StallID:    st.StallID,
		BranchID:   st.BranchID,
		State:      string(st.State),
		SessionID:  st.SessionID,
		OccupantID: st.OccupantID,
		UpdatedAt:  formatTime(st.UpdatedAt),
	}
}
