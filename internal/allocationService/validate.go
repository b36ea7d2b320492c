package allocation

import (
	"strings"

	"stall-allocation/internal/allocationerrors"
	model "stall-allocation/internal/models"

	"github.com/shopspring/decimal"
)

// amounts carry at most cents
const amountPlaces = 2

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validAmount(d decimal.Decimal) bool {
	return d.Equal(d.Round(amountPlaces))
}

func validateCreate(cmd model.CreateSession) error {
	if blank(cmd.StallID) || blank(cmd.BranchID) {
		return allocationerrors.Invalid("missing stall_id or branch_id")
	}
	if !cmd.Kind.Valid() {
		return allocationerrors.Invalid("unknown session kind %q", cmd.Kind)
	}
	if cmd.Duration < 0 {
		return allocationerrors.Invalid("negative duration")
	}

	switch cmd.Kind {
	case model.KindAuction:
		if cmd.StartingPrice.IsNegative() || !validAmount(cmd.StartingPrice) {
			return allocationerrors.Invalid("starting price must be a non-negative amount with at most %d decimals", amountPlaces)
		}
		if !cmd.MinimumIncrement.IsPositive() || !validAmount(cmd.MinimumIncrement) {
			return allocationerrors.Invalid("minimum increment must be a positive amount with at most %d decimals", amountPlaces)
		}
		if cmd.MaxParticipants != 0 {
			return allocationerrors.Invalid("max participants only applies to raffles")
		}
	case model.KindRaffle:
		if cmd.MaxParticipants < 0 {
			return allocationerrors.Invalid("negative max participants")
		}
		if cmd.RequireRegistration || !cmd.StartingPrice.IsZero() || !cmd.MinimumIncrement.IsZero() {
			return allocationerrors.Invalid("price rules only apply to auctions")
		}
	}
	return nil
}

func validatePlaceBid(cmd model.PlaceBid) error {
	if blank(cmd.SessionID) || blank(cmd.BidderID) {
		return allocationerrors.Invalid("missing session_id or bidder_id")
	}
	if !cmd.Amount.IsPositive() {
		return allocationerrors.Invalid("non-positive bid amount")
	}
	if !validAmount(cmd.Amount) {
		return allocationerrors.Invalid("bid amount has more than %d decimals", amountPlaces)
	}
	return nil
}

func validateRegister(cmd model.Register) error {
	if blank(cmd.SessionID) || blank(cmd.ApplicantID) {
		return allocationerrors.Invalid("missing session_id or applicant_id")
	}
	return nil
}

func validateWithdraw(cmd model.Withdraw) error {
	if blank(cmd.SessionID) || blank(cmd.ApplicantID) {
		return allocationerrors.Invalid("missing session_id or applicant_id")
	}
	return nil
}

func validateExtend(cmd model.Extend) error {
	if blank(cmd.SessionID) || blank(cmd.OperatorID) {
		return allocationerrors.Invalid("missing session_id or operator_id")
	}
	if cmd.By <= 0 {
		return allocationerrors.Invalid("extension must be positive")
	}
	return nil
}

func validateCancel(cmd model.Cancel) error {
	if blank(cmd.SessionID) || blank(cmd.OperatorID) {
		return allocationerrors.Invalid("missing session_id or operator_id")
	}
	return nil
}
