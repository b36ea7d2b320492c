package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stall-allocation/internal/allocationerrors"
	"stall-allocation/internal/clock"
	"stall-allocation/internal/metrics"
	model "stall-allocation/internal/models"
	"stall-allocation/internal/notify"
	"stall-allocation/internal/repository"
	"stall-allocation/utils"

	"github.com/shopspring/decimal"
)

const (
	opSubmitBid = "submit_bid"
	opRegister  = "register"
	opWithdraw  = "withdraw"
)

// AdmissionGate is the only writer of bids and registrations. Each decision
// reads and writes the session inside one WithinSession unit, so two
// submissions against the same session are always evaluated one after the other.
type AdmissionGate struct {
	store    repository.AllocationStore
	clock    clock.Clock
	notifier notify.Notifier
	settings Settings
}

// NewAdmissionGate creates a gate over store
func NewAdmissionGate(store repository.AllocationStore, clk clock.Clock, notifier notify.Notifier, settings Settings) *AdmissionGate {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AdmissionGate{
		store:    store,
		clock:    clk,
		notifier: notifier,
		settings: settings.withDefaults(),
	}
}

// MinimumBid is the lowest amount the next bid must reach
func MinimumBid(s model.Session) decimal.Decimal {
	if !s.HasBids() {
		return s.Auction.StartingPrice
	}
	next := s.HighestAmount.Add(s.Auction.MinimumIncrement)
	if next.LessThan(s.Auction.StartingPrice) {
		return s.Auction.StartingPrice
	}
	return next
}

// startsOnRegistration reports whether a registration is a qualifying first
// event. Raffles open on their first entrant; auctions that require
// registration open on their first registered bidder.
func startsOnRegistration(s model.Session) bool {
	return s.Kind == model.KindRaffle || s.Auction.RequireRegistration
}

// SubmitBid admits a bid into an auction's ledger
func (g *AdmissionGate) SubmitBid(ctx context.Context, cmd model.PlaceBid) (model.BidResult, error) {
	started := time.Now()
	if err := validatePlaceBid(cmd); err != nil {
		g.track(opSubmitBid, err, started)
		return model.BidResult{}, fmt.Errorf("service: %w", err)
	}

	var (
		result    model.BidResult
		activated bool
	)
	err := g.withRetry(ctx, opSubmitBid, func() error {
		activated = false
		return g.store.WithinSession(ctx, cmd.SessionID, func(tx repository.SessionTx) error {
			s := tx.Session()
			now := g.clock.Now()

			if s.Kind != model.KindAuction {
				return allocationerrors.Invalid("session %s is a %s and does not take bids", s.SessionID, s.Kind)
			}
			if err := admitting(s, now); err != nil {
				return err
			}
			if s.Auction.RequireRegistration {
				p, ok, err := tx.Participant(cmd.BidderID)
				if err != nil {
					return err
				}
				if !ok || !p.Active() {
					return allocationerrors.Reject(allocationerrors.ErrNotRegistered, "bidder %s", cmd.BidderID)
				}
			}

			highest, hasHighest, err := tx.HighestBid()
			if err != nil {
				return err
			}
			if minimum := MinimumBid(s); cmd.Amount.LessThan(minimum) {
				return allocationerrors.Reject(allocationerrors.ErrBidTooLow, "minimum acceptable bid is %s", minimum.StringFixed(amountPlaces))
			}

			// ledger timestamps strictly increase even if the clock does not.
			// Postgres keeps microseconds, so compare at that precision.
			submittedAt := now.Truncate(time.Microsecond)
			if hasHighest && !submittedAt.After(highest.SubmittedAt) {
				submittedAt = highest.SubmittedAt.Add(time.Microsecond)
			}

			bid := model.Bid{
				BidID:       utils.GenerateID(),
				SessionID:   s.SessionID,
				BidderID:    cmd.BidderID,
				Amount:      cmd.Amount,
				SubmittedAt: submittedAt,
				Sequence:    s.BidCount + 1,
			}
			if err := tx.AppendBid(bid); err != nil {
				return err
			}

			s.HighestBidID = bid.BidID
			s.HighestAmount = bid.Amount
			s.BidCount++
			s.UpdatedAt = now
			if s.Status == model.StatusAwaitingFirstActivity {
				if err := activate(&s, now); err != nil {
					return err
				}
				activated = true
			}
			if err := tx.UpdateSession(s); err != nil {
				return err
			}

			result = model.BidResult{Bid: bid, NewHighest: bid.Amount, Session: s}
			return nil
		})
	})
	g.track(opSubmitBid, err, started)
	if err != nil {
		return model.BidResult{}, g.wrap(err, "submit bid for session %s by %s", cmd.SessionID, cmd.BidderID)
	}

	if activated {
		metrics.TrackTransition(string(result.Session.Kind), string(model.StatusAwaitingFirstActivity), string(model.StatusOpen))
		g.emit(ctx, notify.NewEvent(notify.EventSessionOpened, result.Session, result.Bid.SubmittedAt))
	}
	ev := notify.NewEvent(notify.EventBidAccepted, result.Session, result.Bid.SubmittedAt)
	ev.ApplicantID = cmd.BidderID
	amount := result.Bid.Amount
	ev.Amount = &amount
	g.emit(ctx, ev)

	return result, nil
}

// RegisterParticipant admits an applicant into a session's registry
func (g *AdmissionGate) RegisterParticipant(ctx context.Context, cmd model.Register) (model.RegistrationResult, error) {
	started := time.Now()
	if err := validateRegister(cmd); err != nil {
		g.track(opRegister, err, started)
		return model.RegistrationResult{}, fmt.Errorf("service: %w", err)
	}

	var (
		result    model.RegistrationResult
		activated bool
	)
	err := g.withRetry(ctx, opRegister, func() error {
		activated = false
		return g.store.WithinSession(ctx, cmd.SessionID, func(tx repository.SessionTx) error {
			s := tx.Session()
			now := g.clock.Now()

			if err := admitting(s, now); err != nil {
				return err
			}

			existing, found, err := tx.Participant(cmd.ApplicantID)
			if err != nil {
				return err
			}
			if found && existing.Active() {
				return allocationerrors.Reject(allocationerrors.ErrAlreadyRegistered, "applicant %s in session %s", cmd.ApplicantID, s.SessionID)
			}
			if s.Kind == model.KindRaffle && s.Raffle.MaxParticipants > 0 && s.ParticipantCount >= s.Raffle.MaxParticipants {
				return allocationerrors.Reject(allocationerrors.ErrSessionFull, "limit is %d", s.Raffle.MaxParticipants)
			}

			if err := tx.LockApplicant(s.BranchID, cmd.ApplicantID); err != nil {
				return err
			}
			active, err := tx.ActiveRegistrationsInBranch(s.BranchID, cmd.ApplicantID)
			if err != nil {
				return err
			}
			if active >= g.settings.BranchCap {
				return allocationerrors.Reject(allocationerrors.ErrBranchCapExceeded, "applicant %s holds %d of %d registrations in branch %s", cmd.ApplicantID, active, g.settings.BranchCap, s.BranchID)
			}

			// a withdrawn applicant coming back keeps its participant ID
			p := model.Participant{
				ParticipantID:      utils.GenerateID(),
				SessionID:          s.SessionID,
				BranchID:           s.BranchID,
				ApplicantID:        cmd.ApplicantID,
				RegisteredAt:       now,
				RegistrationStatus: model.Registered,
			}
			if found {
				p.ParticipantID = existing.ParticipantID
			}
			if err := tx.SaveParticipant(p); err != nil {
				return err
			}

			s.ParticipantCount++
			s.UpdatedAt = now
			if startsOnRegistration(s) && s.Status == model.StatusAwaitingFirstActivity {
				if err := activate(&s, now); err != nil {
					return err
				}
				activated = true
			}
			if err := tx.UpdateSession(s); err != nil {
				return err
			}

			result = model.RegistrationResult{Participant: p, Session: s}
			return nil
		})
	})
	g.track(opRegister, err, started)
	if err != nil {
		return model.RegistrationResult{}, g.wrap(err, "register applicant %s for session %s", cmd.ApplicantID, cmd.SessionID)
	}

	if activated {
		metrics.TrackTransition(string(result.Session.Kind), string(model.StatusAwaitingFirstActivity), string(model.StatusOpen))
		g.emit(ctx, notify.NewEvent(notify.EventSessionOpened, result.Session, result.Participant.RegisteredAt))
	}
	ev := notify.NewEvent(notify.EventParticipantRegistered, result.Session, result.Participant.RegisteredAt)
	ev.ApplicantID = cmd.ApplicantID
	g.emit(ctx, ev)

	return result, nil
}

// WithdrawParticipant releases an active registration while the session is
// still admitting, freeing one slot of the applicant's branch cap
func (g *AdmissionGate) WithdrawParticipant(ctx context.Context, cmd model.Withdraw) (model.RegistrationResult, error) {
	started := time.Now()
	if err := validateWithdraw(cmd); err != nil {
		g.track(opWithdraw, err, started)
		return model.RegistrationResult{}, fmt.Errorf("service: %w", err)
	}

	var result model.RegistrationResult
	err := g.withRetry(ctx, opWithdraw, func() error {
		return g.store.WithinSession(ctx, cmd.SessionID, func(tx repository.SessionTx) error {
			s := tx.Session()
			now := g.clock.Now()

			if err := admitting(s, now); err != nil {
				return err
			}
			p, found, err := tx.Participant(cmd.ApplicantID)
			if err != nil {
				return err
			}
			if !found || !p.Active() {
				return allocationerrors.Reject(allocationerrors.ErrNotParticipant, "applicant %s in session %s", cmd.ApplicantID, s.SessionID)
			}
			if err := tx.LockApplicant(s.BranchID, cmd.ApplicantID); err != nil {
				return err
			}

			p.RegistrationStatus = model.Withdrawn
			p.WithdrawnAt = now
			if err := tx.SaveParticipant(p); err != nil {
				return err
			}
			s.ParticipantCount--
			s.UpdatedAt = now
			if err := tx.UpdateSession(s); err != nil {
				return err
			}

			result = model.RegistrationResult{Participant: p, Session: s}
			return nil
		})
	})
	g.track(opWithdraw, err, started)
	if err != nil {
		return model.RegistrationResult{}, g.wrap(err, "withdraw applicant %s from session %s", cmd.ApplicantID, cmd.SessionID)
	}

	ev := notify.NewEvent(notify.EventParticipantWithdrawn, result.Session, result.Participant.WithdrawnAt)
	ev.ApplicantID = cmd.ApplicantID
	g.emit(ctx, ev)

	return result, nil
}

// withRetry reruns attempt after a concurrency conflict, backing off linearly
func (g *AdmissionGate) withRetry(ctx context.Context, op string, attempt func() error) error {
	var err error
	for i := 0; i <= g.settings.AdmissionRetries; i++ {
		if i > 0 {
			metrics.TrackConflict(op)
			utils.Warn("admission conflict, retrying", map[string]any{
				"operation": op,
				"attempt":   i,
				"error":     err.Error(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * g.settings.RetryBackoff):
			}
		}
		err = attempt()
		if !errors.Is(err, allocationerrors.ErrConcurrencyConflict) {
			return err
		}
	}
	metrics.TrackConflict(op)
	return err
}

func (g *AdmissionGate) wrap(err error, format string, args ...any) error {
	if allocationerrors.IsAdmissionRejected(err) {
		return err
	}
	return fmt.Errorf("service: failed to %s: %w", fmt.Sprintf(format, args...), err)
}

func (g *AdmissionGate) track(op string, err error, started time.Time) {
	switch {
	case err == nil:
		metrics.TrackAdmission(op, metrics.OutcomeAccepted, "", started)
	case allocationerrors.IsAdmissionRejected(err):
		reason, _ := allocationerrors.ReasonOf(err)
		metrics.TrackAdmission(op, metrics.OutcomeRejected, string(reason), started)
	case errors.Is(err, allocationerrors.ErrInvalidRequest):
		metrics.TrackAdmission(op, metrics.OutcomeInvalid, "", started)
	default:
		metrics.TrackAdmission(op, metrics.OutcomeError, "", started)
	}
}

func (g *AdmissionGate) emit(ctx context.Context, ev notify.Event) {
	emit(ctx, g.notifier, ev)
}

// emit hands ev to the notifier; failures are logged and never surface
func emit(ctx context.Context, n notify.Notifier, ev notify.Event) {
	if err := n.Notify(ctx, ev); err != nil {
		utils.Warn("notification failed", map[string]any{
			"event":      string(ev.Type),
			"session_id": ev.SessionID,
			"error":      err.Error(),
		})
	}
}
