package allocation

import (
	"fmt"
	"time"

	"stall-allocation/internal/allocationerrors"
	"stall-allocation/internal/clock"
	model "stall-allocation/internal/models"
	"stall-allocation/utils"
)

// legal forward moves of the session lifecycle
var transitions = map[model.SessionStatus][]model.SessionStatus{
	model.StatusAwaitingFirstActivity: {model.StatusOpen, model.StatusCancelled},
	model.StatusOpen:                  {model.StatusExpired, model.StatusCancelled},
	model.StatusExpired:               {model.StatusWinnerSelected, model.StatusCancelled},
}

// CanTransition reports whether a session may move from one status to another
func CanTransition(from, to model.SessionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func transition(s *model.Session, to model.SessionStatus, now time.Time) error {
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("%w - session %s cannot move from %s to %s", allocationerrors.ErrInvalidTransition, s.SessionID, s.Status, to)
	}
	s.Status = to
	s.UpdatedAt = now
	return nil
}

// activate starts the session clock on its first qualifying event
func activate(s *model.Session, now time.Time) error {
	if err := transition(s, model.StatusOpen, now); err != nil {
		return err
	}
	s.Deadline = now.Add(s.Duration)
	return nil
}

// admitting rejects submissions against sessions that no longer take them.
// An Open session whose deadline has passed is treated as expired even
// before the scheduler marks it.
func admitting(s model.Session, now time.Time) error {
	switch s.Status {
	case model.StatusAwaitingFirstActivity:
		return nil
	case model.StatusOpen:
		if clock.Expired(s, now) {
			return allocationerrors.Reject(allocationerrors.ErrSessionExpired, "deadline %s has passed", s.Deadline.Format(time.RFC3339))
		}
		return nil
	case model.StatusExpired:
		return allocationerrors.Reject(allocationerrors.ErrSessionExpired, "session %s is awaiting winner selection", s.SessionID)
	default:
		return allocationerrors.Reject(allocationerrors.ErrSessionNotOpen, "session %s is %s", s.SessionID, s.Status)
	}
}

func newSession(cmd model.CreateSession, settings Settings, now time.Time) model.Session {
	s := model.Session{
		SessionID: utils.GenerateID(),
		StallID:   cmd.StallID,
		BranchID:  cmd.BranchID,
		Kind:      cmd.Kind,
		Status:    model.StatusAwaitingFirstActivity,
		CreatedAt: now,
		UpdatedAt: now,
		Duration:  cmd.Duration,
	}

	switch cmd.Kind {
	case model.KindAuction:
		if s.Duration == 0 {
			s.Duration = settings.AuctionDuration
		}
		s.Auction = model.AuctionConfig{
			StartingPrice:       cmd.StartingPrice,
			MinimumIncrement:    cmd.MinimumIncrement,
			RequireRegistration: cmd.RequireRegistration,
		}
	case model.KindRaffle:
		if s.Duration == 0 {
			s.Duration = settings.RaffleDuration
		}
		s.Raffle = model.RaffleConfig{MaxParticipants: cmd.MaxParticipants}
	}
	return s
}
