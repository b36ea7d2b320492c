package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stall-allocation/internal/allocationerrors"
	"stall-allocation/internal/catalog"
	"stall-allocation/internal/clock"
	"stall-allocation/internal/metrics"
	model "stall-allocation/internal/models"
	"stall-allocation/internal/notify"
	"stall-allocation/internal/repository"
	"stall-allocation/utils"
)

// SweepReport summarizes one pass of the scheduler
type SweepReport struct {
	Scanned  int
	Expired  int
	Resolved int
	Faults   int
}

// Scheduler closes sessions whose deadline has passed and applies operator
// extensions and cancellations
type Scheduler struct {
	store    repository.AllocationStore
	clock    clock.Clock
	selector *WinnerSelector
	notifier notify.Notifier
	catalog  catalog.StallCatalog
	settings Settings
}

// NewScheduler creates a scheduler that hands expired sessions to selector
func NewScheduler(store repository.AllocationStore, clk clock.Clock, selector *WinnerSelector, notifier notify.Notifier, stalls catalog.StallCatalog, settings Settings) *Scheduler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Scheduler{
		store:    store,
		clock:    clk,
		selector: selector,
		notifier: notifier,
		catalog:  stalls,
		settings: settings.withDefaults(),
	}
}

// Run sweeps at the configured interval until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.settings.SweepInterval)
	defer ticker.Stop()

	utils.Info("scheduler started", map[string]any{"interval": s.settings.SweepInterval.String()})
	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			utils.Info("scheduler stopped", nil)
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep expires every Open session past its deadline and resolves every
// Expired session, including ones left behind by a crash. Failures are
// logged and the affected session is retried on the next sweep.
func (s *Scheduler) Sweep(ctx context.Context) SweepReport {
	started := time.Now()
	var report SweepReport

	sessions, err := s.store.ListSessions(ctx, model.StatusOpen, model.StatusExpired)
	if err != nil {
		s.fault("list sessions", "", err)
		report.Faults++
		metrics.TrackSweep("fault", started)
		return report
	}

	now := s.clock.Now()
	for _, session := range sessions {
		if ctx.Err() != nil {
			break
		}
		report.Scanned++

		if session.Status == model.StatusOpen {
			if !clock.Expired(session, now) {
				continue
			}
			expired, err := s.expire(ctx, session.SessionID)
			if err != nil {
				s.fault("expire session", session.SessionID, err)
				report.Faults++
				continue
			}
			if !expired {
				continue
			}
			report.Expired++
		}

		if _, err := s.selector.Select(ctx, session.SessionID); err != nil {
			// cancelled between listing and selection
			if errors.Is(err, allocationerrors.ErrInvalidTransition) {
				continue
			}
			s.fault("select winner", session.SessionID, err)
			report.Faults++
			continue
		}
		report.Resolved++
	}

	result := "ok"
	if report.Faults > 0 {
		result = "fault"
	}
	metrics.TrackSweep(result, started)
	if report.Expired > 0 || report.Resolved > 0 || report.Faults > 0 {
		utils.Info("sweep finished", map[string]any{
			"scanned":  report.Scanned,
			"expired":  report.Expired,
			"resolved": report.Resolved,
			"faults":   report.Faults,
			"duration": time.Since(started).String(),
		})
	}
	return report
}

// Evaluate brings one session up to date with the clock: it expires the
// session if its deadline passed and selects the winner of an Expired one.
// It returns the session as it stands afterwards.
func (s *Scheduler) Evaluate(ctx context.Context, sessionID string) (model.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return model.Session{}, fmt.Errorf("service: failed to get session %s: %w", sessionID, err)
	}

	due := session.Status == model.StatusExpired ||
		(session.Status == model.StatusOpen && clock.Expired(session, s.clock.Now()))
	if !due {
		return session, nil
	}

	if session.Status == model.StatusOpen {
		if _, err := s.expire(ctx, sessionID); err != nil {
			return model.Session{}, err
		}
	}
	if _, err := s.selector.Select(ctx, sessionID); err != nil && !errors.Is(err, allocationerrors.ErrInvalidTransition) {
		return model.Session{}, err
	}

	session, err = s.store.GetSession(ctx, sessionID)
	if err != nil {
		return model.Session{}, fmt.Errorf("service: failed to get session %s: %w", sessionID, err)
	}
	return session, nil
}

// expire marks an Open session past its deadline as Expired. It reports
// false when another caller already moved the session on.
func (s *Scheduler) expire(ctx context.Context, sessionID string) (bool, error) {
	var session model.Session
	expired := false
	err := s.store.WithinSession(ctx, sessionID, func(tx repository.SessionTx) error {
		current := tx.Session()
		now := s.clock.Now()
		if current.Status != model.StatusOpen || !clock.Expired(current, now) {
			return nil
		}
		if err := transition(&current, model.StatusExpired, now); err != nil {
			return err
		}
		if err := tx.UpdateSession(current); err != nil {
			return err
		}
		session = current
		expired = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("service: failed to expire session %s: %w", sessionID, err)
	}
	if expired {
		metrics.TrackTransition(string(session.Kind), string(model.StatusOpen), string(model.StatusExpired))
		emit(ctx, s.notifier, notify.NewEvent(notify.EventSessionExpired, session, session.UpdatedAt))
	}
	return expired, nil
}

// Extend moves the deadline of an Open session forward
func (s *Scheduler) Extend(ctx context.Context, cmd model.Extend) (model.Session, error) {
	if err := validateExtend(cmd); err != nil {
		return model.Session{}, fmt.Errorf("service: %w", err)
	}

	var session model.Session
	err := s.store.WithinSession(ctx, cmd.SessionID, func(tx repository.SessionTx) error {
		current := tx.Session()
		now := s.clock.Now()

		if current.Status != model.StatusOpen {
			return fmt.Errorf("%w - session %s is %s", allocationerrors.ErrExtensionNotAllowed, current.SessionID, current.Status)
		}
		if clock.Expired(current, now) {
			return fmt.Errorf("%w - deadline of session %s has passed", allocationerrors.ErrExtensionNotAllowed, current.SessionID)
		}
		// TotalExtension + By can overflow
		if remaining := s.settings.MaxTotalExtension - current.TotalExtension; cmd.By > remaining {
			return fmt.Errorf("%w - %s requested, %s of %s left", allocationerrors.ErrExtensionLimitExceeded, cmd.By, remaining, s.settings.MaxTotalExtension)
		}

		current.Deadline = current.Deadline.Add(cmd.By)
		current.ExtensionCount++
		current.TotalExtension += cmd.By
		current.UpdatedAt = now
		if err := tx.UpdateSession(current); err != nil {
			return err
		}
		session = current
		return nil
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("service: failed to extend session %s: %w", cmd.SessionID, err)
	}

	utils.Info("session extended", map[string]any{
		"session_id":  session.SessionID,
		"operator_id": cmd.OperatorID,
		"by":          cmd.By.String(),
		"reason":      cmd.Reason,
		"deadline":    session.Deadline,
	})
	ev := notify.NewEvent(notify.EventSessionExtended, session, session.UpdatedAt)
	ev.Detail = cmd.Reason
	emit(ctx, s.notifier, ev)

	return session, nil
}

// Cancel terminates a non-terminal session without a winner
func (s *Scheduler) Cancel(ctx context.Context, cmd model.Cancel) (model.Session, error) {
	if err := validateCancel(cmd); err != nil {
		return model.Session{}, fmt.Errorf("service: %w", err)
	}

	var (
		session model.Session
		from    model.SessionStatus
	)
	err := s.store.WithinSession(ctx, cmd.SessionID, func(tx repository.SessionTx) error {
		current := tx.Session()
		from = current.Status
		if err := transition(&current, model.StatusCancelled, s.clock.Now()); err != nil {
			return err
		}
		current.CancelReason = cmd.Reason
		if err := tx.UpdateSession(current); err != nil {
			return err
		}
		session = current
		return nil
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("service: failed to cancel session %s: %w", cmd.SessionID, err)
	}

	metrics.TrackTransition(string(session.Kind), string(from), string(model.StatusCancelled))
	utils.Info("session cancelled", map[string]any{
		"session_id":  session.SessionID,
		"operator_id": cmd.OperatorID,
		"reason":      cmd.Reason,
	})
	if s.catalog != nil {
		if err := s.catalog.Release(ctx, session); err != nil {
			utils.Error("catalog release failed", map[string]any{
				"session_id": session.SessionID,
				"stall_id":   session.StallID,
				"error":      err.Error(),
			})
		}
	}
	ev := notify.NewEvent(notify.EventSessionCancelled, session, session.UpdatedAt)
	ev.Detail = cmd.Reason
	emit(ctx, s.notifier, ev)

	return session, nil
}

func (s *Scheduler) fault(step, sessionID string, err error) {
	utils.Error("scheduler fault", map[string]any{
		"step":       step,
		"session_id": sessionID,
		"error":      fmt.Errorf("%w: %w", allocationerrors.ErrSchedulerFault, err).Error(),
	})
}
