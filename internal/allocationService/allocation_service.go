package allocation

import (
	"context"
	"errors"
	"fmt"

	"stall-allocation/internal/allocationerrors"
	"stall-allocation/internal/catalog"
	"stall-allocation/internal/clock"
	model "stall-allocation/internal/models"
	"stall-allocation/internal/notify"
	"stall-allocation/internal/repository"
	"stall-allocation/utils"
)

// Dependencies are the collaborators of the allocation service. Nil fields
// fall back to the system clock, a no-op notifier, crypto seeds and an
// in-memory catalog.
type Dependencies struct {
	Clock    clock.Clock
	Notifier notify.Notifier
	Catalog  catalog.StallCatalog
	Seeds    SeedSource
	Settings Settings
}

// AllocationService is the entry point used by the HTTP layer. It owns the
// admission gate, the winner selector and the scheduler over one store.
type AllocationService struct {
	repo      repository.AllocationStore
	clock     clock.Clock
	notifier  notify.Notifier
	catalog   catalog.StallCatalog
	gate      *AdmissionGate
	selector  *WinnerSelector
	scheduler *Scheduler
	settings  Settings
}

// NewAllocationService creates a new AllocationService instance
func NewAllocationService(repo repository.AllocationStore, deps Dependencies) *AllocationService {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.NewMemoryCatalog()
	}
	settings := deps.Settings.withDefaults()

	selector := NewWinnerSelector(repo, deps.Clock, deps.Seeds, deps.Notifier, deps.Catalog)
	return &AllocationService{
		repo:      repo,
		clock:     deps.Clock,
		notifier:  deps.Notifier,
		catalog:   deps.Catalog,
		gate:      NewAdmissionGate(repo, deps.Clock, deps.Notifier, settings),
		selector:  selector,
		scheduler: NewScheduler(repo, deps.Clock, selector, deps.Notifier, deps.Catalog, settings),
		settings:  settings,
	}
}

// Scheduler returns the scheduler, for running its sweep loop
func (s *AllocationService) Scheduler() *Scheduler {
	return s.scheduler
}

// RestoreCatalog replays every stored session into the stall catalog in
// creation order, so a catalog kept in memory matches a durable store after
// a restart. It returns the number of sessions replayed.
func (s *AllocationService) RestoreCatalog(ctx context.Context) (int, error) {
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to list sessions for catalog restore: %w", err)
	}

	restored := 0
	for _, session := range sessions {
		if err := s.restoreStall(ctx, session); err != nil {
			utils.Error("catalog restore failed", map[string]any{
				"session_id": session.SessionID,
				"stall_id":   session.StallID,
				"error":      err.Error(),
			})
			continue
		}
		restored++
	}
	utils.Info("catalog restored", map[string]any{"sessions": len(sessions), "restored": restored})
	return restored, nil
}

func (s *AllocationService) restoreStall(ctx context.Context, session model.Session) error {
	if err := s.catalog.MarkAllocating(ctx, session); err != nil {
		return err
	}
	switch session.Status {
	case model.StatusWinnerSelected:
		winner, err := s.repo.GetWinner(ctx, session.SessionID)
		if err != nil {
			return err
		}
		return s.catalog.ApplyOutcome(ctx, winner)
	case model.StatusCancelled:
		return s.catalog.Release(ctx, session)
	}
	return nil
}

// CreateSession publishes a stall under auction or raffle pricing
func (s *AllocationService) CreateSession(ctx context.Context, cmd model.CreateSession) (model.Session, error) {
	if err := validateCreate(cmd); err != nil {
		return model.Session{}, fmt.Errorf("service: %w", err)
	}

	session := newSession(cmd, s.settings, s.clock.Now())
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("service: failed to create session for stall %s: %w", cmd.StallID, err)
	}

	if err := s.catalog.MarkAllocating(ctx, session); err != nil {
		utils.Error("catalog update failed", map[string]any{
			"session_id": session.SessionID,
			"stall_id":   session.StallID,
			"error":      err.Error(),
		})
	}
	utils.Info("session created", map[string]any{
		"session_id": session.SessionID,
		"stall_id":   session.StallID,
		"branch_id":  session.BranchID,
		"kind":       string(session.Kind),
		"duration":   session.Duration.String(),
	})
	emit(ctx, s.notifier, notify.NewEvent(notify.EventSessionCreated, session, session.CreatedAt))

	return session, nil
}

// PlaceBid submits a bid through the admission gate
func (s *AllocationService) PlaceBid(ctx context.Context, cmd model.PlaceBid) (model.BidResult, error) {
	return s.gate.SubmitBid(ctx, cmd)
}

// Register submits a registration through the admission gate
func (s *AllocationService) Register(ctx context.Context, cmd model.Register) (model.RegistrationResult, error) {
	return s.gate.RegisterParticipant(ctx, cmd)
}

// Withdraw releases an applicant's registration
func (s *AllocationService) Withdraw(ctx context.Context, cmd model.Withdraw) (model.RegistrationResult, error) {
	return s.gate.WithdrawParticipant(ctx, cmd)
}

// Extend moves an open session's deadline forward
func (s *AllocationService) Extend(ctx context.Context, cmd model.Extend) (model.Session, error) {
	return s.scheduler.Extend(ctx, cmd)
}

// Cancel terminates a session without a winner
func (s *AllocationService) Cancel(ctx context.Context, cmd model.Cancel) (model.Session, error) {
	return s.scheduler.Cancel(ctx, cmd)
}

// GetSummary returns the read model of a session, closing it first when its
// deadline has passed since the last sweep
func (s *AllocationService) GetSummary(ctx context.Context, sessionID string) (model.Summary, error) {
	if blank(sessionID) {
		return model.Summary{}, fmt.Errorf("service: %w", allocationerrors.Invalid("empty session ID"))
	}

	session, err := s.scheduler.Evaluate(ctx, sessionID)
	if err != nil {
		return model.Summary{}, err
	}

	summary := model.Summary{
		Session:          session,
		ParticipantCount: session.ParticipantCount,
	}
	if session.Status == model.StatusOpen {
		summary.Remaining = clock.Remaining(session.Deadline, s.clock.Now())
	}

	if session.HasBids() {
		bid, err := s.repo.GetHighestBid(ctx, sessionID)
		if err != nil {
			return model.Summary{}, fmt.Errorf("service: failed to get highest bid for session %s: %w", sessionID, err)
		}
		summary.HighestBid = &bid
	}

	if session.Status == model.StatusWinnerSelected {
		winner, err := s.repo.GetWinner(ctx, sessionID)
		if err != nil {
			return model.Summary{}, fmt.Errorf("service: failed to get winner for session %s: %w", sessionID, err)
		}
		summary.Winner = &winner
	}

	return summary, nil
}

// ListSessions returns sessions, optionally filtered by status
func (s *AllocationService) ListSessions(ctx context.Context, statuses ...model.SessionStatus) ([]model.Session, error) {
	sessions, err := s.repo.ListSessions(ctx, statuses...)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetBids returns the bid ledger of a session in acceptance order
func (s *AllocationService) GetBids(ctx context.Context, sessionID string) ([]model.Bid, error) {
	if blank(sessionID) {
		return nil, fmt.Errorf("service: %w", allocationerrors.Invalid("empty session ID"))
	}

	bids, err := s.repo.GetBids(ctx, sessionID)
	if errors.Is(err, allocationerrors.ErrNoBids) {
		return []model.Bid{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for session %s: %w", sessionID, err)
	}
	return bids, nil
}

// GetParticipants returns every registration row of a session
func (s *AllocationService) GetParticipants(ctx context.Context, sessionID string) ([]model.Participant, error) {
	if blank(sessionID) {
		return nil, fmt.Errorf("service: %w", allocationerrors.Invalid("empty session ID"))
	}

	participants, err := s.repo.GetParticipants(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get participants for session %s: %w", sessionID, err)
	}
	return participants, nil
}

// GetWinner returns the winner record, selecting it first if the session is due
func (s *AllocationService) GetWinner(ctx context.Context, sessionID string) (model.WinnerRecord, error) {
	if blank(sessionID) {
		return model.WinnerRecord{}, fmt.Errorf("service: %w", allocationerrors.Invalid("empty session ID"))
	}

	if _, err := s.scheduler.Evaluate(ctx, sessionID); err != nil {
		return model.WinnerRecord{}, err
	}
	winner, err := s.repo.GetWinner(ctx, sessionID)
	if err != nil {
		return model.WinnerRecord{}, fmt.Errorf("service: failed to get winner for session %s: %w", sessionID, err)
	}
	return winner, nil
}

// GetParticipant returns the registration row of one applicant in a session
func (s *AllocationService) GetParticipant(ctx context.Context, sessionID, applicantID string) (model.Participant, error) {
	if blank(sessionID) || blank(applicantID) {
		return model.Participant{}, fmt.Errorf("service: %w", allocationerrors.Invalid("empty session or applicant ID"))
	}

	participants, err := s.GetParticipants(ctx, sessionID)
	if err != nil {
		return model.Participant{}, err
	}
	for _, p := range participants {
		if p.ApplicantID == applicantID {
			return p, nil
		}
	}
	return model.Participant{}, fmt.Errorf("service: %w - applicant %s in session %s", allocationerrors.ErrParticipantNotFound, applicantID, sessionID)
}

// GetRegistrationsByApplicant returns every registration an applicant holds
func (s *AllocationService) GetRegistrationsByApplicant(ctx context.Context, applicantID string) ([]model.Participant, error) {
	if blank(applicantID) {
		return nil, fmt.Errorf("service: %w", allocationerrors.Invalid("empty applicant ID"))
	}

	regs, err := s.repo.GetRegistrationsByApplicant(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get registrations for applicant %s: %w", applicantID, err)
	}
	return regs, nil
}

// GetStall returns the catalog entry of a stall
func (s *AllocationService) GetStall(ctx context.Context, stallID string) (catalog.Stall, error) {
	if blank(stallID) {
		return catalog.Stall{}, fmt.Errorf("service: %w", allocationerrors.Invalid("empty stall ID"))
	}

	st, err := s.catalog.GetStall(ctx, stallID)
	if err != nil {
		return catalog.Stall{}, fmt.Errorf("service: failed to get stall %s: %w", stallID, err)
	}
	return st, nil
}
