package allocation

import (
	"context"
	"sync"
	"testing"
	"time"

	"stall-allocation/internal/catalog"
	"stall-allocation/internal/clock"
	model "stall-allocation/internal/models"
	"stall-allocation/internal/notify"
	"stall-allocation/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// recordingNotifier keeps every event it receives
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(ctx context.Context, ev notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingNotifier) count(t notify.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *recordingNotifier) last(t notify.EventType) (notify.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return notify.Event{}, false
}

type fixture struct {
	repo     *repository.MemoryRepo
	clock    *clock.Fake
	notifier *recordingNotifier
	catalog  *catalog.MemoryCatalog
	svc      *AllocationService
}

func newFixture(t *testing.T, settings Settings) *fixture {
	t.Helper()
	f := &fixture{
		repo:     repository.NewMemoryRepo(),
		clock:    clock.NewFake(t0),
		notifier: &recordingNotifier{},
		catalog:  catalog.NewMemoryCatalog(),
	}
	f.svc = NewAllocationService(f.repo, Dependencies{
		Clock:    f.clock,
		Notifier: f.notifier,
		Catalog:  f.catalog,
		Seeds:    FixedSeed(42),
		Settings: settings,
	})
	return f
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) auction(t *testing.T, stallID, branchID, start, increment string) model.Session {
	t.Helper()
	s, err := f.svc.CreateSession(context.Background(), model.CreateSession{
		StallID:          stallID,
		BranchID:         branchID,
		Kind:             model.KindAuction,
		Duration:         time.Hour,
		StartingPrice:    amt(start),
		MinimumIncrement: amt(increment),
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) raffle(t *testing.T, stallID, branchID string, maxParticipants int) model.Session {
	t.Helper()
	s, err := f.svc.CreateSession(context.Background(), model.CreateSession{
		StallID:         stallID,
		BranchID:        branchID,
		Kind:            model.KindRaffle,
		Duration:        time.Hour,
		MaxParticipants: maxParticipants,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) bid(t *testing.T, sessionID, bidder, amount string) (model.BidResult, error) {
	t.Helper()
	return f.svc.PlaceBid(context.Background(), model.PlaceBid{SessionID: sessionID, BidderID: bidder, Amount: amt(amount)})
}

func (f *fixture) register(t *testing.T, sessionID, applicant string) (model.RegistrationResult, error) {
	t.Helper()
	return f.svc.Register(context.Background(), model.Register{SessionID: sessionID, ApplicantID: applicant})
}

func (f *fixture) session(t *testing.T, sessionID string) model.Session {
	t.Helper()
	s, err := f.repo.GetSession(context.Background(), sessionID)
	require.NoError(t, err)
	return s
}
