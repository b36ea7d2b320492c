package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"stall-allocation/internal/allocationerrors"
	allocation "stall-allocation/internal/allocationService"
	model "stall-allocation/internal/models"
	"stall-allocation/internal/repository"
	"stall-allocation/internal/repository/postgres"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to ALLOC_TEST_POSTGRES_DSN and resets the schema
func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("ALLOC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ALLOC_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	client, err := postgres.New(ctx, postgres.ClientConfig{DSN: dsn, MaxConns: 16})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	require.NoError(t, client.RunMigrations(ctx))
	_, err = client.Pool().Exec(ctx, `TRUNCATE allocation_winners, allocation_bids, allocation_participants, allocation_sessions`)
	require.NoError(t, err)

	return postgres.NewStore(client.Pool(), 2*time.Second)
}

func testSession(id, stall string, kind model.SessionKind) model.Session {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := model.Session{
		SessionID: id,
		StallID:   stall,
		BranchID:  "b1",
		Kind:      kind,
		Status:    model.StatusAwaitingFirstActivity,
		CreatedAt: now,
		UpdatedAt: now,
		Duration:  time.Hour,
	}
	if kind == model.KindAuction {
		s.Auction = model.AuctionConfig{StartingPrice: decimal.RequireFromString("1000"), MinimumIncrement: decimal.RequireFromString("100")}
	}
	return s
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, testSession("s1", "stall-1", model.KindAuction)))

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, model.StatusAwaitingFirstActivity, got.Status)
	require.True(t, got.Auction.StartingPrice.Equal(decimal.RequireFromString("1000")))
	require.False(t, got.HasDeadline())

	err = store.CreateSession(ctx, testSession("s2", "stall-1", model.KindRaffle))
	require.ErrorIs(t, err, allocationerrors.ErrStallHasOpenSession)

	_, err = store.GetSession(ctx, "missing")
	require.ErrorIs(t, err, allocationerrors.ErrSessionNotFound)

	_, err = store.GetBids(ctx, "s1")
	require.ErrorIs(t, err, allocationerrors.ErrNoBids)
	_, err = store.GetWinner(ctx, "s1")
	require.ErrorIs(t, err, allocationerrors.ErrNoWinner)

	listed, err := store.ListSessions(ctx, model.StatusAwaitingFirstActivity)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestStore_WithinSessionRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateSession(ctx, testSession("s1", "stall-1", model.KindRaffle)))

	boom := errors.New("boom")
	err := store.WithinSession(ctx, "s1", func(tx repository.SessionTx) error {
		s := tx.Session()
		s.Status = model.StatusOpen
		if err := tx.UpdateSession(s); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, model.StatusAwaitingFirstActivity, got.Status)
}

func TestStore_GateScenarios(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := allocation.NewAllocationService(store, allocation.Dependencies{Seeds: allocation.FixedSeed(3)})

	auction, err := svc.CreateSession(ctx, model.CreateSession{
		StallID: "stall-a", BranchID: "b1", Kind: model.KindAuction, Duration: time.Hour,
		StartingPrice: decimal.RequireFromString("1000"), MinimumIncrement: decimal.RequireFromString("100"),
	})
	require.NoError(t, err)

	for _, amount := range []string{"1000", "1100"} {
		_, err := svc.PlaceBid(ctx, model.PlaceBid{SessionID: auction.SessionID, BidderID: "bidder-" + amount, Amount: decimal.RequireFromString(amount)})
		require.NoError(t, err)
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceBid(ctx, model.PlaceBid{SessionID: auction.SessionID, BidderID: fmt.Sprintf("racer-%d", i), Amount: decimal.RequireFromString("1200")})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, allocationerrors.ErrBidTooLow)
	}
	require.Equal(t, 1, accepted)

	highest, err := store.GetHighestBid(ctx, auction.SessionID)
	require.NoError(t, err)
	require.True(t, highest.Amount.Equal(decimal.RequireFromString("1200")))

	// branch cap across concurrent registrations
	var raffles []model.Session
	for i := 0; i < 4; i++ {
		s, err := svc.CreateSession(ctx, model.CreateSession{StallID: fmt.Sprintf("stall-r%d", i), BranchID: "b1", Kind: model.KindRaffle, Duration: time.Hour})
		require.NoError(t, err)
		raffles = append(raffles, s)
	}

	regErrs := make([]error, len(raffles))
	for i := range raffles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, regErrs[i] = svc.Register(ctx, model.Register{SessionID: raffles[i].SessionID, ApplicantID: "x"})
		}(i)
	}
	wg.Wait()

	registered := 0
	for _, err := range regErrs {
		if err == nil {
			registered++
			continue
		}
		require.ErrorIs(t, err, allocationerrors.ErrBranchCapExceeded)
	}
	require.Equal(t, 2, registered)
}
