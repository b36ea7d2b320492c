package allocation

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
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

// SeedSource supplies the seed recorded with every raffle draw
type SeedSource func() (int64, error)

// CryptoSeed generates a seed using crypto/rand
func CryptoSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// FixedSeed always returns seed
func FixedSeed(seed int64) SeedSource {
	return func() (int64, error) { return seed, nil }
}

// DrawOrder sorts candidates into the canonical draw order (registration
// time, then participant ID) so a recorded seed always replays the same pick
func DrawOrder(candidates []model.Participant) []model.Participant {
	ordered := make([]model.Participant, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].RegisteredAt.Equal(ordered[j].RegisteredAt) {
			return ordered[i].RegisteredAt.Before(ordered[j].RegisteredAt)
		}
		return ordered[i].ParticipantID < ordered[j].ParticipantID
	})
	return ordered
}

// ReplayDraw returns the participant a draw with seed picks from candidates
func ReplayDraw(seed int64, candidates []model.Participant) (model.Participant, bool) {
	if len(candidates) == 0 {
		return model.Participant{}, false
	}
	ordered := DrawOrder(candidates)
	idx := rand.New(rand.NewSource(seed)).Intn(len(ordered))
	return ordered[idx], true
}

// WinnerSelector turns an Expired session into its single WinnerRecord
type WinnerSelector struct {
	store    repository.AllocationStore
	clock    clock.Clock
	seeds    SeedSource
	notifier notify.Notifier
	catalog  catalog.StallCatalog
}

// NewWinnerSelector creates a selector; a nil seeds uses CryptoSeed
func NewWinnerSelector(store repository.AllocationStore, clk clock.Clock, seeds SeedSource, notifier notify.Notifier, stalls catalog.StallCatalog) *WinnerSelector {
	if seeds == nil {
		seeds = CryptoSeed
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &WinnerSelector{
		store:    store,
		clock:    clk,
		seeds:    seeds,
		notifier: notifier,
		catalog:  stalls,
	}
}

// Select decides the winner of an Expired session. Calling it again for a
// session that already has a record returns that record unchanged.
func (w *WinnerSelector) Select(ctx context.Context, sessionID string) (model.WinnerRecord, error) {
	var (
		record  model.WinnerRecord
		session model.Session
		created bool
	)
	err := w.store.WithinSession(ctx, sessionID, func(tx repository.SessionTx) error {
		existing, found, err := tx.Winner()
		if err != nil {
			return err
		}
		if found {
			record = existing
			return nil
		}

		s := tx.Session()
		if s.Status != model.StatusExpired {
			return fmt.Errorf("%w - winner selection needs an expired session, %s is %s", allocationerrors.ErrInvalidTransition, s.SessionID, s.Status)
		}

		now := w.clock.Now()
		switch s.Kind {
		case model.KindAuction:
			record, err = w.highestBid(tx, s, now)
		case model.KindRaffle:
			record, err = w.randomDraw(tx, s, now)
		default:
			err = fmt.Errorf("unknown session kind %q", s.Kind)
		}
		if err != nil {
			return err
		}

		if err := transition(&s, model.StatusWinnerSelected, now); err != nil {
			return err
		}
		if err := tx.SaveWinner(record); err != nil {
			return err
		}
		if err := tx.UpdateSession(s); err != nil {
			return err
		}
		session = s
		created = true
		return nil
	})
	if err != nil {
		return model.WinnerRecord{}, fmt.Errorf("service: failed to select winner for session %s: %w", sessionID, err)
	}
	if !created {
		return record, nil
	}

	metrics.TrackTransition(string(session.Kind), string(model.StatusExpired), string(model.StatusWinnerSelected))
	metrics.TrackSelection(string(record.SelectionMethod), string(record.Outcome))
	utils.Info("winner selected", map[string]any{
		"session_id":      session.SessionID,
		"stall_id":        session.StallID,
		"outcome":         string(record.Outcome),
		"method":          string(record.SelectionMethod),
		"winner":          record.WinnerApplicantID,
		"seed":            record.Seed,
		"candidate_count": record.CandidateCount,
	})

	if w.catalog != nil {
		if err := w.catalog.ApplyOutcome(ctx, record); err != nil {
			utils.Error("catalog update failed", map[string]any{
				"session_id": session.SessionID,
				"stall_id":   session.StallID,
				"error":      err.Error(),
			})
		}
	}

	evType := notify.EventWinnerSelected
	if !record.Awarded() {
		evType = notify.EventNoWinner
	}
	ev := notify.NewEvent(evType, session, record.SelectedAt)
	ev.ApplicantID = record.WinnerApplicantID
	ev.Amount = record.WinningValue
	ev.Winner = &record
	emit(ctx, w.notifier, ev)

	return record, nil
}

func (w *WinnerSelector) highestBid(tx repository.SessionTx, s model.Session, now time.Time) (model.WinnerRecord, error) {
	record := model.WinnerRecord{
		SessionID:       s.SessionID,
		StallID:         s.StallID,
		Outcome:         model.OutcomeNoWinner,
		SelectedAt:      now,
		SelectionMethod: model.MethodHighestBid,
		CandidateCount:  s.BidCount,
	}

	bid, found, err := tx.HighestBid()
	if err != nil || !found {
		return record, err
	}
	amount := bid.Amount
	record.Outcome = model.OutcomeAwarded
	record.WinnerApplicantID = bid.BidderID
	record.WinningBidID = bid.BidID
	record.WinningValue = &amount
	return record, nil
}

func (w *WinnerSelector) randomDraw(tx repository.SessionTx, s model.Session, now time.Time) (model.WinnerRecord, error) {
	record := model.WinnerRecord{
		SessionID:       s.SessionID,
		StallID:         s.StallID,
		Outcome:         model.OutcomeNoWinner,
		SelectedAt:      now,
		SelectionMethod: model.MethodRandomDraw,
	}

	candidates, err := tx.ActiveParticipants()
	if err != nil {
		return record, err
	}
	record.CandidateCount = len(candidates)
	if len(candidates) == 0 {
		return record, nil
	}

	seed, err := w.seeds()
	if err != nil {
		return record, err
	}
	winner, _ := ReplayDraw(seed, candidates)
	record.Seed = seed
	record.Outcome = model.OutcomeAwarded
	record.WinnerApplicantID = winner.ApplicantID
	return record, nil
}
