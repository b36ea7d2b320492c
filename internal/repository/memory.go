package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"stall-allocation/internal/allocationerrors"
	model "stall-allocation/internal/models"
)

const defaultLockTimeout = 5 * time.Second

type sessionRecord struct {
	session      model.Session
	bids         []model.Bid
	participants []model.Participant
	byApplicant  map[string]int // applicantID -> index in participants
	winner       *model.WinnerRecord
}

// MemoryRepo is a concurrency-safe in-memory implementation of AllocationStore.
// mu guards the maps and record contents; sessionLocks serialize atomic units
// per session and applicantLocks serialize registrations per applicant+branch.
type MemoryRepo struct {
	mu                sync.RWMutex
	sessions          map[string]*sessionRecord
	openStalls        map[string]string   // stallID -> sessionID of its non-terminal session
	applicantSessions map[string][]string // applicantID -> sessionIDs they registered for

	sessionLocks   *KeyedLocker
	applicantLocks *KeyedLocker
	lockTimeout    time.Duration
}

// MemoryOption configures a MemoryRepo
type MemoryOption func(*MemoryRepo)

// WithLockTimeout bounds how long an atomic unit waits for a session lock
// before failing with ErrConcurrencyConflict
func WithLockTimeout(d time.Duration) MemoryOption {
	return func(r *MemoryRepo) {
		if d > 0 {
			r.lockTimeout = d
		}
	}
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo(opts ...MemoryOption) *MemoryRepo {
	r := &MemoryRepo{
		sessions:          make(map[string]*sessionRecord),
		openStalls:        make(map[string]string),
		applicantSessions: make(map[string][]string),
		sessionLocks:      NewKeyedLocker(),
		applicantLocks:    NewKeyedLocker(),
		lockTimeout:       defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateSession stores a new session, enforcing one non-terminal session per stall
func (r *MemoryRepo) CreateSession(ctx context.Context, session model.Session) error {
	if session.SessionID == "" || session.StallID == "" {
		return fmt.Errorf("repository: create session: %w - missing session or stall id", allocationerrors.ErrInvalidRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.SessionID]; exists {
		return fmt.Errorf("repository: create session %s: %w - duplicate session id", session.SessionID, allocationerrors.ErrInvalidRequest)
	}
	if openID, busy := r.openStalls[session.StallID]; busy {
		return fmt.Errorf("repository: create session for stall %s (open: %s): %w", session.StallID, openID, allocationerrors.ErrStallHasOpenSession)
	}

	r.sessions[session.SessionID] = &sessionRecord{
		session:     session,
		byApplicant: make(map[string]int),
	}
	if !session.Status.IsTerminal() {
		r.openStalls[session.StallID] = session.SessionID
	}
	return nil
}

// GetSession returns the committed snapshot of a session
func (r *MemoryRepo) GetSession(ctx context.Context, sessionID string) (model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[sessionID]
	if !ok {
		return model.Session{}, fmt.Errorf("repository: get session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}
	return rec.session, nil
}

// ListSessions returns sessions in any of the given statuses, or all sessions
// when none are given, ordered by creation time
func (r *MemoryRepo) ListSessions(ctx context.Context, statuses ...model.SessionStatus) ([]model.Session, error) {
	want := make(map[model.SessionStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	r.mu.RLock()
	out := make([]model.Session, 0, len(r.sessions))
	for _, rec := range r.sessions {
		if len(want) == 0 || want[rec.session.Status] {
			out = append(out, rec.session)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetBids returns the session's ledger in submission order
func (r *MemoryRepo) GetBids(ctx context.Context, sessionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("repository: get bids for session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}
	if len(rec.bids) == 0 {
		return nil, fmt.Errorf("repository: get bids for session %s: %w", sessionID, allocationerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), rec.bids...), nil
}

// GetHighestBid returns the current highest bid. Accepted amounts strictly
// increase, so it is always the last ledger entry.
func (r *MemoryRepo) GetHighestBid(ctx context.Context, sessionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[sessionID]
	if !ok {
		return model.Bid{}, fmt.Errorf("repository: get highest bid for session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}
	if len(rec.bids) == 0 {
		return model.Bid{}, fmt.Errorf("repository: get highest bid for session %s: %w", sessionID, allocationerrors.ErrNoBids)
	}
	return rec.bids[len(rec.bids)-1], nil
}

// GetParticipants returns every registration row of a session, withdrawn included
func (r *MemoryRepo) GetParticipants(ctx context.Context, sessionID string) ([]model.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("repository: get participants for session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}
	return append([]model.Participant(nil), rec.participants...), nil
}

// GetWinner returns the session's winner record once selected
func (r *MemoryRepo) GetWinner(ctx context.Context, sessionID string) (model.WinnerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[sessionID]
	if !ok {
		return model.WinnerRecord{}, fmt.Errorf("repository: get winner for session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}
	if rec.winner == nil {
		return model.WinnerRecord{}, fmt.Errorf("repository: get winner for session %s: %w", sessionID, allocationerrors.ErrNoWinner)
	}
	return *rec.winner, nil
}

// GetRegistrationsByApplicant returns all registration rows of an applicant
func (r *MemoryRepo) GetRegistrationsByApplicant(ctx context.Context, applicantID string) ([]model.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionIDs := r.applicantSessions[applicantID]
	out := make([]model.Participant, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		rec := r.sessions[id]
		if idx, ok := rec.byApplicant[applicantID]; ok {
			out = append(out, rec.participants[idx])
		}
	}
	return out, nil
}

// WithinSession runs fn while holding the session lock and commits its writes atomically
func (r *MemoryRepo) WithinSession(ctx context.Context, sessionID string, fn func(tx SessionTx) error) error {
	r.mu.RLock()
	rec, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("repository: lock session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}

	unlock, err := r.acquire(ctx, r.sessionLocks, "session:"+sessionID)
	if err != nil {
		return fmt.Errorf("repository: lock session %s: %w", sessionID, err)
	}

	tx := &memoryTx{
		repo:    r,
		rec:     rec,
		session: rec.session,
		ctx:     ctx,
		pending: make(map[string]model.Participant),
		unlocks: []func(){unlock},
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (r *MemoryRepo) acquire(ctx context.Context, locker *KeyedLocker, key string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	unlock, err := locker.Lock(lockCtx, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w - lock %s not acquired within %s", allocationerrors.ErrConcurrencyConflict, key, r.lockTimeout)
		}
		return nil, err
	}
	return unlock, nil
}

// memoryTx buffers writes until commit. Only the holder of the session lock
// writes rec, so reading rec here without mu is safe.
type memoryTx struct {
	repo    *MemoryRepo
	rec     *sessionRecord
	ctx     context.Context
	session model.Session

	newBids []model.Bid
	pending map[string]model.Participant // applicantID -> upserted row
	order   []string                     // applicantIDs of newly inserted rows, in insert order
	winner  *model.WinnerRecord
	unlocks []func()
}

func (tx *memoryTx) Session() model.Session {
	return tx.session
}

func (tx *memoryTx) UpdateSession(session model.Session) error {
	if session.SessionID != tx.session.SessionID {
		return fmt.Errorf("repository: update session: %w - session id mismatch", allocationerrors.ErrInvalidRequest)
	}
	tx.session = session
	return nil
}

func (tx *memoryTx) HighestBid() (model.Bid, bool, error) {
	if n := len(tx.newBids); n > 0 {
		return tx.newBids[n-1], true, nil
	}
	if n := len(tx.rec.bids); n > 0 {
		return tx.rec.bids[n-1], true, nil
	}
	return model.Bid{}, false, nil
}

func (tx *memoryTx) AppendBid(bid model.Bid) error {
	if bid.SessionID != tx.session.SessionID {
		return fmt.Errorf("repository: append bid: %w - session id mismatch", allocationerrors.ErrInvalidRequest)
	}
	tx.newBids = append(tx.newBids, bid)
	return nil
}

func (tx *memoryTx) Participant(applicantID string) (model.Participant, bool, error) {
	if p, ok := tx.pending[applicantID]; ok {
		return p, true, nil
	}
	if idx, ok := tx.rec.byApplicant[applicantID]; ok {
		return tx.rec.participants[idx], true, nil
	}
	return model.Participant{}, false, nil
}

func (tx *memoryTx) ActiveParticipants() ([]model.Participant, error) {
	out := make([]model.Participant, 0, len(tx.rec.participants)+len(tx.order))
	for _, p := range tx.rec.participants {
		if up, ok := tx.pending[p.ApplicantID]; ok {
			p = up
		}
		if p.Active() {
			out = append(out, p)
		}
	}
	for _, applicantID := range tx.order {
		if p := tx.pending[applicantID]; p.Active() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (tx *memoryTx) SaveParticipant(p model.Participant) error {
	if p.SessionID != tx.session.SessionID {
		return fmt.Errorf("repository: save participant: %w - session id mismatch", allocationerrors.ErrInvalidRequest)
	}
	_, stored := tx.rec.byApplicant[p.ApplicantID]
	_, buffered := tx.pending[p.ApplicantID]
	if !stored && !buffered {
		tx.order = append(tx.order, p.ApplicantID)
	}
	tx.pending[p.ApplicantID] = p
	return nil
}

func (tx *memoryTx) LockApplicant(branchID, applicantID string) error {
	unlock, err := tx.repo.acquire(tx.ctx, tx.repo.applicantLocks, "applicant:"+branchID+":"+applicantID)
	if err != nil {
		return fmt.Errorf("repository: lock applicant %s in branch %s: %w", applicantID, branchID, err)
	}
	tx.unlocks = append(tx.unlocks, unlock)
	return nil
}

// ActiveRegistrationsInBranch counts the applicant's registered rows in
// non-terminal sessions of the branch, this unit's buffered writes included
func (tx *memoryTx) ActiveRegistrationsInBranch(branchID, applicantID string) (int, error) {
	count := 0
	if tx.session.BranchID == branchID && !tx.session.Status.IsTerminal() {
		if p, ok, _ := tx.Participant(applicantID); ok && p.Active() {
			count++
		}
	}

	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()

	for _, id := range tx.repo.applicantSessions[applicantID] {
		if id == tx.session.SessionID {
			continue
		}
		rec := tx.repo.sessions[id]
		if rec.session.BranchID != branchID || rec.session.Status.IsTerminal() {
			continue
		}
		if idx, ok := rec.byApplicant[applicantID]; ok && rec.participants[idx].Active() {
			count++
		}
	}
	return count, nil
}

func (tx *memoryTx) Winner() (model.WinnerRecord, bool, error) {
	if tx.winner != nil {
		return *tx.winner, true, nil
	}
	if tx.rec.winner != nil {
		return *tx.rec.winner, true, nil
	}
	return model.WinnerRecord{}, false, nil
}

func (tx *memoryTx) SaveWinner(w model.WinnerRecord) error {
	if _, exists, _ := tx.Winner(); exists {
		return fmt.Errorf("repository: save winner for session %s: %w - winner already recorded", tx.session.SessionID, allocationerrors.ErrInvalidTransition)
	}
	tx.winner = &w
	return nil
}

func (tx *memoryTx) commit() {
	r := tx.repo
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := tx.rec
	rec.session = tx.session
	rec.bids = append(rec.bids, tx.newBids...)

	for i := range rec.participants {
		if up, ok := tx.pending[rec.participants[i].ApplicantID]; ok {
			rec.participants[i] = up
		}
	}
	for _, applicantID := range tx.order {
		rec.byApplicant[applicantID] = len(rec.participants)
		rec.participants = append(rec.participants, tx.pending[applicantID])
		r.applicantSessions[applicantID] = append(r.applicantSessions[applicantID], rec.session.SessionID)
	}

	if tx.winner != nil {
		w := *tx.winner
		rec.winner = &w
	}

	if rec.session.Status.IsTerminal() && r.openStalls[rec.session.StallID] == rec.session.SessionID {
		delete(r.openStalls, rec.session.StallID)
	}
}

// release unlocks in reverse acquisition order
func (tx *memoryTx) release() {
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
	tx.unlocks = nil
}

// Compile-time interface checks.
var (
	_ AllocationStore = (*MemoryRepo)(nil)
	_ SessionTx       = (*memoryTx)(nil)
)
