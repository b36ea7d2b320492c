package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stall-allocation/internal/allocationerrors"
	model "stall-allocation/internal/models"
	"stall-allocation/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	openStallIndex     = "allocation_sessions_open_stall_idx"
	defaultLockTimeout = 5 * time.Second
)

// Store implements repository.AllocationStore using PostgreSQL
type Store struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewStore creates a Store over pool. Atomic units that wait longer than
// lockTimeout for a row or advisory lock fail with ErrConcurrencyConflict.
func NewStore(pool *pgxpool.Pool, lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &Store{pool: pool, lockTimeout: lockTimeout}
}

const sessionSelectCols = `session_id, stall_id, branch_id, kind, status,
	created_at, updated_at, duration_ns, deadline, extension_count, total_extension_ns,
	starting_price::text, minimum_increment::text, require_registration, max_participants,
	highest_bid_id, highest_amount::text, bid_count, participant_count, cancel_reason`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (model.Session, error) {
	var (
		s                              model.Session
		kind, status                   string
		durationNs, extensionNs        int64
		deadline                       *time.Time
		startPrice, increment, highest string
	)
	err := row.Scan(
		&s.SessionID, &s.StallID, &s.BranchID, &kind, &status,
		&s.CreatedAt, &s.UpdatedAt, &durationNs, &deadline, &s.ExtensionCount, &extensionNs,
		&startPrice, &increment, &s.Auction.RequireRegistration, &s.Raffle.MaxParticipants,
		&s.HighestBidID, &highest, &s.BidCount, &s.ParticipantCount, &s.CancelReason,
	)
	if err != nil {
		return model.Session{}, err
	}

	s.Kind = model.SessionKind(kind)
	s.Status = model.SessionStatus(status)
	s.Duration = time.Duration(durationNs)
	s.TotalExtension = time.Duration(extensionNs)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	if deadline != nil {
		s.Deadline = deadline.UTC()
	}
	if s.Auction.StartingPrice, err = decimal.NewFromString(startPrice); err != nil {
		return model.Session{}, fmt.Errorf("parse starting_price: %w", err)
	}
	if s.Auction.MinimumIncrement, err = decimal.NewFromString(increment); err != nil {
		return model.Session{}, fmt.Errorf("parse minimum_increment: %w", err)
	}
	if s.HighestAmount, err = decimal.NewFromString(highest); err != nil {
		return model.Session{}, fmt.Errorf("parse highest_amount: %w", err)
	}
	return s, nil
}

const bidSelectCols = `bid_id, session_id, bidder_id, amount::text, submitted_at, sequence`

func scanBid(row rowScanner) (model.Bid, error) {
	var (
		b      model.Bid
		amount string
	)
	if err := row.Scan(&b.BidID, &b.SessionID, &b.BidderID, &amount, &b.SubmittedAt, &b.Sequence); err != nil {
		return model.Bid{}, err
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Bid{}, fmt.Errorf("parse amount: %w", err)
	}
	b.Amount = v
	b.SubmittedAt = b.SubmittedAt.UTC()
	return b, nil
}

const participantSelectCols = `participant_id, session_id, branch_id, applicant_id,
	registered_at, registration_status, withdrawn_at`

func scanParticipant(row rowScanner) (model.Participant, error) {
	var (
		p           model.Participant
		status      string
		withdrawnAt *time.Time
	)
	if err := row.Scan(&p.ParticipantID, &p.SessionID, &p.BranchID, &p.ApplicantID, &p.RegisteredAt, &status, &withdrawnAt); err != nil {
		return model.Participant{}, err
	}
	p.RegistrationStatus = model.RegistrationStatus(status)
	p.RegisteredAt = p.RegisteredAt.UTC()
	if withdrawnAt != nil {
		p.WithdrawnAt = withdrawnAt.UTC()
	}
	return p, nil
}

const winnerSelectCols = `session_id, stall_id, outcome, winner_applicant_id, winning_bid_id,
	winning_value::text, selected_at, selection_method, seed, candidate_count`

func scanWinner(row rowScanner) (model.WinnerRecord, error) {
	var (
		w               model.WinnerRecord
		outcome, method string
		value           *string
	)
	err := row.Scan(&w.SessionID, &w.StallID, &outcome, &w.WinnerApplicantID, &w.WinningBidID,
		&value, &w.SelectedAt, &method, &w.Seed, &w.CandidateCount)
	if err != nil {
		return model.WinnerRecord{}, err
	}
	w.Outcome = model.Outcome(outcome)
	w.SelectionMethod = model.SelectionMethod(method)
	w.SelectedAt = w.SelectedAt.UTC()
	if value != nil {
		v, err := decimal.NewFromString(*value)
		if err != nil {
			return model.WinnerRecord{}, fmt.Errorf("parse winning_value: %w", err)
		}
		w.WinningValue = &v
	}
	return w, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func statusStrings(statuses []model.SessionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// mapError converts lock and serialization failures to ErrConcurrencyConflict
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w - %s", allocationerrors.ErrConcurrencyConflict, pgErr.Message)
		}
	}
	return err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// CreateSession inserts a new session. The partial unique index on stall_id
// enforces one non-terminal session per stall.
func (s *Store) CreateSession(ctx context.Context, session model.Session) error {
	const query = `
		INSERT INTO allocation_sessions (
			session_id, stall_id, branch_id, kind, status,
			created_at, updated_at, duration_ns, deadline, extension_count, total_extension_ns,
			starting_price, minimum_increment, require_registration, max_participants,
			highest_bid_id, highest_amount, bid_count, participant_count, cancel_reason
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12::numeric, $13::numeric, $14, $15,
			$16, $17::numeric, $18, $19, $20
		)`

	_, err := s.pool.Exec(ctx, query,
		session.SessionID, session.StallID, session.BranchID, string(session.Kind), string(session.Status),
		session.CreatedAt, session.UpdatedAt, int64(session.Duration), nullableTime(session.Deadline),
		session.ExtensionCount, int64(session.TotalExtension),
		session.Auction.StartingPrice.String(), session.Auction.MinimumIncrement.String(),
		session.Auction.RequireRegistration, session.Raffle.MaxParticipants,
		session.HighestBidID, session.HighestAmount.String(), session.BidCount, session.ParticipantCount,
		session.CancelReason,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, openStallIndex):
		return fmt.Errorf("postgres: create session for stall %s: %w", session.StallID, allocationerrors.ErrStallHasOpenSession)
	case isUniqueViolation(err, ""):
		return fmt.Errorf("postgres: create session %s: %w - duplicate session id", session.SessionID, allocationerrors.ErrInvalidRequest)
	default:
		return fmt.Errorf("postgres: create session %s: %w", session.SessionID, err)
	}
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (model.Session, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sessionSelectCols+` FROM allocation_sessions WHERE session_id = $1`, sessionID)
	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, fmt.Errorf("postgres: get session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("postgres: get session %s: %w", sessionID, err)
	}
	return session, nil
}

func (s *Store) ListSessions(ctx context.Context, statuses ...model.SessionStatus) ([]model.Session, error) {
	query := `SELECT ` + sessionSelectCols + ` FROM allocation_sessions`
	var args []any
	if len(statuses) > 0 {
		query += ` WHERE status = ANY($1)`
		args = append(args, statusStrings(statuses))
	}
	query += ` ORDER BY created_at, session_id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list sessions: %w", err)
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list sessions: %w", err)
	}
	return out, nil
}

func (s *Store) sessionExists(ctx context.Context, sessionID string) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM allocation_sessions WHERE session_id = $1)`, sessionID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return allocationerrors.ErrSessionNotFound
	}
	return nil
}

func (s *Store) GetBids(ctx context.Context, sessionID string) ([]model.Bid, error) {
	if err := s.sessionExists(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("postgres: get bids for session %s: %w", sessionID, err)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+bidSelectCols+` FROM allocation_bids WHERE session_id = $1 ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: get bids for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []model.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan bid: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: get bids for session %s: %w", sessionID, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("postgres: get bids for session %s: %w", sessionID, allocationerrors.ErrNoBids)
	}
	return out, nil
}

func (s *Store) GetHighestBid(ctx context.Context, sessionID string) (model.Bid, error) {
	if err := s.sessionExists(ctx, sessionID); err != nil {
		return model.Bid{}, fmt.Errorf("postgres: get highest bid for session %s: %w", sessionID, err)
	}

	row := s.pool.QueryRow(ctx, `SELECT `+bidSelectCols+` FROM allocation_bids WHERE session_id = $1 ORDER BY sequence DESC LIMIT 1`, sessionID)
	b, err := scanBid(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("postgres: get highest bid for session %s: %w", sessionID, allocationerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("postgres: get highest bid for session %s: %w", sessionID, err)
	}
	return b, nil
}

func (s *Store) GetParticipants(ctx context.Context, sessionID string) ([]model.Participant, error) {
	if err := s.sessionExists(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("postgres: get participants for session %s: %w", sessionID, err)
	}
	return s.queryParticipants(ctx, `SELECT `+participantSelectCols+` FROM allocation_participants
		WHERE session_id = $1 ORDER BY registered_at, participant_id`, sessionID)
}

func (s *Store) GetRegistrationsByApplicant(ctx context.Context, applicantID string) ([]model.Participant, error) {
	return s.queryParticipants(ctx, `SELECT `+participantSelectCols+` FROM allocation_participants
		WHERE applicant_id = $1 ORDER BY registered_at, participant_id`, applicantID)
}

func (s *Store) queryParticipants(ctx context.Context, query, arg string) ([]model.Participant, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("postgres: query participants: %w", err)
	}
	defer rows.Close()

	out := []model.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query participants: %w", err)
	}
	return out, nil
}

func (s *Store) GetWinner(ctx context.Context, sessionID string) (model.WinnerRecord, error) {
	if err := s.sessionExists(ctx, sessionID); err != nil {
		return model.WinnerRecord{}, fmt.Errorf("postgres: get winner for session %s: %w", sessionID, err)
	}

	row := s.pool.QueryRow(ctx, `SELECT `+winnerSelectCols+` FROM allocation_winners WHERE session_id = $1`, sessionID)
	w, err := scanWinner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.WinnerRecord{}, fmt.Errorf("postgres: get winner for session %s: %w", sessionID, allocationerrors.ErrNoWinner)
	}
	if err != nil {
		return model.WinnerRecord{}, fmt.Errorf("postgres: get winner for session %s: %w", sessionID, err)
	}
	return w, nil
}

// WithinSession runs fn in a transaction that holds the session row lock
func (s *Store) WithinSession(ctx context.Context, sessionID string, fn func(tx repository.SessionTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("postgres: begin unit for session %s: %w", sessionID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("postgres: set lock timeout: %w", err)
	}

	row := tx.QueryRow(ctx, `SELECT `+sessionSelectCols+` FROM allocation_sessions WHERE session_id = $1 FOR UPDATE`, sessionID)
	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("postgres: lock session %s: %w", sessionID, allocationerrors.ErrSessionNotFound)
	}
	if err != nil {
		return fmt.Errorf("postgres: lock session %s: %w", sessionID, mapError(err))
	}

	if err := fn(&sessionTx{ctx: ctx, tx: tx, session: session}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit unit for session %s: %w", sessionID, mapError(err))
	}
	return nil
}

var _ repository.AllocationStore = (*Store)(nil)
