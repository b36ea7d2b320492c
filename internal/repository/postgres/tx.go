package postgres

import (
	"context"
	"errors"
	"fmt"

	"stall-allocation/internal/allocationerrors"
	model "stall-allocation/internal/models"
	"stall-allocation/internal/repository"

	"github.com/jackc/pgx/v5"
)

// sessionTx is one WithinSession unit. Statements run on the unit's
// transaction, so its reads see its own writes.
type sessionTx struct {
	ctx     context.Context
	tx      pgx.Tx
	session model.Session
}

func (t *sessionTx) Session() model.Session {
	return t.session
}

func (t *sessionTx) UpdateSession(s model.Session) error {
	if s.SessionID != t.session.SessionID {
		return fmt.Errorf("postgres: update session: %w - session id mismatch", allocationerrors.ErrInvalidRequest)
	}

	const query = `
		UPDATE allocation_sessions SET
			status = $2, updated_at = $3, deadline = $4, extension_count = $5, total_extension_ns = $6,
			highest_bid_id = $7, highest_amount = $8::numeric, bid_count = $9, participant_count = $10,
			cancel_reason = $11
		WHERE session_id = $1`

	_, err := t.tx.Exec(t.ctx, query,
		s.SessionID, string(s.Status), s.UpdatedAt, nullableTime(s.Deadline), s.ExtensionCount, int64(s.TotalExtension),
		s.HighestBidID, s.HighestAmount.String(), s.BidCount, s.ParticipantCount,
		s.CancelReason,
	)
	if err != nil {
		return fmt.Errorf("postgres: update session %s: %w", s.SessionID, mapError(err))
	}
	t.session = s
	return nil
}

func (t *sessionTx) HighestBid() (model.Bid, bool, error) {
	if !t.session.HasBids() {
		return model.Bid{}, false, nil
	}
	row := t.tx.QueryRow(t.ctx, `SELECT `+bidSelectCols+` FROM allocation_bids WHERE bid_id = $1`, t.session.HighestBidID)
	b, err := scanBid(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, false, nil
	}
	if err != nil {
		return model.Bid{}, false, fmt.Errorf("postgres: get highest bid for session %s: %w", t.session.SessionID, mapError(err))
	}
	return b, true, nil
}

func (t *sessionTx) AppendBid(b model.Bid) error {
	if b.SessionID != t.session.SessionID {
		return fmt.Errorf("postgres: append bid: %w - session id mismatch", allocationerrors.ErrInvalidRequest)
	}

	const query = `
		INSERT INTO allocation_bids (bid_id, session_id, bidder_id, amount, submitted_at, sequence)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)`
	if _, err := t.tx.Exec(t.ctx, query, b.BidID, b.SessionID, b.BidderID, b.Amount.String(), b.SubmittedAt, b.Sequence); err != nil {
		return fmt.Errorf("postgres: append bid %s: %w", b.BidID, mapError(err))
	}
	return nil
}

func (t *sessionTx) Participant(applicantID string) (model.Participant, bool, error) {
	row := t.tx.QueryRow(t.ctx, `SELECT `+participantSelectCols+` FROM allocation_participants
		WHERE session_id = $1 AND applicant_id = $2`, t.session.SessionID, applicantID)
	p, err := scanParticipant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Participant{}, false, nil
	}
	if err != nil {
		return model.Participant{}, false, fmt.Errorf("postgres: get participant %s: %w", applicantID, mapError(err))
	}
	return p, true, nil
}

func (t *sessionTx) ActiveParticipants() ([]model.Participant, error) {
	rows, err := t.tx.Query(t.ctx, `SELECT `+participantSelectCols+` FROM allocation_participants
		WHERE session_id = $1 AND registration_status = $2
		ORDER BY registered_at, participant_id`, t.session.SessionID, string(model.Registered))
	if err != nil {
		return nil, fmt.Errorf("postgres: active participants for session %s: %w", t.session.SessionID, mapError(err))
	}
	defer rows.Close()

	var out []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: active participants for session %s: %w", t.session.SessionID, mapError(err))
	}
	return out, nil
}

// SaveParticipant upserts on (session_id, applicant_id); the participant ID
// of an existing row is kept
func (t *sessionTx) SaveParticipant(p model.Participant) error {
	if p.SessionID != t.session.SessionID {
		return fmt.Errorf("postgres: save participant: %w - session id mismatch", allocationerrors.ErrInvalidRequest)
	}

	const query = `
		INSERT INTO allocation_participants (
			participant_id, session_id, branch_id, applicant_id, registered_at, registration_status, withdrawn_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, applicant_id) DO UPDATE SET
			registered_at = EXCLUDED.registered_at,
			registration_status = EXCLUDED.registration_status,
			withdrawn_at = EXCLUDED.withdrawn_at`
	_, err := t.tx.Exec(t.ctx, query,
		p.ParticipantID, p.SessionID, p.BranchID, p.ApplicantID, p.RegisteredAt,
		string(p.RegistrationStatus), nullableTime(p.WithdrawnAt),
	)
	if err != nil {
		return fmt.Errorf("postgres: save participant %s: %w", p.ApplicantID, mapError(err))
	}
	return nil
}

// LockApplicant takes a transaction-scoped advisory lock on the applicant
// within the branch; it is released on commit or rollback
func (t *sessionTx) LockApplicant(branchID, applicantID string) error {
	key := "applicant:" + branchID + ":" + applicantID
	if _, err := t.tx.Exec(t.ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("postgres: lock applicant %s in branch %s: %w", applicantID, branchID, mapError(err))
	}
	return nil
}

func (t *sessionTx) ActiveRegistrationsInBranch(branchID, applicantID string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM allocation_participants p
		JOIN allocation_sessions s ON s.session_id = p.session_id
		WHERE p.applicant_id = $1
		  AND p.branch_id = $2
		  AND p.registration_status = $3
		  AND s.status NOT IN ($4, $5)`

	var count int
	err := t.tx.QueryRow(t.ctx, query,
		applicantID, branchID, string(model.Registered),
		string(model.StatusWinnerSelected), string(model.StatusCancelled),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: count registrations of %s in branch %s: %w", applicantID, branchID, mapError(err))
	}
	return count, nil
}

func (t *sessionTx) Winner() (model.WinnerRecord, bool, error) {
	row := t.tx.QueryRow(t.ctx, `SELECT `+winnerSelectCols+` FROM allocation_winners WHERE session_id = $1`, t.session.SessionID)
	w, err := scanWinner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.WinnerRecord{}, false, nil
	}
	if err != nil {
		return model.WinnerRecord{}, false, fmt.Errorf("postgres: get winner for session %s: %w", t.session.SessionID, mapError(err))
	}
	return w, true, nil
}

func (t *sessionTx) SaveWinner(w model.WinnerRecord) error {
	var value *string
	if w.WinningValue != nil {
		v := w.WinningValue.String()
		value = &v
	}

	const query = `
		INSERT INTO allocation_winners (
			session_id, stall_id, outcome, winner_applicant_id, winning_bid_id,
			winning_value, selected_at, selection_method, seed, candidate_count
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10)`
	_, err := t.tx.Exec(t.ctx, query,
		w.SessionID, w.StallID, string(w.Outcome), w.WinnerApplicantID, w.WinningBidID,
		value, w.SelectedAt, string(w.SelectionMethod), w.Seed, w.CandidateCount,
	)
	if isUniqueViolation(err, "") {
		return fmt.Errorf("postgres: save winner for session %s: %w - winner already recorded", w.SessionID, allocationerrors.ErrInvalidTransition)
	}
	if err != nil {
		return fmt.Errorf("postgres: save winner for session %s: %w", w.SessionID, mapError(err))
	}
	return nil
}

var _ repository.SessionTx = (*sessionTx)(nil)
