package repository

import (
	"context"

	model "stall-allocation/internal/models"
)

// AllocationStore is the persistence boundary of the allocation engine.
// Plain getters return committed snapshots and never wait on session locks;
// every mutation of an existing session goes through WithinSession.
type AllocationStore interface {
	CreateSession(ctx context.Context, session model.Session) error
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	ListSessions(ctx context.Context, statuses ...model.SessionStatus) ([]model.Session, error)
	GetBids(ctx context.Context, sessionID string) ([]model.Bid, error)
	GetHighestBid(ctx context.Context, sessionID string) (model.Bid, error)
	GetParticipants(ctx context.Context, sessionID string) ([]model.Participant, error)
	GetWinner(ctx context.Context, sessionID string) (model.WinnerRecord, error)
	GetRegistrationsByApplicant(ctx context.Context, applicantID string) ([]model.Participant, error)

	// WithinSession runs fn as one atomic unit holding the session's lock.
	// Writes made through tx become visible together when fn returns nil and
	// are discarded otherwise.
	WithinSession(ctx context.Context, sessionID string, fn func(tx SessionTx) error) error
}

// SessionTx is the view of one locked session inside WithinSession
type SessionTx interface {
	Session() model.Session
	UpdateSession(session model.Session) error

	HighestBid() (model.Bid, bool, error)
	AppendBid(bid model.Bid) error

	Participant(applicantID string) (model.Participant, bool, error)
	ActiveParticipants() ([]model.Participant, error)
	SaveParticipant(p model.Participant) error

	// LockApplicant serializes registrations of one applicant within one
	// branch for the rest of the unit. It must be called before
	// ActiveRegistrationsInBranch.
	LockApplicant(branchID, applicantID string) error
	ActiveRegistrationsInBranch(branchID, applicantID string) (int, error)

	Winner() (model.WinnerRecord, bool, error)
	SaveWinner(w model.WinnerRecord) error
}
