// Package notify fans allocation events out to external collaborators
// (notification service, live clients). Delivery is fire-and-forget: a failed
// sender is logged and never affects the allocation decision that produced
// the event.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	model "stall-allocation/internal/models"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=notifier.go -destination=mock_notifier.go -package=notify

// EventType names an allocation lifecycle event
type EventType string

const (
	EventSessionCreated        EventType = "session.created"
	EventSessionOpened         EventType = "session.opened"
	EventBidAccepted           EventType = "bid.accepted"
	EventParticipantRegistered EventType = "participant.registered"
	EventParticipantWithdrawn  EventType = "participant.withdrawn"
	EventSessionExtended       EventType = "session.extended"
	EventSessionCancelled      EventType = "session.cancelled"
	EventSessionExpired        EventType = "session.expired"
	EventWinnerSelected        EventType = "winner.selected"
	EventNoWinner              EventType = "winner.none"
)

// Event is the payload delivered to every sender
type Event struct {
	Type        EventType           `json:"type"`
	SessionID   string              `json:"session_id"`
	StallID     string              `json:"stall_id"`
	BranchID    string              `json:"branch_id"`
	Kind        model.SessionKind   `json:"kind"`
	Status      model.SessionStatus `json:"status"`
	Deadline    *time.Time          `json:"deadline,omitempty"`
	ApplicantID string              `json:"applicant_id,omitempty"`
	Amount      *decimal.Decimal    `json:"amount,omitempty"`
	Winner      *model.WinnerRecord `json:"winner,omitempty"`
	Detail      string              `json:"detail,omitempty"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NewEvent builds an event carrying the session's identity and status
func NewEvent(t EventType, s model.Session, at time.Time) Event {
	ev := Event{
		Type:       t,
		SessionID:  s.SessionID,
		StallID:    s.StallID,
		BranchID:   s.BranchID,
		Kind:       s.Kind,
		Status:     s.Status,
		OccurredAt: at,
	}
	if s.HasDeadline() {
		d := s.Deadline
		ev.Deadline = &d
	}
	return ev
}

// Notifier delivers events to one destination
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Multi delivers each event to all notifiers; one failure does not stop the rest
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify %s: %w", event.Type, errors.Join(errs...))
	}
	return nil
}
