// Package catalog tracks the occupancy state of stalls offered for allocation
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stall-allocation/internal/allocationerrors"
	model "stall-allocation/internal/models"
)

//go:generate mockgen -source=catalog.go -destination=mock_catalog.go -package=catalog

// StallState is the occupancy of a stall
type StallState string

const (
	StallAvailable  StallState = "available"
	StallAllocating StallState = "allocating"
	StallOccupied   StallState = "occupied"
)

// Stall is the catalog entry of one stall
type Stall struct {
	StallID    string     `json:"stall_id"`
	BranchID   string     `json:"branch_id"`
	State      StallState `json:"state"`
	SessionID  string     `json:"session_id,omitempty"`
	OccupantID string     `json:"occupant_id,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// StallCatalog receives allocation lifecycle updates for stalls
type StallCatalog interface {
	// MarkAllocating records that a session now prices the stall. Publishing
	// an occupied stall starts a new letting round for it.
	MarkAllocating(ctx context.Context, session model.Session) error
	// ApplyOutcome marks the stall occupied by the winner or available again
	ApplyOutcome(ctx context.Context, record model.WinnerRecord) error
	// Release returns the stall to available after a cancelled session
	Release(ctx context.Context, session model.Session) error
	GetStall(ctx context.Context, stallID string) (Stall, error)
}

// MemoryCatalog keeps stall entries in memory
type MemoryCatalog struct {
	mu     sync.RWMutex
	stalls map[string]Stall
	now    func() time.Time
}

// NewMemoryCatalog creates an empty catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		stalls: make(map[string]Stall),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AddStall registers a stall as available. It is a no-op for a known stall.
func (c *MemoryCatalog) AddStall(stallID, branchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.stalls[stallID]; ok {
		return
	}
	c.stalls[stallID] = Stall{
		StallID:   stallID,
		BranchID:  branchID,
		State:     StallAvailable,
		UpdatedAt: c.now(),
	}
}

func (c *MemoryCatalog) MarkAllocating(ctx context.Context, session model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stalls[session.StallID] = Stall{
		StallID:   session.StallID,
		BranchID:  session.BranchID,
		State:     StallAllocating,
		SessionID: session.SessionID,
		UpdatedAt: c.now(),
	}
	return nil
}

func (c *MemoryCatalog) ApplyOutcome(ctx context.Context, record model.WinnerRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.stalls[record.StallID]
	if !ok {
		return fmt.Errorf("catalog: %w - %s", allocationerrors.ErrStallNotFound, record.StallID)
	}
	if st.SessionID != record.SessionID {
		// a newer session already owns the stall
		return nil
	}

	st.UpdatedAt = c.now()
	if record.Awarded() {
		st.State = StallOccupied
		st.OccupantID = record.WinnerApplicantID
	} else {
		st.State = StallAvailable
		st.OccupantID = ""
	}
	c.stalls[record.StallID] = st
	return nil
}

func (c *MemoryCatalog) Release(ctx context.Context, session model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.stalls[session.StallID]
	if !ok {
		return fmt.Errorf("catalog: %w - %s", allocationerrors.ErrStallNotFound, session.StallID)
	}
	if st.SessionID != session.SessionID {
		return nil
	}
	st.State = StallAvailable
	st.OccupantID = ""
	st.UpdatedAt = c.now()
	c.stalls[session.StallID] = st
	return nil
}

func (c *MemoryCatalog) GetStall(ctx context.Context, stallID string) (Stall, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st, ok := c.stalls[stallID]
	if !ok {
		return Stall{}, fmt.Errorf("catalog: %w - %s", allocationerrors.ErrStallNotFound, stallID)
	}
	return st, nil
}

var _ StallCatalog = (*MemoryCatalog)(nil)
