package allocationerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReject(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
		want     Reason
	}{
		{name: "bid_too_low", sentinel: ErrBidTooLow, want: ReasonBidTooLow},
		{name: "not_open", sentinel: ErrSessionNotOpen, want: ReasonSessionNotOpen},
		{name: "expired", sentinel: ErrSessionExpired, want: ReasonSessionExpired},
		{name: "already_registered", sentinel: ErrAlreadyRegistered, want: ReasonAlreadyRegistered},
		{name: "branch_cap", sentinel: ErrBranchCapExceeded, want: ReasonBranchCapExceeded},
		{name: "full", sentinel: ErrSessionFull, want: ReasonSessionFull},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := fmt.Errorf("service: submit: %w", Reject(tc.sentinel, "detail %d", 1))

			require.True(t, errors.Is(err, tc.sentinel))
			require.True(t, IsAdmissionRejected(err))

			reason, ok := ReasonOf(err)
			require.True(t, ok)
			require.Equal(t, tc.want, reason)
			require.Contains(t, err.Error(), "detail 1")
		})
	}
}

func TestReasonOf_NotAdmission(t *testing.T) {
	_, ok := ReasonOf(fmt.Errorf("wrapped: %w", ErrConcurrencyConflict))
	require.False(t, ok)
	require.False(t, IsAdmissionRejected(Invalid("amount must be positive")))
	require.True(t, errors.Is(Invalid("x"), ErrInvalidRequest))
}
