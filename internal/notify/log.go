package notify

import (
	"context"

	"stall-allocation/utils"
)

// LogNotifier writes every event to the structured log
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event Event) error {
	fields := map[string]any{
		"event":      string(event.Type),
		"session_id": event.SessionID,
		"stall_id":   event.StallID,
		"status":     string(event.Status),
	}
	if event.ApplicantID != "" {
		fields["applicant_id"] = event.ApplicantID
	}
	if event.Amount != nil {
		fields["amount"] = event.Amount.String()
	}
	if event.Winner != nil {
		fields["outcome"] = string(event.Winner.Outcome)
		fields["winner_applicant_id"] = event.Winner.WinnerApplicantID
	}
	utils.Info("allocation event", fields)
	return nil
}
