package allocation

import "time"

// Settings are the tunables of the allocation engine
type Settings struct {
	AuctionDuration   time.Duration // open window used when CreateSession.Duration is zero
	RaffleDuration    time.Duration
	BranchCap         int // max active registrations per applicant per branch
	MaxTotalExtension time.Duration
	AdmissionRetries  int // extra attempts after a concurrency conflict, negative for none
	RetryBackoff      time.Duration
	SweepInterval     time.Duration
}

// DefaultSettings returns the engine defaults
func DefaultSettings() Settings {
	return Settings{
		AuctionDuration:   72 * time.Hour,
		RaffleDuration:    72 * time.Hour,
		BranchCap:         2,
		MaxTotalExtension: 7 * 24 * time.Hour,
		AdmissionRetries:  3,
		RetryBackoff:      25 * time.Millisecond,
		SweepInterval:     30 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultSettings. A negative
// AdmissionRetries disables retries.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.AuctionDuration <= 0 {
		s.AuctionDuration = d.AuctionDuration
	}
	if s.RaffleDuration <= 0 {
		s.RaffleDuration = d.RaffleDuration
	}
	if s.BranchCap <= 0 {
		s.BranchCap = d.BranchCap
	}
	if s.MaxTotalExtension <= 0 {
		s.MaxTotalExtension = d.MaxTotalExtension
	}
	switch {
	case s.AdmissionRetries == 0:
		s.AdmissionRetries = d.AdmissionRetries
	case s.AdmissionRetries < 0:
		s.AdmissionRetries = 0
	}
	if s.RetryBackoff <= 0 {
		s.RetryBackoff = d.RetryBackoff
	}
	if s.SweepInterval <= 0 {
		s.SweepInterval = d.SweepInterval
	}
	return s
}
