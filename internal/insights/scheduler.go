package insights

import "time"

// Scheduler decides whether a full analysis pass is due.
type Scheduler struct {
	Daily  time.Duration
	Weekly time.Duration
}

// NewScheduler creates a Scheduler with day and week intervals.
func NewScheduler() *Scheduler {
	return &Scheduler{
		Daily:  24 * time.Hour,
		Weekly: 7 * 24 * time.Hour,
	}
}

// Interval returns the minimum gap between runs, or 0 for manual-only.
func (s *Scheduler) Interval(f Frequency) time.Duration {
	switch f {
	case FrequencyWeekly:
		return s.Weekly
	case FrequencyManual:
		return 0
	default:
		return s.Daily
	}
}

// Due reports whether an analysis should run now, and why not if it should not.
func (s *Scheduler) Due(last time.Time, settings Settings, now time.Time, force bool) (bool, string) {
	if force {
		return true, ""
	}
	if !settings.Enabled {
		return false, "insights disabled"
	}
	interval := s.Interval(settings.Frequency)
	if interval == 0 {
		return false, "manual frequency"
	}
	if last.IsZero() {
		return true, ""
	}
	if now.Sub(last) < interval {
		return false, "analysis ran recently"
	}
	return true, ""
}
