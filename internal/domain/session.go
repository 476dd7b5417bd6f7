package domain

import "time"

// SessionsDuration returns the summed duration of all closed sessions.
// Open sessions contribute nothing; the caller adds the live portion via
// CurrentElapsed.
func SessionsDuration(sessions []Session) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		if s.End != nil {
			total += s.End.Sub(s.Start)
		}
	}
	return total
}

// SessionState reports whether the last session is open, and returns it.
// The returned pointer aliases the slice element; callers must not hold it
// across mutations.
func SessionState(sessions []Session) (hasActive bool, last *Session) {
	if len(sessions) == 0 {
		return false, nil
	}
	last = &sessions[len(sessions)-1]
	return !last.Start.IsZero() && last.End == nil, last
}

// CurrentElapsed returns the total worked time as of now: the completed
// baseline plus the live portion of an open session. A nil activeStart
// returns the baseline unchanged. Negative live intervals are clamped to
// zero to guard against clock skew between writer and reader.
func CurrentElapsed(baseline time.Duration, activeStart *time.Time, now time.Time) time.Duration {
	if activeStart == nil {
		return baseline
	}
	live := now.Sub(*activeStart)
	if live < 0 {
		live = 0
	}
	return baseline + live
}

// IsActive returns true only if the status is in-progress AND the last
// session is open. A persisted status can transiently diverge from the
// session list during an interrupted write; the conjunction keeps the
// start/pause guards safe either way. A persistent divergence is treated
// as inactive; the sync observer logs it.
func IsActive(status Status, sessions []Session) bool {
	if status != StatusInProgress {
		return false
	}
	active, _ := SessionState(sessions)
	return active
}
