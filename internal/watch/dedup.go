package watch

import "time"

// seenSet remembers which plays have already been alerted. Entries expire
// after the cooldown so a persisting edge re-alerts eventually; a cooldown
// of zero or less means alert once and never again. The watcher runs in a
// single goroutine, so no locking.
type seenSet struct {
	cooldown time.Duration
	entries  map[string]time.Time
}

func newSeenSet(cooldown time.Duration) *seenSet {
	return &seenSet{
		cooldown: cooldown,
		entries:  make(map[string]time.Time),
	}
}

// shouldAlert reports whether the key is outside its cooldown window, and
// marks it alerted when it is.
func (s *seenSet) shouldAlert(key string, now time.Time) bool {
	expiry, ok := s.entries[key]
	if ok && (expiry.IsZero() || now.Before(expiry)) {
		return false
	}

	if s.cooldown > 0 {
		s.entries[key] = now.Add(s.cooldown)
	} else {
		// Zero expiry marks a permanent entry
		s.entries[key] = time.Time{}
	}
	return true
}

// sweep drops expired entries so the map stays bounded across long runs.
func (s *seenSet) sweep(now time.Time) {
	for key, expiry := range s.entries {
		if !expiry.IsZero() && now.After(expiry) {
			delete(s.entries, key)
		}
	}
}
