package automation

import "time"

// MayFire reports whether a rule may fire again for an entity at now, given
// the creation time of the most recent AlertEvent for the (rule, entity)
// pair. The gate holds no state: the dedup window is a pure function of
// persisted history, so it survives process restarts and overlapping runs.
func MayFire(lastFiredAt *time.Time, cooldownMinutes int, now time.Time) bool {
	if lastFiredAt == nil {
		return true
	}
	if cooldownMinutes <= 0 {
		return true
	}
	return now.Sub(*lastFiredAt) >= time.Duration(cooldownMinutes)*time.Minute
}
