package clock

import "time"

// Clock abstracts time so cache expiry stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Expired reports whether storedAt is older than ttl at now. A non-positive
// ttl never expires.
func Expired(now, storedAt time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(storedAt) > ttl
}
