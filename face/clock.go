package radial

import "time"

// Clock is the wall clock the face reads.
// Tests swap in a fixed or manually advanced clock.
type Clock interface {
	Now() time.Time
}

// RealClock uses the system time
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NextDelay is the wait until the next whole interval boundary of the epoch.
// With a one second interval, a wake-up at 12:00:00.250 is due in 750ms.
// A time already on the boundary waits the full interval.
func NextDelay(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	ms := now.UnixMilli()
	step := interval.Milliseconds()
	return time.Duration(step-(ms%step)) * time.Millisecond
}
