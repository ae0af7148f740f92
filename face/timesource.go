package radial

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	Rt "github.com/maroda/radial/types"
)

// ZoneFallback decides what happens when a timezone id can't be loaded
type ZoneFallback int

const (
	ZoneFallbackKeep ZoneFallback = iota // keep the zone already in use
	ZoneFallbackUTC                      // switch to UTC
)

// ParseZoneFallback reads a fallback policy name from config
func ParseZoneFallback(s string) (ZoneFallback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return ZoneFallbackKeep, nil
	case "utc":
		return ZoneFallbackUTC, nil
	}
	return ZoneFallbackKeep, fmt.Errorf("unknown zone fallback: %s", s)
}

// TimeSource wraps the wall clock and the active zone.
// There is no state beyond the zones, every Snapshot reads the clock again.
// system is the zone last delivered that loaded, ResetZone returns to it.
type TimeSource struct {
	clock    Clock
	loc      *time.Location
	system   *time.Location
	fallback ZoneFallback
}

// NewTimeSource starts in the given zone, or the system default if zone is empty.
// A zone that can't be loaded is handled by the fallback policy,
// starting from the system default.
func NewTimeSource(clock Clock, zone string, fallback ZoneFallback) *TimeSource {
	if clock == nil {
		clock = RealClock{}
	}
	ts := &TimeSource{
		clock:    clock,
		loc:      time.Local,
		system:   time.Local,
		fallback: fallback,
	}
	if zone != "" {
		ts.SetTimezone(zone)
	}
	return ts
}

// Snapshot reads the current wall clock time in the active zone
func (ts *TimeSource) Snapshot() Rt.TimeSnapshot {
	now := ts.clock.Now().In(ts.loc)
	return Rt.TimeSnapshot{
		Second:     now.Second(),
		Minute:     now.Minute(),
		Hour:       now.Hour(),
		DayOfMonth: now.Day(),
		Month:      int(now.Month()),
		Year:       now.Year(),
		Zone:       ts.Zone(),
		Time:       now,
	}
}

// SetTimezone switches the active zone and resnapshots.
// A zone that loads also becomes the system zone.
// An unknown id never reaches the draw path, it is logged and
// resolved by the fallback policy.
func (ts *TimeSource) SetTimezone(id string) Rt.TimeSnapshot {
	loc, err := time.LoadLocation(id)
	if err != nil {
		switch ts.fallback {
		case ZoneFallbackUTC:
			slog.Warn("Unknown timezone, using UTC",
				slog.String("zone", id),
				slog.Any("Error", err))
			loc = time.UTC
		default:
			slog.Warn("Unknown timezone, keeping current zone",
				slog.String("zone", id),
				slog.String("current", ts.Zone()),
				slog.Any("Error", err))
			loc = ts.loc
		}
	} else {
		ts.system = loc
	}
	ts.loc = loc
	slog.Debug("Timezone set", slog.String("zone", ts.Zone()))
	return ts.Snapshot()
}

// ResetZone goes back to the system zone
func (ts *TimeSource) ResetZone() {
	ts.loc = ts.system
}

// SystemZone is the identifier ResetZone returns to
func (ts *TimeSource) SystemZone() string {
	return ts.system.String()
}

// Zone is the identifier of the active zone
func (ts *TimeSource) Zone() string {
	return ts.loc.String()
}
