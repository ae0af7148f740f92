package radial

import (
	"fmt"
	"strings"
	"time"

	Rt "github.com/maroda/radial/types"
)

// Basis selects how a field value is turned into Current/Max progress.
type Basis int

const (
	// BasisActual uses the actual calendar range of the field.
	// Progress is value-min over max-min, so the last second,
	// the last day of the month and December all draw a full circle.
	BasisActual Basis = iota

	// BasisCount counts elapsed units over the number of units.
	// A field never closes its ring, second 59 is 354°.
	BasisCount
)

func (b Basis) String() string {
	switch b {
	case BasisActual:
		return "actual"
	case BasisCount:
		return "count"
	default:
		return "unknown"
	}
}

// ParseBasis reads a basis name from config
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "actual":
		return BasisActual, nil
	case "count":
		return BasisCount, nil
	}
	return BasisActual, fmt.Errorf("unknown basis: %s", s)
}

// fieldRange is one row of the max-value policy table
type fieldRange struct {
	value func(s Rt.TimeSnapshot, hours12 bool) int
	min   int
	max   func(s Rt.TimeSnapshot, hours12 bool) int // actual maximum, inclusive
	units func(s Rt.TimeSnapshot, hours12 bool) int // unit count
}

func fixed(n int) func(Rt.TimeSnapshot, bool) int {
	return func(Rt.TimeSnapshot, bool) int { return n }
}

func hourValue(s Rt.TimeSnapshot, hours12 bool) int {
	if hours12 {
		return s.Hour % 12
	}
	return s.Hour
}

func hourUnits(_ Rt.TimeSnapshot, hours12 bool) int {
	if hours12 {
		return 12
	}
	return 24
}

func monthDays(s Rt.TimeSnapshot, _ bool) int {
	return DaysIn(s.Year, time.Month(s.Month))
}

// policy is the per field max-value table, indexed by Rt.Field.
// Second and minute never depend on the calendar,
// day of month and hour do.
var policy = [Rt.FieldCount]fieldRange{
	Rt.Second: {
		value: func(s Rt.TimeSnapshot, _ bool) int { return s.Second },
		min:   0,
		max:   fixed(59),
		units: fixed(60),
	},
	Rt.Minute: {
		value: func(s Rt.TimeSnapshot, _ bool) int { return s.Minute },
		min:   0,
		max:   fixed(59),
		units: fixed(60),
	},
	Rt.Hour: {
		value: hourValue,
		min:   0,
		max:   func(s Rt.TimeSnapshot, h12 bool) int { return hourUnits(s, h12) - 1 },
		units: hourUnits,
	},
	Rt.DayOfMonth: {
		value: func(s Rt.TimeSnapshot, _ bool) int { return s.DayOfMonth },
		min:   1,
		max:   monthDays,
		units: monthDays,
	},
	Rt.Month: {
		value: func(s Rt.TimeSnapshot, _ bool) int { return s.Month },
		min:   1,
		max:   fixed(12),
		units: fixed(12),
	},
}

// DaysIn returns the number of days in the month of the given year
func DaysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FieldMax returns the inclusive upper bound of Current for a field
func FieldMax(f Rt.Field, s Rt.TimeSnapshot, basis Basis, hours12 bool) int {
	r := policy[f]
	if basis == BasisCount {
		return r.units(s, hours12)
	}
	return r.max(s, hours12) - r.min
}

// Fields builds the ordered FieldSpec list, innermost ring first.
// Current is clamped into [0, Max] so a skewed clock never produces
// a negative or overfull arc.
func Fields(s Rt.TimeSnapshot, basis Basis, hours12 bool) []Rt.FieldSpec {
	specs := make([]Rt.FieldSpec, 0, Rt.FieldCount)
	for f := Rt.Second; f <= Rt.Month; f++ {
		r := policy[f]
		value := r.value(s, hours12)
		hi := FieldMax(f, s, basis, hours12)
		specs = append(specs, Rt.FieldSpec{
			Field:   f,
			Value:   value,
			Current: clampInt(value-r.min, 0, hi),
			Max:     hi,
		})
	}
	return specs
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
