package value

import "fmt"

// DurationUnit is one of the seven duration units from spec section 3.
type DurationUnit uint8

// Duration units, smallest to largest.
const (
	Nanoseconds DurationUnit = iota
	Microseconds
	Milliseconds
	Seconds
	Minutes
	Hours
	Days
)

var durationUnitNames = [...]string{"ns", "µs", "ms", "s", "min", "h", "d"}

// durationUnitNanos gives the number of nanoseconds in one unit of u, used to
// canonicalize before comparing (spec section 4.A: "Duration/DataSize
// equality normalizes to canonical units before comparing").
var durationUnitNanos = [...]float64{1, 1e3, 1e6, 1e9, 60e9, 3600e9, 86400e9}

// String renders the unit's Pkl spelling.
func (u DurationUnit) String() string { return durationUnitNames[u] }

// ParseDurationUnit resolves a Pkl duration unit spelling (also accepting the
// ASCII "us" alias for microseconds).
func ParseDurationUnit(s string) (DurationUnit, bool) {
	if s == "us" {
		return Microseconds, true
	}

	for i, n := range durationUnitNames {
		if n == s {
			return DurationUnit(i), true
		}
	}

	return 0, false
}

// Duration is a value + unit pair (spec section 3).
type Duration struct {
	Value float64
	Unit  DurationUnit
}

// NewDuration constructs a Duration.
func NewDuration(v float64, u DurationUnit) Duration { return Duration{v, u} }

// Nanos returns this duration's value in canonical nanoseconds.
func (d Duration) Nanos() float64 { return d.Value * durationUnitNanos[d.Unit] }

// Kind implements Value.
func (Duration) Kind() Kind { return KindDuration }

// Equals implements Value: compares canonical nanosecond magnitude, so
// `1.0.h` equals `60.min`.
func (d Duration) Equals(other Value) bool {
	o, ok := other.(Duration)
	return ok && d.Nanos() == o.Nanos()
}

// Hash implements Value.
func (d Duration) Hash() uint64 { return hashNumeric(d.Nanos()) }

// String implements Value.
func (d Duration) String() string { return fmt.Sprintf("%g.%s", d.Value, d.Unit) }
