package converters

import (
	"fmt"
	"math"
	"time"
)

// Duration is an elapsed time split into calendar-free units.
type Duration struct {
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

// SecondsToDuration decomposes seconds into days, hours, minutes, seconds and
// milliseconds using floor division, so negative input yields a negative day
// count with positive lower units.
//
// A remainder below one second is reported as milliseconds (rounded up).
// Otherwise Seconds holds the whole seconds and the fraction is carried into
// Milliseconds.
func SecondsToDuration(seconds float64) Duration {
	d := Duration{
		Days:    int(math.Floor(seconds / 86400)),
		Hours:   int(floorMod(math.Floor(seconds/3600), 24)),
		Minutes: int(floorMod(math.Floor(seconds/60), 60)),
	}

	rem := floorMod(seconds, 60)
	if rem < 1 {
		d.Milliseconds = int(math.Ceil(rem * 1000))
		return d
	}

	whole := math.Floor(rem)
	d.Seconds = int(whole)
	// Rounding can reach 1000 for remainders like 59.9996.
	d.Milliseconds = min(int(math.Round((rem-whole)*1000)), 999)
	return d
}

// floorMod is the modulo whose result has the sign of b.
func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// DurationUntil formats the time left until target. The wall clock of target is
// read in the converter's location, ignoring any zone it carries. Only the two
// largest non-zero units are printed, e.g. "2 hrs 5 min"; a gap below one second
// formats as "". Past targets are not special-cased.
func (c *Converter) DurationUntil(target time.Time) string {
	now := c.clock.Now().In(c.loc)
	d := SecondsToDuration(wall(target, c.loc).Sub(now).Seconds())

	switch {
	case d.Days != 0:
		return fmt.Sprintf("%d days %d hrs", d.Days, d.Hours)
	case d.Hours != 0:
		return fmt.Sprintf("%d hrs %d min", d.Hours, d.Minutes)
	case d.Minutes != 0:
		return fmt.Sprintf("%d min %d sec", d.Minutes, d.Seconds)
	case d.Seconds != 0:
		return fmt.Sprintf("%d sec", d.Seconds)
	default:
		return ""
	}
}
