package hos

import (
	"fmt"
	"math"
)

// MinutesPerDay is the length of one log-grid day.
const MinutesPerDay = 24 * 60

// Clock is a duty-cycle timestamp in whole minutes since trip start.
//
// It is deliberately not wall-clock time: legs can cross timezones, and all
// the HOS arithmetic only cares about elapsed duration. Calendar dates are
// attached once, at the reporting boundary, by the log assembler.
type Clock int

func (c Clock) AddMinutes(m int) Clock {
	return c + Clock(m)
}

// DayIndex is the zero-based log day this instant falls in.
func (c Clock) DayIndex() int {
	return int(c) / MinutesPerDay
}

// MinuteOfDay is the minute within the log day, 0..1439.
func (c Clock) MinuteOfDay() int {
	return int(c) % MinutesPerDay
}

// String renders the time of day as HH:MM.
func (c Clock) String() string {
	m := c.MinuteOfDay()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// RoundHours converts whole minutes to hours rounded to 0.1, the resolution
// the ELD grid displays. All accumulation happens in integer minutes; this is
// only ever applied to final values.
func RoundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}
