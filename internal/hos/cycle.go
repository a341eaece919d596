package hos

import "eld-trip-service/internal/model"

// restRun is a maximal run of contiguous rest segments on the trip clock.
type restRun struct {
	start int
	end   int
}

func (r restRun) minutes() int {
	return r.end - r.start
}

// restRuns merges adjacent off-duty/sleeper segments into continuous rest
// periods. Works on both the flat allocation list and day-split segments,
// since split pieces stay contiguous.
func restRuns(segments []model.DutySegment) []restRun {
	var runs []restRun
	for _, seg := range segments {
		if !seg.Status.IsRest() {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].end == seg.StartMinute {
			runs[n-1].end = seg.EndMinute
			continue
		}
		runs = append(runs, restRun{start: seg.StartMinute, end: seg.EndMinute})
	}
	return runs
}

// restartEnds returns the end minute of every qualifying cycle restart, a
// continuous rest of at least restartLen minutes.
func restartEnds(segments []model.DutySegment, restartLen int) []int {
	var ends []int
	for _, run := range restRuns(segments) {
		if run.minutes() >= restartLen {
			ends = append(ends, run.end)
		}
	}
	return ends
}

// cycleTotals computes the rolling 70-hour/8-day total as of the end of each
// day, directly from segments: the trailing-8-day sum of on-duty minutes,
// seeded with the pre-trip cycle hours, reset by any qualifying 34-hour
// restart. The seed ages out once the trip itself spans a full 8-day window.
func cycleTotals(segments []model.DutySegment, seed, numDays int) []int {
	onDuty := make([]int, numDays)
	for _, seg := range segments {
		if !seg.Status.IsOnDuty() {
			continue
		}
		for _, piece := range splitAtDayBoundaries(seg) {
			if d := piece.StartMinute / MinutesPerDay; d < numDays {
				onDuty[d] += piece.EndMinute - piece.StartMinute
			}
		}
	}

	resets := restartEnds(segments, RestartMinutes)

	totals := make([]int, numDays)
	for d := 0; d < numDays; d++ {
		endOfDay := (d + 1) * MinutesPerDay
		lastReset := -1
		for _, r := range resets {
			if r <= endOfDay && r > lastReset {
				lastReset = r
			}
		}

		sum := 0
		lo := d - (CycleDays - 1)
		if lo < 0 {
			lo = 0
		}
		for e := lo; e <= d; e++ {
			if lastReset < 0 {
				sum += onDuty[e]
			} else {
				sum += onDutyMinutesAfter(segments, e, lastReset)
			}
		}
		if lastReset < 0 && d < CycleDays {
			sum += seed
		}
		totals[d] = sum
	}
	return totals
}

// onDutyMinutesAfter counts the on-duty minutes of one day that fall at or
// after the cutoff clock (used to exclude pre-restart work).
func onDutyMinutesAfter(segments []model.DutySegment, day, cutoff int) int {
	total := 0
	for _, seg := range segments {
		if !seg.Status.IsOnDuty() {
			continue
		}
		for _, piece := range splitAtDayBoundaries(seg) {
			if piece.StartMinute/MinutesPerDay != day {
				continue
			}
			start := piece.StartMinute
			if start < cutoff {
				start = cutoff
			}
			if piece.EndMinute > start {
				total += piece.EndMinute - start
			}
		}
	}
	return total
}
