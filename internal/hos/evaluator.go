package hos

import (
	"fmt"

	"eld-trip-service/internal/model"
)

// Evaluate re-walks the produced schedule and annotates it with violations.
//
// All per-day totals are re-derived directly from the segments; the
// allocator's bookkeeping is never trusted. This is the system's
// authoritative check, so the two derivations must agree.
func Evaluate(days []model.DailyLog, plan model.TripPlan) ([]model.DailyLog, model.ComplianceSummary, error) {
	if len(days) == 0 {
		return nil, model.ComplianceSummary{}, fmt.Errorf("%w: no daily logs to evaluate", ErrInvariant)
	}

	flat, err := flattenAndVerify(days)
	if err != nil {
		return nil, model.ComplianceSummary{}, err
	}

	annotated := make([]model.DailyLog, len(days))
	copy(annotated, days)

	eligible := EligibleExceptions(plan)
	cycles := cycleTotals(flat, seedMinutes(plan), len(days))

	for i := range annotated {
		var driving, onDuty, offDuty, sleeper int
		for _, seg := range annotated[i].Segments {
			m := seg.EndMinute - seg.StartMinute
			switch seg.Status {
			case model.DutyStatusDriving:
				driving += m
			case model.DutyStatusOnDuty:
				onDuty += m
			case model.DutyStatusSleeper:
				sleeper += m
			default:
				offDuty += m
			}
		}
		annotated[i].DrivingHours = RoundHours(driving)
		annotated[i].OnDutyHours = RoundHours(driving + onDuty)
		annotated[i].OffDutyHours = RoundHours(offDuty + sleeper)
		annotated[i].SleeperHours = RoundHours(sleeper)
		annotated[i].Cycle8DayTotal = RoundHours(cycles[i])
		annotated[i].RequiresRestart = cycles[i] >= CycleLimitMinutes
		annotated[i].Violations = nil
	}

	byDay := make(map[int][]model.Violation)
	if !eligible.Has(ExceptionAgricultural) {
		collectShiftViolations(flat, eligible, byDay)
		collectRestViolations(flat, len(days), byDay)
		for d, total := range cycles {
			if total > CycleLimitMinutes {
				byDay[d] = append(byDay[d], violationFor(model.RuleCycleLimit, total))
			}
		}
	}

	summary := model.ComplianceSummary{
		IsCompliant: true,
		TotalDays:   len(days),
	}
	if !eligible.Has(ExceptionAgricultural) {
		summary.Requires34HrRestart = restartOutstanding(flat, cycles, eligible)
	}
	for i := range annotated {
		annotated[i].Violations = byDay[i]
		summary.ViolationCount += len(byDay[i])
		summary.TotalTripHours += annotated[i].DrivingHours
		summary.Violations = append(summary.Violations, byDay[i]...)
	}
	summary.IsCompliant = summary.ViolationCount == 0

	return annotated, summary, nil
}

// flattenAndVerify rebuilds the flat segment sequence, failing fast if any
// day does not tile exactly 1440 contiguous minutes.
func flattenAndVerify(days []model.DailyLog) ([]model.DutySegment, error) {
	var flat []model.DutySegment
	for i, day := range days {
		expect := i * MinutesPerDay
		if len(day.Segments) == 0 {
			return nil, fmt.Errorf("%w: day %d has no segments", ErrInvariant, day.DayNumber)
		}
		for _, seg := range day.Segments {
			if seg.StartMinute != expect || seg.EndMinute <= seg.StartMinute {
				return nil, fmt.Errorf("%w: day %d segment at minute %d breaks contiguity", ErrInvariant, day.DayNumber, seg.StartMinute)
			}
			expect = seg.EndMinute
			flat = append(flat, seg)
		}
		if expect != (i+1)*MinutesPerDay {
			return nil, fmt.Errorf("%w: day %d sums to %d minutes", ErrInvariant, day.DayNumber, expect-i*MinutesPerDay)
		}
	}
	return flat, nil
}

// shift is a maximal duty stretch between qualifying 10-hour rests.
type shift struct {
	start         int // first non-rest minute
	lastOnEnd     int // end of the last non-rest segment
	driving       int
	maxDriveNoBrk int
	segments      []model.DutySegment
}

func buildShifts(flat []model.DutySegment) []shift {
	var shifts []shift
	var cur *shift
	restSince := -1 // start of the current rest run, -1 when not in one

	closeShift := func() {
		if cur != nil {
			shifts = append(shifts, *cur)
			cur = nil
		}
	}

	for _, seg := range flat {
		if seg.Status.IsRest() {
			if restSince < 0 {
				restSince = seg.StartMinute
			}
			// Short rests stay part of the shift; the no-break driving run
			// is measured over them.
			if cur != nil {
				cur.segments = append(cur.segments, seg)
			}
			if seg.EndMinute-restSince >= MinOffDutyMinutes {
				closeShift()
			}
			continue
		}
		restSince = -1
		if cur == nil {
			cur = &shift{start: seg.StartMinute}
		}
		cur.lastOnEnd = seg.EndMinute
		if seg.Status == model.DutyStatusDriving {
			cur.driving += seg.EndMinute - seg.StartMinute
		}
		cur.segments = append(cur.segments, seg)
	}
	closeShift()

	for i := range shifts {
		shifts[i].maxDriveNoBrk = maxDrivingWithoutBreak(shifts[i].segments)
	}
	return shifts
}

// maxDrivingWithoutBreak finds the longest driving accumulation not
// interrupted by >=30 continuous rest minutes. On-duty-not-driving time does
// not reset the counter.
func maxDrivingWithoutBreak(segments []model.DutySegment) int {
	maxRun, run := 0, 0
	restSince := -1
	for _, seg := range segments {
		if seg.Status.IsRest() {
			if restSince < 0 {
				restSince = seg.StartMinute
			}
			if seg.EndMinute-restSince >= BreakMinutes {
				run = 0
			}
			continue
		}
		restSince = -1
		if seg.Status == model.DutyStatusDriving {
			run += seg.EndMinute - seg.StartMinute
			if run > maxRun {
				maxRun = run
			}
		}
	}
	return maxRun
}

func collectShiftViolations(flat []model.DutySegment, eligible ExceptionSet, byDay map[int][]model.Violation) {
	driveLimit := MaxDrivingMinutes
	windowLimit := WindowMinutes
	if eligible.Has(ExceptionAdverse) {
		driveLimit += AdverseExtensionMinutes
		windowLimit += AdverseExtensionMinutes
	}
	shortHaul := eligible.Has(ExceptionShortHaulCDL) || eligible.Has(ExceptionShortHaulNonCDL)
	sixteenAvailable := eligible.Has(ExceptionSixteenHour)

	for _, sh := range buildShifts(flat) {
		if sh.driving > driveLimit {
			d := drivingCrossingDay(sh.segments, driveLimit)
			byDay[d] = append(byDay[d], violationFor(model.RuleDrivingLimit, sh.driving))
		}

		window := sh.lastOnEnd - sh.start
		if window > windowLimit {
			// The 16-hour short-haul relief applies to a single shift that
			// still releases the driver within 16 hours.
			if sixteenAvailable && window <= SixteenHourWindow {
				sixteenAvailable = false
			} else {
				d := (sh.start + windowLimit) / MinutesPerDay
				byDay[d] = append(byDay[d], violationFor(model.RuleWindowLimit, window))
			}
		}

		if !shortHaul && sh.maxDriveNoBrk > BreakAfterDrivingMinutes {
			d := drivingCrossingDay(sh.segments, BreakAfterDrivingMinutes)
			byDay[d] = append(byDay[d], violationFor(model.RuleBreakRequirement, sh.maxDriveNoBrk))
		}
	}
}

// drivingCrossingDay locates the day containing the minute where cumulative
// driving first exceeded the limit.
func drivingCrossingDay(segments []model.DutySegment, limit int) int {
	cum := 0
	day := 0
	for _, seg := range segments {
		if seg.Status != model.DutyStatusDriving {
			continue
		}
		m := seg.EndMinute - seg.StartMinute
		if cum+m > limit {
			return (seg.StartMinute + (limit - cum)) / MinutesPerDay
		}
		cum += m
		day = seg.EndMinute / MinutesPerDay
	}
	return day
}

// collectRestViolations flags overnight rest periods that close a duty day
// with less than 10 continuous hours: a rest run crossing a day boundary
// with duty on both sides but shorter than the minimum.
func collectRestViolations(flat []model.DutySegment, numDays int, byDay map[int][]model.Violation) {
	runs := restRuns(flat)
	tripEnd := numDays * MinutesPerDay
	for _, run := range runs {
		if run.minutes() >= MinOffDutyMinutes {
			continue
		}
		if run.minutes() <= BreakMinutes {
			continue // a 30-minute break straddling midnight is not an overnight rest
		}
		if run.start == 0 || run.end == tripEnd {
			continue // leading or trailing padding, not an inserted rest
		}
		if run.start/MinutesPerDay == (run.end-1)/MinutesPerDay {
			continue // intra-day break, the window rule covers it
		}
		d := run.end / MinutesPerDay
		if d >= numDays {
			d = numDays - 1
		}
		byDay[d] = append(byDay[d], violationFor(model.RuleMinOffDuty, run.minutes()))
	}
}

// restartOutstanding reports whether any day hit the 70-hour ceiling without
// a qualifying restart before the next on-duty segment.
func restartOutstanding(flat []model.DutySegment, cycles []int, eligible ExceptionSet) bool {
	restartLen := RestartMinutes
	if eligible.Has(ExceptionConstruction) {
		restartLen = ConstructionRestart
	}

	for d, total := range cycles {
		if total < CycleLimitMinutes {
			continue
		}
		endOfDay := (d + 1) * MinutesPerDay

		lastOn := -1
		for _, seg := range flat {
			if seg.Status.IsOnDuty() && seg.StartMinute < endOfDay {
				lastOn = seg.EndMinute
			}
		}
		if lastOn < 0 {
			continue
		}

		nextOn := -1
		for _, seg := range flat {
			if seg.Status.IsOnDuty() && seg.StartMinute >= lastOn {
				nextOn = seg.StartMinute
				break
			}
		}

		satisfied := false
		for _, run := range restRuns(flat) {
			if run.start >= lastOn && (nextOn < 0 || run.end <= nextOn) && run.minutes() >= restartLen {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return true
		}
	}
	return false
}
