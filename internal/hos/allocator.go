package hos

import (
	"fmt"
	"math"

	"eld-trip-service/internal/model"
)

// Policy holds the allocator knobs that are operational choices rather than
// regulation: which status inserted rest uses and when the first duty day
// begins.
type Policy struct {
	RestStatus         model.DutyStatus
	WorkdayStartMinute int
}

func DefaultPolicy() Policy {
	return Policy{
		RestStatus:         model.DutyStatusOffDuty,
		WorkdayStartMinute: 6 * 60,
	}
}

// Allocate turns a trip plan into per-day duty logs using the default
// policy. It is a pure function of its input: no wall-clock reads, no
// hidden state, deterministic segment placement.
func Allocate(plan model.TripPlan) ([]model.DailyLog, error) {
	return AllocateWithPolicy(plan, DefaultPolicy())
}

// AllocateWithPolicy consumes route legs in order, emitting driving segments
// chunked against the running HOS counters and inserting the mandatory
// stops: 30-minute breaks, 10-hour rests closing the 14-hour window, fuel
// stops every 1000 miles, pickup/dropoff hours and 34-hour restarts.
//
// Every emitted day tiles exactly 1440 minutes. The loop terminates because
// each iteration either consumes leg minutes or inserts a rest that resets
// the counter which blocked progress; the clock strictly advances either way.
func AllocateWithPolicy(plan model.TripPlan, pol Policy) ([]model.DailyLog, error) {
	if len(plan.Legs) == 0 {
		return nil, fmt.Errorf("%w: empty route", ErrInvalidInput)
	}
	if !pol.RestStatus.IsRest() {
		return nil, fmt.Errorf("%w: rest status %q is not a rest status", ErrInvalidInput, pol.RestStatus)
	}
	if pol.WorkdayStartMinute < 0 || pol.WorkdayStartMinute >= MinutesPerDay {
		return nil, fmt.Errorf("%w: workday start minute %d out of range", ErrInvalidInput, pol.WorkdayStartMinute)
	}

	a := &allocator{plan: plan, pol: pol}

	if pol.WorkdayStartMinute > 0 {
		a.appendSegment(model.DutyStatusOffDuty, pol.WorkdayStartMinute, "Off duty - rest before departure", plan.CurrentLocation)
	}

	a.onDuty(PickupMinutes, "Pickup - loading cargo", plan.PickupLocation)

	for _, leg := range plan.Legs {
		if err := a.drive(leg); err != nil {
			return nil, err
		}
	}

	a.onDuty(DropoffMinutes, "Dropoff - unloading cargo", plan.DropoffLocation)

	// Remaining time after the last scheduled segment is implicit off duty
	// up to the next day boundary.
	if pad := MinutesPerDay - a.now.MinuteOfDay(); pad > 0 && pad < MinutesPerDay {
		a.appendSegment(model.DutyStatusOffDuty, pad, "Off duty - end of duty day", plan.DropoffLocation)
	}

	return a.buildDays()
}

type allocator struct {
	plan model.TripPlan
	pol  Policy

	now      Clock
	segments []model.DutySegment

	drivenSinceBreak int
	drivenSinceRest  int
	windowStart      Clock
	windowOpen       bool
	milesSinceFuel   float64
}

func (a *allocator) drive(leg model.RouteLeg) error {
	legMinutes := int(math.Round(leg.EstimatedHours * 60))
	if legMinutes <= 0 || leg.DistanceMiles <= 0 {
		return fmt.Errorf("%w: leg %q -> %q has non-positive distance or duration", ErrInvalidInput, leg.StartLabel, leg.EndLabel)
	}
	routeLabel := leg.StartLabel + " - " + leg.EndLabel

	remaining := legMinutes
	for remaining > 0 {
		a.openShift(leg.StartLabel)

		windowLeft := WindowMinutes - int(a.now-a.windowStart)
		driveLeft := MaxDrivingMinutes - a.drivenSinceRest
		breakLeft := BreakAfterDrivingMinutes - a.drivenSinceBreak

		// Window exhaustion outranks the break requirement: once the 14-hour
		// ceiling is hit the duty day ends, a shorter break cannot save it.
		if windowLeft <= 0 || driveLeft <= 0 {
			a.rest(MinOffDutyMinutes, "10-hour off-duty period", leg.StartLabel)
			continue
		}
		if breakLeft <= 0 {
			if windowLeft <= BreakMinutes {
				a.rest(MinOffDutyMinutes, "10-hour off-duty period", leg.StartLabel)
			} else {
				a.rest(BreakMinutes, "30-minute break after 8 hours driving", "Rest Area")
			}
			continue
		}

		chunk := remaining
		for _, limit := range []int{windowLeft, driveLeft, breakLeft} {
			if limit < chunk {
				chunk = limit
			}
		}

		a.appendSegment(model.DutyStatusDriving, chunk, "Driving", routeLabel)
		a.drivenSinceBreak += chunk
		a.drivenSinceRest += chunk
		remaining -= chunk
	}

	// Fueling attaches to the nearest leg boundary after every 1000
	// cumulative driving miles. Mileage accumulates per whole leg so exact
	// thresholds are not lost to float drift.
	a.milesSinceFuel += leg.DistanceMiles
	for a.milesSinceFuel >= FuelIntervalMiles {
		a.onDuty(FuelStopMinutes, "Fuel stop - refueling vehicle", leg.EndLabel)
		a.milesSinceFuel -= FuelIntervalMiles
	}

	return nil
}

// onDuty appends an on-duty-not-driving block, first making sure the block
// fits the current 14-hour window.
func (a *allocator) onDuty(minutes int, description, location string) {
	if a.windowOpen && int(a.now-a.windowStart)+minutes > WindowMinutes {
		a.rest(MinOffDutyMinutes, "10-hour off-duty period", location)
	}
	a.openShift(location)
	a.appendSegment(model.DutyStatusOnDuty, minutes, description, location)
}

// openShift starts a new on-duty window if none is open. A new shift may not
// begin while the rolling 8-day cycle sits above 70 hours; a 34-hour restart
// is inserted first and resets the cycle. The ceiling is only checked between
// shifts, so a shift that crosses it mid-flight finishes and is reported as a
// violation.
func (a *allocator) openShift(location string) {
	if a.windowOpen {
		return
	}
	totals := cycleTotals(a.segments, seedMinutes(a.plan), a.now.DayIndex()+1)
	if totals[a.now.DayIndex()] > CycleLimitMinutes {
		a.rest(RestartMinutes, "34-hour restart - 8-day cycle reset", location)
	}
	a.windowStart = a.now
	a.windowOpen = true
}

// rest appends an off-duty (or sleeper, per policy) block and resets the
// counters the block qualifies for.
func (a *allocator) rest(minutes int, description, location string) {
	a.appendSegment(a.pol.RestStatus, minutes, description, location)
	if minutes >= BreakMinutes {
		a.drivenSinceBreak = 0
	}
	if minutes >= MinOffDutyMinutes {
		a.drivenSinceRest = 0
		a.windowOpen = false
	}
}

func (a *allocator) appendSegment(status model.DutyStatus, minutes int, description, location string) {
	start := a.now
	a.now = a.now.AddMinutes(minutes)
	a.segments = append(a.segments, model.DutySegment{
		Status:      status,
		StartMinute: int(start),
		EndMinute:   int(a.now),
		Description: description,
		Location:    location,
	})
}

// buildDays splits the flat segment list at day boundaries and derives the
// per-day totals from the allocator's own bookkeeping.
func (a *allocator) buildDays() ([]model.DailyLog, error) {
	numDays := a.now.DayIndex()
	if a.now.MinuteOfDay() != 0 || numDays == 0 {
		return nil, fmt.Errorf("%w: schedule ends mid-day at %d minutes", ErrInvariant, int(a.now))
	}

	days := make([]model.DailyLog, numDays)
	for i := range days {
		days[i].DayNumber = i + 1
	}

	for _, seg := range a.segments {
		for _, piece := range splitAtDayBoundaries(seg) {
			day := piece.StartMinute / MinutesPerDay
			days[day].Segments = append(days[day].Segments, piece)
		}
	}

	cycles := cycleTotals(a.segments, seedMinutes(a.plan), numDays)
	for i := range days {
		var driving, onDuty, offDuty, sleeper int
		for _, seg := range days[i].Segments {
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
		if driving+onDuty+offDuty+sleeper != MinutesPerDay {
			return nil, fmt.Errorf("%w: day %d sums to %d minutes", ErrInvariant, i+1, driving+onDuty+offDuty+sleeper)
		}
		days[i].DrivingHours = RoundHours(driving)
		days[i].OnDutyHours = RoundHours(driving + onDuty)
		days[i].OffDutyHours = RoundHours(offDuty + sleeper)
		days[i].SleeperHours = RoundHours(sleeper)
		days[i].Cycle8DayTotal = RoundHours(cycles[i])
		days[i].RequiresRestart = cycles[i] >= CycleLimitMinutes
	}

	return days, nil
}

func splitAtDayBoundaries(seg model.DutySegment) []model.DutySegment {
	var pieces []model.DutySegment
	for seg.StartMinute < seg.EndMinute {
		dayEnd := (seg.StartMinute/MinutesPerDay + 1) * MinutesPerDay
		piece := seg
		if seg.EndMinute > dayEnd {
			piece.EndMinute = dayEnd
		}
		pieces = append(pieces, piece)
		seg.StartMinute = piece.EndMinute
	}
	return pieces
}

func seedMinutes(plan model.TripPlan) int {
	return int(math.Round(plan.CycleHoursUsed * 60))
}
