package hos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eld-trip-service/internal/model"
)

// handDays builds daily logs from a flat segment list, splitting at day
// boundaries the same way the allocator does. The segments must tile whole
// days.
func handDays(t *testing.T, segments ...model.DutySegment) []model.DailyLog {
	t.Helper()

	end := segments[len(segments)-1].EndMinute
	require.Zero(t, end%MinutesPerDay, "hand-built schedule must end on a day boundary")

	days := make([]model.DailyLog, end/MinutesPerDay)
	for i := range days {
		days[i].DayNumber = i + 1
	}
	for _, s := range segments {
		for _, piece := range splitAtDayBoundaries(s) {
			d := piece.StartMinute / MinutesPerDay
			days[d].Segments = append(days[d].Segments, piece)
		}
	}
	return days
}

func violationIDs(vs []model.Violation) []model.RuleID {
	ids := make([]model.RuleID, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.RuleID)
	}
	return ids
}

func TestEvaluateCompliantSingleDay(t *testing.T) {
	plan := planWithLegs(0, model.RouteLeg{
		DistanceMiles:  500,
		EstimatedHours: 9.09,
		StartLabel:     "Chicago, IL",
		EndLabel:       "Minneapolis, MN",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)

	annotated, summary, err := Evaluate(days, plan)
	require.NoError(t, err)

	assert.True(t, summary.IsCompliant)
	assert.Zero(t, summary.ViolationCount)
	assert.Empty(t, summary.Violations)
	assert.Equal(t, 1, summary.TotalDays)
	assert.Equal(t, 9.1, summary.TotalTripHours)
	assert.False(t, summary.Requires34HrRestart)
	assert.Empty(t, annotated[0].Violations)
}

func TestEvaluateCycleCeilingBreach(t *testing.T) {
	// 68 carried-in hours plus a 5-hour run lands the first day at 75 hours.
	plan := planWithLegs(68, model.RouteLeg{
		DistanceMiles:  275,
		EstimatedHours: 5,
		StartLabel:     "Tulsa, OK",
		EndLabel:       "Wichita, KS",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)
	require.Len(t, days, 1)

	annotated, summary, err := Evaluate(days, plan)
	require.NoError(t, err)

	require.Equal(t, 1, summary.ViolationCount)
	v := summary.Violations[0]
	assert.Equal(t, model.RuleCycleLimit, v.RuleID)
	assert.Equal(t, "§395.3(b)", v.Citation)
	assert.Equal(t, 70.0, v.Limit)
	assert.Equal(t, 75.0, v.Actual)

	assert.False(t, summary.IsCompliant)
	assert.True(t, summary.Requires34HrRestart, "no qualifying rest follows the breach")
	assert.True(t, annotated[0].RequiresRestart)
	assert.Equal(t, 75.0, annotated[0].Cycle8DayTotal)
}

func TestEvaluateShortHaulWaivesBreak(t *testing.T) {
	// Nine hours behind the wheel with no 30-minute break.
	days := handDays(t,
		seg(model.DutyStatusOffDuty, 0, 360),
		seg(model.DutyStatusOnDuty, 360, 420),
		seg(model.DutyStatusDriving, 420, 960),
		seg(model.DutyStatusOnDuty, 960, 1020),
		seg(model.DutyStatusOffDuty, 1020, 1440),
	)

	near, far := nearbyCoords()
	shortHaul := model.TripPlan{
		RequiresCDL:  true,
		CurrentCoord: near,
		DropoffCoord: far,
		Legs:         []model.RouteLeg{{DistanceMiles: 110, EstimatedHours: 9}},
	}

	_, summary, err := Evaluate(days, shortHaul)
	require.NoError(t, err)
	assert.True(t, summary.IsCompliant, "the 150 air-mile exception waives the break requirement")

	longHaul := model.TripPlan{
		RequiresCDL: true,
		Legs:        []model.RouteLeg{{DistanceMiles: 110, EstimatedHours: 9}},
	}
	_, summary, err = Evaluate(days, longHaul)
	require.NoError(t, err)
	assert.Contains(t, violationIDs(summary.Violations), model.RuleBreakRequirement)
}

func TestEvaluateBreakResetsDrivingRun(t *testing.T) {
	// Eleven total driving hours, but a 30-minute break splits them into
	// eight-hour and three-hour runs. Neither run may trip the break rule.
	days := handDays(t,
		seg(model.DutyStatusOffDuty, 0, 360),
		seg(model.DutyStatusOnDuty, 360, 420),
		seg(model.DutyStatusDriving, 420, 900),
		seg(model.DutyStatusOffDuty, 900, 930),
		seg(model.DutyStatusDriving, 930, 1110),
		seg(model.DutyStatusOnDuty, 1110, 1170),
		seg(model.DutyStatusOffDuty, 1170, 1440),
	)

	_, summary, err := Evaluate(days, model.TripPlan{RequiresCDL: true})
	require.NoError(t, err)
	assert.NotContains(t, violationIDs(summary.Violations), model.RuleBreakRequirement)
	assert.True(t, summary.IsCompliant)
}

func TestEvaluateAdverseConditionsExtension(t *testing.T) {
	// Twelve driving hours in a 14.5-hour stretch: over both standard limits,
	// inside both extended ones.
	days := handDays(t,
		seg(model.DutyStatusOffDuty, 0, 360),
		seg(model.DutyStatusOnDuty, 360, 420),
		seg(model.DutyStatusDriving, 420, 900),
		seg(model.DutyStatusOffDuty, 900, 930),
		seg(model.DutyStatusDriving, 930, 1170),
		seg(model.DutyStatusOnDuty, 1170, 1230),
		seg(model.DutyStatusOffDuty, 1230, 1440),
	)

	plan := model.TripPlan{AdverseConditions: true}
	_, summary, err := Evaluate(days, plan)
	require.NoError(t, err)
	assert.True(t, summary.IsCompliant)

	plan.AdverseConditions = false
	_, summary, err = Evaluate(days, plan)
	require.NoError(t, err)
	ids := violationIDs(summary.Violations)
	assert.Contains(t, ids, model.RuleDrivingLimit)
	assert.Contains(t, ids, model.RuleWindowLimit)
}

func TestEvaluateSixteenHourReliefOnce(t *testing.T) {
	// A 14.5-hour stretch kept legal only by the once-per-week 16-hour
	// short-haul provision.
	days := handDays(t,
		seg(model.DutyStatusOffDuty, 0, 360),
		seg(model.DutyStatusOnDuty, 360, 420),
		seg(model.DutyStatusDriving, 420, 900),
		seg(model.DutyStatusOffDuty, 900, 930),
		seg(model.DutyStatusDriving, 930, 1110),
		seg(model.DutyStatusOnDuty, 1110, 1230),
		seg(model.DutyStatusOffDuty, 1230, 1440),
	)

	cdl := model.TripPlan{RequiresCDL: true}
	_, summary, err := Evaluate(days, cdl)
	require.NoError(t, err)
	assert.True(t, summary.IsCompliant)

	_, summary, err = Evaluate(days, model.TripPlan{})
	require.NoError(t, err)
	assert.Contains(t, violationIDs(summary.Violations), model.RuleWindowLimit)
}

func TestEvaluateShortOvernightRest(t *testing.T) {
	// The overnight rest spans only 7.5 hours before duty resumes.
	days := handDays(t,
		seg(model.DutyStatusOffDuty, 0, 360),
		seg(model.DutyStatusOnDuty, 360, 420),
		seg(model.DutyStatusDriving, 420, 900),
		seg(model.DutyStatusOffDuty, 900, 930),
		seg(model.DutyStatusDriving, 930, 1110),
		seg(model.DutyStatusOffDuty, 1110, 1560),
		seg(model.DutyStatusDriving, 1560, 2100),
		seg(model.DutyStatusOnDuty, 2100, 2160),
		seg(model.DutyStatusOffDuty, 2160, 2880),
	)

	_, summary, err := Evaluate(days, model.TripPlan{RequiresCDL: true})
	require.NoError(t, err)
	assert.Contains(t, violationIDs(summary.Violations), model.RuleMinOffDuty)
}

func TestEvaluateAgriculturalSuppressesViolations(t *testing.T) {
	near, far := nearbyCoords()
	plan := model.TripPlan{
		CurrentLocation:    "Fresno, CA",
		PickupLocation:     "Fresno, CA",
		DropoffLocation:    "Visalia, CA",
		AgriculturalSource: true,
		RequiresCDL:        true,
		CurrentCoord:       near,
		DropoffCoord:       far,
		CycleHoursUsed:     68,
		Legs:               []model.RouteLeg{{DistanceMiles: 275, EstimatedHours: 5, StartLabel: "Fresno, CA", EndLabel: "Visalia, CA"}},
	}

	days, err := Allocate(plan)
	require.NoError(t, err)

	_, summary, err := Evaluate(days, plan)
	require.NoError(t, err)
	assert.True(t, summary.IsCompliant, "agricultural transport within the radius is exempt")
	assert.False(t, summary.Requires34HrRestart)
}

func TestEvaluateRederivesTotals(t *testing.T) {
	plan := planWithLegs(0, model.RouteLeg{
		DistanceMiles:  2500,
		EstimatedHours: 45.45,
		StartLabel:     "Los Angeles, CA",
		EndLabel:       "New York, NY",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)

	// Wipe the allocator's bookkeeping; the evaluator must rebuild it from
	// segments alone and reach the same numbers.
	stripped := make([]model.DailyLog, len(days))
	copy(stripped, days)
	for i := range stripped {
		stripped[i].DrivingHours = 0
		stripped[i].OnDutyHours = 0
		stripped[i].OffDutyHours = 0
		stripped[i].Cycle8DayTotal = 0
	}

	annotated, _, err := Evaluate(stripped, plan)
	require.NoError(t, err)

	for i := range days {
		assert.Equal(t, days[i].DrivingHours, annotated[i].DrivingHours, "day %d driving", i+1)
		assert.Equal(t, days[i].OnDutyHours, annotated[i].OnDutyHours, "day %d on duty", i+1)
		assert.Equal(t, days[i].OffDutyHours, annotated[i].OffDutyHours, "day %d off duty", i+1)
		assert.Equal(t, days[i].Cycle8DayTotal, annotated[i].Cycle8DayTotal, "day %d cycle", i+1)
	}
}

func TestEvaluateRejectsBrokenTiling(t *testing.T) {
	days := []model.DailyLog{
		{
			DayNumber: 1,
			Segments: []model.DutySegment{
				seg(model.DutyStatusOffDuty, 0, 360),
				seg(model.DutyStatusDriving, 400, 1440), // gap at minute 360
			},
		},
	}

	_, _, err := Evaluate(days, model.TripPlan{})
	assert.ErrorIs(t, err, ErrInvariant)

	_, _, err = Evaluate(nil, model.TripPlan{})
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestEvaluateCycleSeedCounts(t *testing.T) {
	leg := model.RouteLeg{DistanceMiles: 550, EstimatedHours: 10, StartLabel: "A", EndLabel: "B"}

	fresh := planWithLegs(0, leg)
	days, err := Allocate(fresh)
	require.NoError(t, err)
	_, summary, err := Evaluate(days, fresh)
	require.NoError(t, err)
	assert.True(t, summary.IsCompliant)

	// The same workload on top of 60 carried-in hours breaches the ceiling.
	loaded := planWithLegs(60, leg)
	days, err = Allocate(loaded)
	require.NoError(t, err)
	_, summary, err = Evaluate(days, loaded)
	require.NoError(t, err)
	require.Equal(t, 1, summary.ViolationCount)
	assert.Equal(t, model.RuleCycleLimit, summary.Violations[0].RuleID)
	assert.Equal(t, 72.0, summary.Violations[0].Actual)
}

func TestEvaluateFullCycleSeed(t *testing.T) {
	// A driver arriving with all 70 hours used cannot work legally at all;
	// the first shift breaches the ceiling and a restart stays outstanding.
	plan := planWithLegs(70, model.RouteLeg{
		DistanceMiles:  550,
		EstimatedHours: 10,
		StartLabel:     "A",
		EndLabel:       "B",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)
	require.Zero(t, countByDescription(days, "34-hour restart - 8-day cycle reset"),
		"the ceiling is checked between shifts, not before the first one")

	_, summary, err := Evaluate(days, plan)
	require.NoError(t, err)
	require.Equal(t, 1, summary.ViolationCount)
	assert.Equal(t, model.RuleCycleLimit, summary.Violations[0].RuleID)
	assert.True(t, summary.Requires34HrRestart)
}

func TestEvaluateMoreCycleHoursNeverHelp(t *testing.T) {
	leg := model.RouteLeg{DistanceMiles: 550, EstimatedHours: 10, StartLabel: "A", EndLabel: "B"}

	prev := -1
	for _, cycle := range []float64{0, 20, 40, 60, 70} {
		plan := planWithLegs(cycle, leg)
		days, err := Allocate(plan)
		require.NoError(t, err)
		_, summary, err := Evaluate(days, plan)
		require.NoError(t, err)

		require.GreaterOrEqual(t, summary.ViolationCount, prev,
			"carrying more cycle hours into the trip must not reduce violations (cycle=%v)", cycle)
		prev = summary.ViolationCount
	}
}
